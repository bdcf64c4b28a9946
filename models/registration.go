package models

import "time"

// Registration links a friend to a tournament. Registering seeds one
// placeholder prediction per existing match; unregistering removes all of
// the friend's predictions for the tournament.
type Registration struct {
	ID           int       `json:"id" db:"id"`
	FriendID     int       `json:"friend_id" db:"friend_id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
