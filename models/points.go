package models

import "time"

// StagePoint is a friend-scoped bonus awarded for a whole stage (e.g.
// correctly predicting the advancing teams). Unique per (friend, stage).
type StagePoint struct {
	ID       int `json:"id" db:"id"`
	FriendID int `json:"friend_id" db:"friend_id"`
	StageID  int `json:"stage_id" db:"stage_id"`
	Points   int `json:"points" db:"points"`

	Friend *Friend `json:"friend,omitempty" db:"-"`
	Stage  *Stage  `json:"stage,omitempty" db:"-"`
}

// TopScorerPoint is a friend-scoped bonus tied to a match in which the
// friend's picked top scorer scored.
type TopScorerPoint struct {
	ID       int `json:"id" db:"id"`
	FriendID int `json:"friend_id" db:"friend_id"`
	MatchID  int `json:"match_id" db:"match_id"`
	Points   int `json:"points" db:"points"`

	Friend *Friend `json:"friend,omitempty" db:"-"`
	Match  *Match  `json:"match,omitempty" db:"-"`
}

// TotalPoint is the derived per-(friend, tournament) sum of all point
// sources. It has no independent source of truth and is rewritten in full
// by every recompute.
type TotalPoint struct {
	ID           int       `json:"id" db:"id"`
	FriendID     int       `json:"friend_id" db:"friend_id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	Points       int       `json:"points" db:"points"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Friend *Friend `json:"friend,omitempty" db:"-"`
}
