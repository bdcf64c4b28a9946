package models

// GroupRow is one line of a friend's self-consistency group table: how the
// group would look if the friend's own predicted scores were the real
// results. Unique per (friend, stage, team) and rebuilt in full whenever any
// of the friend's predictions in the stage changes.
type GroupRow struct {
	ID           int `json:"id" db:"id"`
	FriendID     int `json:"friend_id" db:"friend_id"`
	StageID      int `json:"stage_id" db:"stage_id"`
	TeamID       int `json:"team_id" db:"team_id"`
	Position     int `json:"position" db:"position"`
	Played       int `json:"played" db:"played"`
	Wins         int `json:"wins" db:"wins"`
	Draws        int `json:"draws" db:"draws"`
	Losses       int `json:"losses" db:"losses"`
	GoalsFor     int `json:"goals_for" db:"goals_for"`
	GoalsAgainst int `json:"goals_against" db:"goals_against"`
	Points       int `json:"points" db:"points"`

	Team *Team `json:"team,omitempty" db:"-"`
}

// GoalDifference is derived, never stored.
func (r *GroupRow) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}
