package models

import "time"

// Prediction is a friend's predicted score for a match, unique per
// (friend, match). Scores are nullable: registration creates placeholder
// predictions that the friend fills in later, and an unfilled prediction
// never participates in scoring or group tables. Team picks are only used
// for knockout stages, where the actual participants may differ from the
// friend's expectation.
type Prediction struct {
	ID         int       `json:"id" db:"id"`
	FriendID   int       `json:"friend_id" db:"friend_id"`
	MatchID    int       `json:"match_id" db:"match_id"`
	HomeScore  *int      `json:"home_score,omitempty" db:"home_score"`
	AwayScore  *int      `json:"away_score,omitempty" db:"away_score"`
	HomeTeamID *int      `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID *int      `json:"away_team_id,omitempty" db:"away_team_id"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	Friend *Friend `json:"friend,omitempty" db:"-"`
	Match  *Match  `json:"match,omitempty" db:"-"`
}

// Scored reports whether the friend actually filled in both scores.
func (p *Prediction) Scored() bool {
	return p.HomeScore != nil && p.AwayScore != nil
}
