package models

import "time"

// Match belongs to a stage and is unique per (stage, number). Teams and
// scores are nullable: knockout matches are created before their participants
// are known, and a finished match may be reset by clearing both scores.
type Match struct {
	ID         int       `json:"id" db:"id"`
	StageID    int       `json:"stage_id" db:"stage_id"`
	Number     int       `json:"number" db:"number"`
	StartTime  time.Time `json:"start_time" db:"start_time"`
	HomeTeamID *int      `json:"home_team_id,omitempty" db:"home_team_id"`
	AwayTeamID *int      `json:"away_team_id,omitempty" db:"away_team_id"`
	HomeScore  *int      `json:"home_score,omitempty" db:"home_score"`
	AwayScore  *int      `json:"away_score,omitempty" db:"away_score"`

	Stage    *Stage `json:"stage,omitempty" db:"-"`
	HomeTeam *Team  `json:"home_team,omitempty" db:"-"`
	AwayTeam *Team  `json:"away_team,omitempty" db:"-"`
}

// Finished reports whether both scores are set. Only finished matches award
// points.
func (m *Match) Finished() bool {
	return m.HomeScore != nil && m.AwayScore != nil
}
