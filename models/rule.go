package models

// ScoringRule defines the point values a stage awards per outcome. One rule
// per stage. TeamPickRequired marks knockout stages, where a prediction
// carries its own team picks and mismatched picks score as not participated.
type ScoringRule struct {
	ID               int  `json:"id" db:"id"`
	StageID          int  `json:"stage_id" db:"stage_id"`
	Wrong            int  `json:"wrong" db:"wrong"`
	Hit              int  `json:"hit" db:"hit"`
	Bullseye         int  `json:"bullseye" db:"bullseye"`
	TeamPickRequired bool `json:"team_pick_required" db:"team_pick_required"`
}
