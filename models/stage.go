package models

// Stage is a phase of a tournament ("Group A", "Round of 16"). Unique per
// (tournament, name) and owner of exactly one scoring rule.
type Stage struct {
	ID           int    `json:"id" db:"id"`
	TournamentID int    `json:"tournament_id" db:"tournament_id"`
	Name         string `json:"name" db:"name"`

	Tournament *Tournament  `json:"tournament,omitempty" db:"-"`
	Rule       *ScoringRule `json:"rule,omitempty" db:"-"`
}
