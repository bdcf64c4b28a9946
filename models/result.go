package models

import "time"

// Outcome classifies a prediction against a finished match result.
type Outcome string

const (
	OutcomeNotParticipated Outcome = "NO"
	OutcomeWrong           Outcome = "WO"
	OutcomeHit             Outcome = "HI"
	OutcomeBullseye        Outcome = "BU"
)

func (o Outcome) Label() string {
	switch o {
	case OutcomeNotParticipated:
		return "Not Participated"
	case OutcomeWrong:
		return "Wrong"
	case OutcomeHit:
		return "Hit"
	case OutcomeBullseye:
		return "Bullseye"
	}
	return string(o)
}

// PredictionResult is the ledger entry for one prediction: the computed
// outcome and points. One row per prediction, overwritten on every
// recompute, never authored directly.
type PredictionResult struct {
	ID           int       `json:"id" db:"id"`
	PredictionID int       `json:"prediction_id" db:"prediction_id"`
	Outcome      Outcome   `json:"outcome" db:"outcome"`
	Points       int       `json:"points" db:"points"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`

	Prediction *Prediction `json:"prediction,omitempty" db:"-"`
}

func (r *PredictionResult) OutcomeLabel() string {
	return r.Outcome.Label()
}
