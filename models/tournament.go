package models

import "time"

// Tournament is the root of all stages and matches. Its name is unique and
// immutable once created.
type Tournament struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	Stages []Stage `json:"stages,omitempty" db:"-"`
}
