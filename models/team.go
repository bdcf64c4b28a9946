package models

// Team has a globally unique name. CrestKey is the object-storage key of the
// uploaded crest image; CrestURL is derived and never stored.
type Team struct {
	ID   int    `json:"id" db:"id"`
	Name string `json:"name" db:"name"`

	CrestKey *string `json:"-" db:"crest_key"`
	CrestURL *string `json:"crest_url,omitempty" db:"-"`
}
