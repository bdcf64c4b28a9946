package models

import "time"

type FriendRole string

const (
	RoleFriend FriendRole = "friend"
	RoleAdmin  FriendRole = "admin"
)

// Friend is a pool member. Everyone who predicts is a "friend"; admins
// additionally manage tournaments, matches and rules.
type Friend struct {
	ID           int        `json:"id" db:"id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         FriendRole `json:"role" db:"role"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

func (f *Friend) FullName() string {
	return f.FirstName + " " + f.LastName
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
