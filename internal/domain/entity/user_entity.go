package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	Disabled     bool
	Scopes       []SecurityScope
	CreatedAt    time.Time
}

// ScopeNames returns the names of the scopes granted to the user.
func (u *User) ScopeNames() []string {
	out := make([]string, 0, len(u.Scopes))
	for _, s := range u.Scopes {
		out = append(out, s.Name)
	}
	return out
}
