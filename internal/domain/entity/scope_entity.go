package entity

// SecurityScope represents a named permission.
// Many-to-many with User via user_security_scopes.
type SecurityScope struct {
	ID          string
	Name        string
	Description string
}
