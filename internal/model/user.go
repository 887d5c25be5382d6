package model

import "database/sql"

// User represents an application user record as stored in the `users`
// table. Handlers define their own response types so the hashed password
// never leaves the service.
type User struct {
	ID             uint64         // users.id
	Email          string         // users.email (unique)
	Username       string         // users.username (unique)
	FirstName      string         // users.first_name
	LastName       string         // users.last_name
	HashedPassword string         // users.hashed_password (bcrypt)
	IsActive       bool           // users.is_active
	Role           string         // users.role, e.g. "admin" or "user"
	PhoneNumber    sql.NullString // users.phone_number
}

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
