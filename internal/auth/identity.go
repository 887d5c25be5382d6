package auth

import "github.com/iliyamo/todo-app/internal/model"

// Identity is the verified caller of a single request, derived from its
// bearer token. It is never persisted.
type Identity struct {
	Username string
	UserID   uint64
	Role     string
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool { return i.Role == model.RoleAdmin }

// Owns reports whether ownerID is the caller.
func (i Identity) Owns(ownerID uint64) bool { return ownerID == i.UserID }
