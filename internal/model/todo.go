package model

// Todo represents a row in the `todos` table. OwnerID references users.id
// and scopes every self-service query.
type Todo struct {
	ID          uint64
	Title       string
	Description string
	Priority    int
	Completed   bool
	OwnerID     uint64
}
