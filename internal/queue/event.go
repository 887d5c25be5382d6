// Package queue defines the audit payloads exchanged over the message broker
// and the consumer that records them.
package queue

// AuditQueue is the durable queue audit events are published to.
const AuditQueue = "todo.audit"

const (
	EventUserRegistered   = "user.registered"
	EventPasswordChanged  = "user.password_changed"
	EventAdminTodoDeleted = "admin.todo_deleted"
)

// AuditEvent records a security-relevant action. It never carries
// passwords, hashes or tokens.
type AuditEvent struct {
	Type          string `json:"type"`
	ActorID       uint64 `json:"actor_id"`
	ActorUsername string `json:"actor_username"`
	UserID        uint64 `json:"user_id,omitempty"`
	TodoID        uint64 `json:"todo_id,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}
