// Package queue defines the activity event payload exchanged over
// the message broker plus the publisher and background consumer.
package queue

// Entity/action names used in ActivityEvent.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ActivityEvent records a mutation of a CRM record. It is
// published after the row change commits; consumers use it for
// activity feeds and audit logs without touching the primary
// database.
type ActivityEvent struct {
	Entity     string `json:"entity"`
	EntityID   uint64 `json:"entity_id"`
	UserID     uint64 `json:"user_id"`
	Action     string `json:"action"`
	OccurredAt string `json:"occurred_at"`
}
