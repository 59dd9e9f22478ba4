// Package queue defines audit event payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Audit event kinds.
const (
	EventUserRegistered = "user.registered"
	EventTaskCreated    = "task.created"
	EventTaskUpdated    = "task.updated"
	EventTaskDeleted    = "task.deleted"
)

// Event is published on registrations and admin task mutations. TaskID
// and Title are zero for user events; Username is empty for task events.
type Event struct {
	Kind       string `json:"kind"`
	ActorID    uint64 `json:"actor_id"`
	TaskID     uint64 `json:"task_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Username   string `json:"username,omitempty"`
	OccurredAt string `json:"occurred_at"`
}
