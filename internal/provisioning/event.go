package provisioning

import "time"

// Event types on the identity lifecycle topic.
const (
	EventCreated = "CREATED"
	EventUpdated = "UPDATED"
	EventDeleted = "DELETED"
)

// Event is one identity-lifecycle message. Messages for the same UserID are
// produced to the same partition, so per-user ordering holds; cross-user
// ordering does not and must not be relied upon.
type Event struct {
	EventType string    `json:"eventType"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	Roles     []string  `json:"roles,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
