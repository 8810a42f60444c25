package models

import "time"

// Activity types recorded by the services.
const (
	ActivityUserRegistered = "USER_REGISTERED"
	ActivityLogin          = "LOGIN"
	ActivityLogout         = "LOGOUT"
	ActivityPostCreated    = "POST_CREATED"
	ActivityPostLiked      = "POST_LIKED"
	ActivityPostDeleted    = "POST_DELETED"
)

// Activity is a single audit log entry.
type Activity struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`
	Username    string    `json:"username"`
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
