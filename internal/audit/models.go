package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - actor_uid and action are required.
// - ip capture is best-effort; do not block admin flows on audit failures.
type Event struct {
	ID   string    `json:"id"`
	Type EventType `json:"type"`

	// Action names what happened, e.g. "news.create".
	Action string `json:"action"`

	ActorUID   string `json:"actor_uid"`
	ActorEmail string `json:"actor_email,omitempty"`

	// IPAddress is the client IP as resolved by the HTTP layer.
	IPAddress string `json:"ip_address,omitempty"`

	// TargetID identifies the affected record (news id, inquiry id).
	TargetID string `json:"target_id,omitempty"`

	Message string `json:"message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type EventType string

const (
	EventTypeAdminAction EventType = "admin_action"
)

// Actions recorded by the API.
const (
	ActionNewsCreate = "news.create"
	ActionAuthRevoke = "auth.revoke"
)
