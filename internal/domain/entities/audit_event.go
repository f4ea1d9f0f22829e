package entities

import (
	"time"
)

// Audit event kinds. The set is closed so the log stays schema-stable.
const (
	EventLoginAttempt = "login_attempt"
	EventAction       = "action"
	EventDenied       = "denied"
	EventLogout       = "logout"
)

// AuditEvent is one record of the append-only usage trail. Events are never
// mutated or deleted once written; append order is chronological order.
type AuditEvent struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Timestamp time.Time `json:"timestamp"`
	Kind      string    `json:"event"`
	Detail    string    `json:"action"`
}
