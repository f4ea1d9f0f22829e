package entities

import (
	"time"
)

// Session holds the authenticated identity for one interactive session.
// At most one session is live per running instance.
type Session struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Role      Role      `json:"role"`
	StartedAt time.Time `json:"started_at"`
}
