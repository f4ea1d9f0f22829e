package repositories

import (
	"context"

	"github.com/clinvue/visitinsights/internal/domain/entities"
)

// AuditSink persists audit events. Implementations must be append-only: each
// call appends exactly one well-formed record and existing records are never
// rewritten.
type AuditSink interface {
	Append(ctx context.Context, event entities.AuditEvent) error
}
