package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// AuditService appends structured events to the persistent usage trail. All
// appends in this process go through the one mutex, so records land in call
// order. Cross-process writers are out of scope: the log assumes a single
// writer.
type AuditService struct {
	mu      sync.Mutex
	sink    repositories.AuditSink
	metrics *observability.Metrics
}

// NewAuditService creates an audit service over the given sink.
func NewAuditService(sink repositories.AuditSink, metrics *observability.Metrics) *AuditService {
	return &AuditService{sink: sink, metrics: metrics}
}

// Record appends one event. A failed append is reported as an audit write
// error but must never stop the triggering operation from returning its
// result; callers decide whether to warn or abort.
func (s *AuditService) Record(ctx context.Context, kind, username, role, detail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event := entities.AuditEvent{
		Username:  username,
		Role:      role,
		Timestamp: time.Now().UTC(),
		Kind:      kind,
		Detail:    detail,
	}
	if err := s.sink.Append(ctx, event); err != nil {
		s.metrics.AuditFailureCount.Add(ctx, 1)
		log.Error().Err(err).Str("kind", kind).Str("username", username).
			Msg("audit append failed")
		return apperrors.NewAuditWriteError(err)
	}
	return nil
}
