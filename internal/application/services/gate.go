package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/policy"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
)

// gate is the shared entry check for every gated operation: resolve the live
// session, consult the policy, and journal denials. Query services embed it.
type gate struct {
	sessions *SessionService
	policy   *policy.Policy
	audit    *AuditService
	metrics  *observability.Metrics
}

// authorize resolves the session and checks the policy for operation. A call
// without a session is rejected before the audit boundary: the trail's schema
// requires an identity, and there is none to attribute. A policy denial is
// journaled as a denied event before the permission error is returned.
func (g *gate) authorize(ctx context.Context, operation string) (entities.Session, error) {
	sess, err := g.sessions.Current()
	if err != nil {
		return entities.Session{}, err
	}

	if err := g.policy.Authorize(sess.Role, operation); err != nil {
		g.metrics.DeniedCount.Add(ctx, 1,
			metric.WithAttributes(attribute.String("operation", operation)))
		if auditErr := g.audit.Record(ctx, entities.EventDenied, sess.Username, sess.Role.String(), operation); auditErr != nil {
			log.Error().Err(auditErr).Str("operation", operation).
				Msg("failed to journal denied operation")
		}
		return entities.Session{}, err
	}
	return sess, nil
}

// recordSuccess journals a completed gated operation. The returned error, if
// any, is the audit write failure; the operation's result still stands.
func (g *gate) recordSuccess(ctx context.Context, sess entities.Session, operation, detail string) error {
	g.metrics.QueryCount.Add(ctx, 1,
		metric.WithAttributes(attribute.String("operation", operation)))
	return g.audit.Record(ctx, entities.EventAction, sess.Username, sess.Role.String(), detail)
}
