package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/infrastructure/observability"
)

// LoginService orchestrates authentication: it validates credentials through
// the pure AuthService, establishes the session, and journals every attempt,
// successful or not, as one login_attempt event.
type LoginService struct {
	auth     *AuthService
	sessions *SessionService
	audit    *AuditService
	metrics  *observability.Metrics
}

// NewLoginService wires the login orchestration.
func NewLoginService(auth *AuthService, sessions *SessionService, audit *AuditService, metrics *observability.Metrics) *LoginService {
	return &LoginService{auth: auth, sessions: sessions, audit: audit, metrics: metrics}
}

// Login authenticates and starts the session. Every attempt that reaches the
// credential check is journaled with its outcome, including one that validates
// but is then rejected because a session is already live: re-login requires an
// explicit logout first. When the session starts but the audit append fails,
// the session is still returned together with the audit error; the caller
// decides whether to warn or abort.
func (s *LoginService) Login(ctx context.Context, username, password string) (entities.Session, error) {
	normalized := strings.ToLower(strings.TrimSpace(username))

	role, err := s.auth.Authenticate(ctx, username, password)
	if err != nil {
		s.metrics.LoginCount.Add(ctx, 1,
			metric.WithAttributes(attribute.String("outcome", "failure")))
		if auditErr := s.audit.Record(ctx, entities.EventLoginAttempt, normalized, "", "failure"); auditErr != nil {
			log.Error().Err(auditErr).Msg("failed to journal login failure")
		}
		return entities.Session{}, err
	}

	s.metrics.LoginCount.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", "success")))
	auditErr := s.audit.Record(ctx, entities.EventLoginAttempt, normalized, role.String(), "success")

	sess, err := s.sessions.Start(normalized, role)
	if err != nil {
		if auditErr != nil {
			log.Error().Err(auditErr).Msg("failed to journal login attempt")
		}
		return entities.Session{}, err
	}
	if auditErr != nil {
		return sess, auditErr
	}
	return sess, nil
}

// Logout ends the live session and journals it. Logging out with no session
// is a no-op.
func (s *LoginService) Logout(ctx context.Context) error {
	ended, ok := s.sessions.End()
	if !ok {
		return nil
	}
	return s.audit.Record(ctx, entities.EventLogout, ended.Username, ended.Role.String(), "")
}
