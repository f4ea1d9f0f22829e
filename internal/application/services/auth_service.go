package services

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/clinvue/visitinsights/internal/domain/entities"
	"github.com/clinvue/visitinsights/internal/domain/repositories"
	apperrors "github.com/clinvue/visitinsights/pkg/errors"
)

// AuthService validates login attempts against the credential table loaded at
// startup. It is pure: auditing a login attempt is the caller's job, so this
// service has no side effects at all.
type AuthService struct {
	creds map[string]entities.Credential
}

// NewAuthService loads the credential table once. Usernames are normalized to
// lowercase, matching the historical credential data.
func NewAuthService(ctx context.Context, source repositories.CredentialSource) (*AuthService, error) {
	list, err := source.LoadCredentials(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load credentials", err)
	}

	creds := make(map[string]entities.Credential, len(list))
	for _, c := range list {
		key := strings.ToLower(strings.TrimSpace(c.Username))
		if key == "" || c.Password == "" {
			continue
		}
		creds[key] = c
	}
	return &AuthService{creds: creds}, nil
}

// Authenticate returns the role bound to the username when the password
// matches. Unknown usernames and wrong passwords produce the same error, so a
// caller cannot enumerate accounts. The password comparison is constant time.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (entities.Role, error) {
	key := strings.ToLower(strings.TrimSpace(username))
	if key == "" || password == "" {
		return 0, apperrors.NewInvalidCredentialsError()
	}

	cred, ok := s.creds[key]
	if !ok {
		return 0, apperrors.NewInvalidCredentialsError()
	}
	if subtle.ConstantTimeCompare([]byte(cred.Password), []byte(password)) != 1 {
		return 0, apperrors.NewInvalidCredentialsError()
	}
	return cred.Role, nil
}
