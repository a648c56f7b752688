package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

const apiKeyPrefix = "ApiKey "

// CredentialSource looks up credentials for api key verification.
type CredentialSource interface {
	GetByIDAndSecret(ctx context.Context, id, secret string) (*domain.Credential, error)
}

// APIKeyStrategy verifies "ApiKey <id>:<secret>" authorization headers
// against issued credentials.
type APIKeyStrategy struct {
	credentials CredentialSource
	now         func() time.Time
}

// NewAPIKeyStrategy builds the api key strategy.
func NewAPIKeyStrategy(credentials CredentialSource) *APIKeyStrategy {
	return &APIKeyStrategy{credentials: credentials, now: time.Now}
}

// Authenticate parses the header, validates the id shape before any lookup,
// and checks the credential exists, matches, and has not expired.
func (s *APIKeyStrategy) Authenticate(ctx context.Context, r *http.Request) Outcome {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Failure("missing authorization header")
	}
	if !strings.HasPrefix(header, apiKeyPrefix) {
		return Failure("invalid authorization header")
	}

	id, secret, ok := strings.Cut(strings.TrimPrefix(header, apiKeyPrefix), ":")
	if !ok || id == "" || secret == "" {
		return Failure("invalid apikey")
	}
	if _, err := uuid.Parse(id); err != nil {
		return Failure("invalid apikey")
	}

	cred, err := s.credentials.GetByIDAndSecret(ctx, id, secret)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return Failure("invalid apikey")
		}
		return Error(err)
	}

	if cred.Expired(s.now()) {
		return Failure("apikey expired")
	}

	return Success(domain.CredentialPrincipal(cred))
}
