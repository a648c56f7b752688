package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	"github.com/duylamasd/duylam-oauth2/internal/event"
	"github.com/duylamasd/duylam-oauth2/internal/repository"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// DefaultCredentialTTL is how long an issued credential stays valid when the
// request does not say otherwise.
const DefaultCredentialTTL = 720 * time.Hour

// secretLength is the number of random bytes behind each secret; the stored
// form is its hex encoding.
const secretLength = 36

// CredentialService implements issuance and validation of API credentials.
type CredentialService struct {
	credRepo repository.CredentialRepository
	producer *event.Producer
	logger   *slog.Logger
	ttl      time.Duration
}

// NewCredentialService creates a new credential service. A non-positive ttl
// falls back to DefaultCredentialTTL.
func NewCredentialService(
	credRepo repository.CredentialRepository,
	producer *event.Producer,
	logger *slog.Logger,
	ttl time.Duration,
) *CredentialService {
	if ttl <= 0 {
		ttl = DefaultCredentialTTL
	}
	return &CredentialService{
		credRepo: credRepo,
		producer: producer,
		logger:   logger,
		ttl:      ttl,
	}
}

// IssueInput holds the parameters for issuing a credential. Secret and
// ExpireTime are optional; when unset the service generates a secret and
// applies its configured ttl.
type IssueInput struct {
	UserID     string
	Type       domain.CredentialType
	Secret     string
	Scopes     []string
	ExpireTime time.Time
}

// Issue creates a credential with a fresh id. The caller must surface the
// secret immediately; it is never returned again.
func (s *CredentialService) Issue(ctx context.Context, input IssueInput) (*domain.Credential, error) {
	if input.Type == "" {
		input.Type = domain.CredentialTypeAPIKey
	}

	secret := input.Secret
	if secret == "" {
		var err error
		secret, err = generateSecret()
		if err != nil {
			return nil, apperrors.CredentialCreateFailed(err)
		}
	}

	now := time.Now().UTC()
	expireTime := input.ExpireTime
	if expireTime.IsZero() {
		expireTime = now.Add(s.ttl)
	}

	cred := &domain.Credential{
		ID:         uuid.New().String(),
		UserID:     input.UserID,
		Type:       input.Type,
		Secret:     secret,
		Scopes:     input.Scopes,
		ExpireTime: expireTime,
		CreatedAt:  now,
	}

	if err := s.credRepo.Create(ctx, cred); err != nil {
		return nil, apperrors.CredentialCreateFailed(err)
	}

	// Publish issuance event (non-blocking on failure).
	if err := s.producer.PublishCredentialIssued(ctx, cred); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish credential.issued event",
			slog.String("credential_id", cred.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "credential issued",
		slog.String("credential_id", cred.ID),
		slog.String("user_id", cred.UserID),
		slog.String("credential_type", string(cred.Type)),
	)

	return cred, nil
}

// GetByIDAndSecret retrieves a credential when both the id and the secret
// match.
func (s *CredentialService) GetByIDAndSecret(ctx context.Context, id, secret string) (*domain.Credential, error) {
	return s.credRepo.GetByIDAndSecret(ctx, id, secret)
}

// Revoke removes a credential before its expiry.
func (s *CredentialService) Revoke(ctx context.Context, id string) error {
	if err := s.credRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}

	s.logger.InfoContext(ctx, "credential revoked",
		slog.String("credential_id", id),
	)

	return nil
}

func generateSecret() (string, error) {
	buf := make([]byte, secretLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
