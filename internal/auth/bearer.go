package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
)

const bearerPrefix = "Bearer "

// BearerStrategy verifies RS256 access tokens carried in the Authorization
// header.
type BearerStrategy struct {
	tokens *TokenManager
}

// NewBearerStrategy builds the bearer token strategy.
func NewBearerStrategy(tokens *TokenManager) *BearerStrategy {
	return &BearerStrategy{tokens: tokens}
}

// Authenticate extracts and verifies the bearer token, projecting its claims
// into a principal.
func (s *BearerStrategy) Authenticate(ctx context.Context, r *http.Request) Outcome {
	header := r.Header.Get("Authorization")
	if header == "" {
		return Failure("missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return Failure("invalid authorization header")
	}

	claims, err := s.tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
	if err != nil {
		return Failure("invalid token")
	}

	return Success(&domain.Principal{
		ID:       claims.Subject,
		AuthType: domain.AuthTypeJWT,
		Username: claims.Username,
		Email:    claims.Email,
		Phone:    claims.Phone,
	})
}
