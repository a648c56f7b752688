package auth

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

const (
	// TokenIssuer and TokenAudience are fixed for every token this service
	// signs; verification rejects anything else.
	TokenIssuer   = "auth-service"
	TokenAudience = "auth-service"

	// DefaultTokenTTL is the access token lifetime when none is configured.
	DefaultTokenTTL = time.Hour
)

// Claims carried inside access tokens. The registered claims hold subject,
// issuer, audience and expiry; the custom fields mirror the public identity
// of the user so callers need no extra lookup.
type Claims struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies RS256 access tokens.
type TokenManager struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
}

// NewTokenManager builds a TokenManager around an RSA key pair. A
// non-positive ttl falls back to DefaultTokenTTL.
func NewTokenManager(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, ttl time.Duration) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenManager{
		privateKey: privateKey,
		publicKey:  publicKey,
		ttl:        ttl,
	}
}

// TokenSubject is the identity a token is issued for.
type TokenSubject struct {
	ID       string
	Username string
	Email    string
	Phone    string
}

// Issue signs a token for the subject, expiring after the configured TTL.
func (m *TokenManager) Issue(sub TokenSubject) (string, error) {
	now := time.Now()
	claims := &Claims{
		Username: sub.Username,
		Email:    sub.Email,
		Phone:    sub.Phone,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   sub.ID,
			Issuer:    TokenIssuer,
			Audience:  jwt.ClaimStrings{TokenAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	signed, err := token.SignedString(m.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a token, enforcing the RS256 signing method
// and the fixed issuer and audience. Any validation failure maps to an
// unauthorized error.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			return m.publicKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithIssuer(TokenIssuer),
		jwt.WithAudience(TokenAudience),
	)
	if err != nil {
		return nil, apperrors.Unauthorized("invalid token")
	}
	if !token.Valid {
		return nil, apperrors.Unauthorized("invalid token")
	}
	return claims, nil
}
