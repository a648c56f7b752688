package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// CookieName is the cookie that carries the session id.
const CookieName = "sid"

const keyPrefix = "session:"

// Store keeps principal sessions in Redis with a sliding expiry.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore builds a session store. A non-positive ttl defaults to 24 hours.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{client: client, ttl: ttl}
}

// Establish creates a session for the principal and returns its id.
func (s *Store) Establish(ctx context.Context, p *domain.Principal) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshal session principal: %w", err)
	}

	id := uuid.New().String()
	if err := s.client.Set(ctx, keyPrefix+id, data, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

// Resolve returns the principal behind a session id and refreshes the
// expiry. Unknown or expired sessions map to the not-found sentinel.
func (s *Store) Resolve(ctx context.Context, sessionID string) (*domain.Principal, error) {
	data, err := s.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var p domain.Principal
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal session principal: %w", err)
	}

	// Sliding expiry; a failed refresh does not invalidate the lookup.
	_ = s.client.Expire(ctx, keyPrefix+sessionID, s.ttl).Err()

	return &p, nil
}

// Destroy removes a session. Destroying an unknown session is not an error.
func (s *Store) Destroy(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
