package auth

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// DefaultHashCost matches the cost used for all stored password digests.
const DefaultHashCost = 10

// Hasher produces and verifies bcrypt password digests.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. A cost outside the bcrypt
// range falls back to DefaultHashCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of the plaintext password.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext password matches the stored digest.
func (h *Hasher) Verify(digest, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// Hashed reports whether the value already looks like a bcrypt digest, so
// save paths can hash only passwords that changed.
func Hashed(value string) bool {
	return strings.HasPrefix(value, "$2a$") ||
		strings.HasPrefix(value, "$2b$") ||
		strings.HasPrefix(value, "$2y$")
}
