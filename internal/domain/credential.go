package domain

import (
	"time"
)

// CredentialType distinguishes plain API keys from registered applications.
type CredentialType string

const (
	CredentialTypeAPIKey CredentialType = "apikey"
	CredentialTypeApp    CredentialType = "app"
)

// Credential is a bearer secret granting programmatic access. The secret is
// stored and compared literally; validity is derived from ExpireTime, never
// stored.
type Credential struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Type       CredentialType `json:"credential_type"`
	Secret     string         `json:"-"`
	Scopes     []string       `json:"scopes,omitempty"`
	ExpireTime time.Time      `json:"expire_time"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Expired reports whether the credential is no longer valid at the given time.
func (c *Credential) Expired(now time.Time) bool {
	return !now.Before(c.ExpireTime)
}
