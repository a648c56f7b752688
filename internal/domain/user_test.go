package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestLinkThirdParty_NewProvider(t *testing.T) {
	u := &User{Username: "johndoe", Email: "john@example.com"}

	u.LinkThirdParty(ThirdPartyProfile{
		Provider:   "twitter",
		ProviderID: "12345",
		FirstName:  "John",
		LastName:   "Doe",
		Picture:    "https://img.example.com/p.png",
	}, "token-abc")

	assert.Equal(t, "12345", u.ProviderIDs["twitter"])
	assert.Equal(t, "John", u.Profile.FirstName)
	assert.Equal(t, "Doe", u.Profile.LastName)
	assert.Equal(t, "https://img.example.com/p.png", u.Profile.Picture)
	assert.Len(t, u.Tokens, 1)
	assert.Equal(t, "twitter", u.Tokens[0].Kind)
	assert.Equal(t, "token-abc", u.Tokens[0].Token)
}

func TestLinkThirdParty_DoesNotOverwriteExisting(t *testing.T) {
	u := &User{
		Username:    "johndoe",
		Profile:     Profile{FirstName: "Johnny", LastName: "D"},
		ProviderIDs: map[string]string{"twitter": "original-id"},
	}

	u.LinkThirdParty(ThirdPartyProfile{
		Provider:   "twitter",
		ProviderID: "other-id",
		FirstName:  "John",
		LastName:   "Doe",
		Picture:    "https://img.example.com/p.png",
	}, "token-abc")

	assert.Equal(t, "original-id", u.ProviderIDs["twitter"], "linked provider id must not change")
	assert.Equal(t, "Johnny", u.Profile.FirstName)
	assert.Equal(t, "D", u.Profile.LastName)
	assert.Equal(t, "https://img.example.com/p.png", u.Profile.Picture, "empty fields are backfilled")
}

func TestLinkThirdParty_UpdatesTokenByKind(t *testing.T) {
	u := &User{
		Tokens: []ProviderToken{
			{Kind: "twitter", Token: "old-token"},
			{Kind: "github", Token: "gh-token"},
		},
	}

	u.LinkThirdParty(ThirdPartyProfile{Provider: "twitter", ProviderID: "1"}, "new-token")

	assert.Len(t, u.Tokens, 2)
	assert.Equal(t, "new-token", u.Tokens[0].Token)
	assert.Equal(t, "gh-token", u.Tokens[1].Token)
}

func TestCredentialExpired(t *testing.T) {
	c := &Credential{ExpireTime: mustTime(t, "2026-01-01T00:00:00Z")}

	assert.False(t, c.Expired(mustTime(t, "2025-12-31T23:59:59Z")))
	assert.True(t, c.Expired(mustTime(t, "2026-01-01T00:00:00Z")), "boundary instant counts as expired")
	assert.True(t, c.Expired(mustTime(t, "2026-01-02T00:00:00Z")))
}
