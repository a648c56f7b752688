package domain

import (
	"time"
)

// Gender is the closed set of profile gender values.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
)

// Profile holds the descriptive fields of a user account.
type Profile struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Gender    Gender `json:"gender"`
	Address   string `json:"address"`
	Picture   string `json:"picture,omitempty"`
}

// ProviderToken is an access token obtained from a federated identity
// provider, keyed by provider kind ("twitter", ...).
type ProviderToken struct {
	Kind  string `json:"kind"`
	Token string `json:"token"`
}

// User is a registered account. Username, Email, and Phone are each globally
// unique. Password holds the bcrypt digest once the record has been through a
// save; it is never serialized.
type User struct {
	ID          string            `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	Phone       string            `json:"phone"`
	Password    string            `json:"-"`
	Profile     Profile           `json:"profile"`
	Tokens      []ProviderToken   `json:"-"`
	ProviderIDs map[string]string `json:"-"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ThirdPartyProfile is the identity a federated provider reports on callback.
type ThirdPartyProfile struct {
	Provider   string
	ProviderID string
	Username   string
	Email      string
	FirstName  string
	LastName   string
	Picture    string
}

// LinkThirdParty merges a provider account into the user: the provider
// identity id is recorded only when none is linked yet, profile fields are
// backfilled only where empty, and the access token is appended or updated
// by provider kind. Existing non-empty values are never overwritten.
func (u *User) LinkThirdParty(p ThirdPartyProfile, accessToken string) {
	if u.ProviderIDs == nil {
		u.ProviderIDs = make(map[string]string)
	}
	if u.ProviderIDs[p.Provider] == "" {
		u.ProviderIDs[p.Provider] = p.ProviderID
	}

	if u.Profile.FirstName == "" {
		u.Profile.FirstName = p.FirstName
	}
	if u.Profile.LastName == "" {
		u.Profile.LastName = p.LastName
	}
	if u.Profile.Picture == "" {
		u.Profile.Picture = p.Picture
	}

	for i := range u.Tokens {
		if u.Tokens[i].Kind == p.Provider {
			u.Tokens[i].Token = accessToken
			return
		}
	}
	u.Tokens = append(u.Tokens, ProviderToken{Kind: p.Provider, Token: accessToken})
}
