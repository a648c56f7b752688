package domain

// Authentication type tags carried by principals.
const (
	AuthTypeLocal   = "local"
	AuthTypeJWT     = "jwt"
	AuthTypeAPIKey  = "apiKey"
	AuthTypeSession = "session"
	AuthTypeOAuth   = "oauth"
)

// Principal is the request-scoped projection of an authenticated User or
// Credential. Sensitive fields (password, secret, profile) are stripped
// before construction; Strategy records which registered strategy won the
// dispatch.
type Principal struct {
	ID       string `json:"id"`
	AuthType string `json:"auth_type"`
	Strategy string `json:"strategy,omitempty"`

	// User principals only.
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`

	// Credential principals only.
	UserID string   `json:"user_id,omitempty"`
	Scopes []string `json:"scopes,omitempty"`
}

// UserPrincipal projects a user into a principal, dropping the password and
// profile.
func UserPrincipal(u *User, authType string) *Principal {
	return &Principal{
		ID:       u.ID,
		AuthType: authType,
		Username: u.Username,
		Email:    u.Email,
		Phone:    u.Phone,
	}
}

// CredentialPrincipal projects a credential into a principal, dropping the
// secret.
func CredentialPrincipal(c *Credential) *Principal {
	return &Principal{
		ID:       c.ID,
		AuthType: AuthTypeAPIKey,
		UserID:   c.UserID,
		Scopes:   c.Scopes,
	}
}
