package http

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"

	"github.com/duylamasd/duylam-oauth2/internal/auth"
	"github.com/duylamasd/duylam-oauth2/internal/domain"
	"github.com/duylamasd/duylam-oauth2/internal/session"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

const stateCookieName = "oauth_state"

// TokenResponse is the JSON body returned after a successful login.
type TokenResponse struct {
	Type    string `json:"type"`
	Token   string `json:"token"`
	Message string `json:"message"`
}

// SignInResponse pairs the authenticated identity with a fresh token.
type SignInResponse struct {
	User  *domain.Principal `json:"user"`
	Token string            `json:"token"`
}

// AuthHandler handles HTTP requests for login and federated auth endpoints.
type AuthHandler struct {
	tokens   *auth.TokenManager
	twitter  *auth.ThirdPartyStrategy
	sessions *session.Store
	logger   *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(tokens *auth.TokenManager, twitter *auth.ThirdPartyStrategy, sessions *session.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		twitter:  twitter,
		sessions: sessions,
		logger:   logger,
	}
}

// Login handles POST /login. The password check and session establishment
// already happened in the dispatch chain; this issues the bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	token, err := h.issueForPrincipal(r)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Type:    "Bearer",
		Token:   token,
		Message: "OK",
	})
}

// SignIn handles POST /users/signin, returning the identity together with
// the token and no session.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeAppError(w, r, apperrors.Unauthorized(""), h.logger)
		return
	}

	token, err := h.issueForPrincipal(r)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, SignInResponse{
		User:  principal,
		Token: token,
	})
}

// Logout handles POST /logout, destroying the active session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(session.CookieName)
	if err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			writeAppError(w, r, err, h.logger)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	writeJSON(w, http.StatusOK, map[string]string{"message": "OK"})
}

// TwitterRedirect handles GET /twitter, sending the browser to the provider
// authorization page with a fresh state value.
func (h *AuthHandler) TwitterRedirect(w http.ResponseWriter, r *http.Request) {
	state, err := randomState()
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.twitter.AuthCodeURL(state), http.StatusFound)
}

// TwitterCallback handles GET /twitter/callback after the dispatch chain
// completed the code exchange and established the session.
func (h *AuthHandler) TwitterCallback(w http.ResponseWriter, r *http.Request) {
	token, err := h.issueForPrincipal(r)
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, TokenResponse{
		Type:    "Bearer",
		Token:   token,
		Message: "OK",
	})
}

// VerifyOAuthState rejects provider callbacks whose state does not match the
// value set on redirect. The state cookie is single use.
func VerifyOAuthState(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(stateCookieName)
		if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
			writeJSON(w, http.StatusUnauthorized, apperrors.AuthorizeFailed())
			return
		}

		http.SetCookie(w, &http.Cookie{
			Name:     stateCookieName,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
		})

		next.ServeHTTP(w, r)
	})
}

func (h *AuthHandler) issueForPrincipal(r *http.Request) (string, error) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		return "", apperrors.Unauthorized("")
	}

	token, err := h.tokens.Issue(auth.TokenSubject{
		ID:       principal.ID,
		Username: principal.Username,
		Email:    principal.Email,
		Phone:    principal.Phone,
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
