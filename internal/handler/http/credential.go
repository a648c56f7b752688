package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/duylamasd/duylam-oauth2/internal/auth"
	"github.com/duylamasd/duylam-oauth2/internal/domain"
	"github.com/duylamasd/duylam-oauth2/internal/service"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
)

// CredentialHandler handles HTTP requests for credential issuance.
type CredentialHandler struct {
	service *service.CredentialService
	logger  *slog.Logger
}

// NewCredentialHandler creates a new credential HTTP handler.
func NewCredentialHandler(svc *service.CredentialService, logger *slog.Logger) *CredentialHandler {
	return &CredentialHandler{service: svc, logger: logger}
}

// IssueRequest is the JSON request body for issuing a credential. Secret and
// expiry default server-side when omitted.
type IssueRequest struct {
	Type       string    `json:"credential_type"`
	Secret     string    `json:"secret"`
	Scopes     []string  `json:"scopes"`
	ExpireTime time.Time `json:"expire_time"`
}

// IssueResponse carries the only copy of the secret the caller will get.
type IssueResponse struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// Issue handles POST /credentials
func (h *CredentialHandler) Issue(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFromContext(r.Context())
	if !ok {
		writeAppError(w, r, apperrors.Unauthorized(""), h.logger)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req IssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, apperrors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	cred, err := h.service.Issue(r.Context(), service.IssueInput{
		UserID:     principal.ID,
		Type:       domain.CredentialType(req.Type),
		Secret:     req.Secret,
		Scopes:     req.Scopes,
		ExpireTime: req.ExpireTime,
	})
	if err != nil {
		writeAppError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, IssueResponse{
		ID:     cred.ID,
		Secret: cred.Secret,
	})
}
