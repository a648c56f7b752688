package auth

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
	apperrors "github.com/duylamasd/duylam-oauth2/pkg/errors"
	"github.com/duylamasd/duylam-oauth2/pkg/middleware"
)

type principalCtxKey struct{}

// PrincipalFromContext returns the principal set by the dispatcher, if any.
func PrincipalFromContext(ctx context.Context) (*domain.Principal, bool) {
	p, ok := ctx.Value(principalCtxKey{}).(*domain.Principal)
	return p, ok
}

// ContextWithPrincipal injects a principal, mainly for handler tests.
func ContextWithPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey{}, p)
}

// SessionEstablisher creates a server-side session for a principal and
// returns the session id to hand to the client.
type SessionEstablisher interface {
	Establish(ctx context.Context, p *domain.Principal) (string, error)
}

// Options controls dispatch behavior per route.
type Options struct {
	// Session establishes a server-side session for the winning principal
	// and sets the session cookie on the response.
	Session bool
}

// Dispatcher runs registered strategies against requests and settles each
// request exactly once.
type Dispatcher struct {
	registry   *Registry
	sessions   SessionEstablisher
	cookieName string
	logger     *slog.Logger
}

// NewDispatcher builds a dispatcher over a registry. sessions may be nil
// when no route requests session establishment.
func NewDispatcher(registry *Registry, sessions SessionEstablisher, cookieName string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		sessions:   sessions,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Authenticate returns middleware that tries the named strategies in order.
// The first success wins and short-circuits the chain; a strategy error
// settles the request as an unhandled fault; when every strategy fails the
// request is rejected with the last failure reason.
func (d *Dispatcher) Authenticate(names []string, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lastReason := "Unauthorized"

			for _, name := range names {
				strategy, err := d.registry.Get(name)
				if err != nil {
					d.settleError(ctx, w, name, err)
					return
				}

				outcome := strategy.Authenticate(ctx, r)
				switch outcome.Kind {
				case OutcomeSuccess:
					middleware.RecordAuthAttempt(name, "success")
					outcome.Principal.Strategy = name
					d.settleSuccess(w, r, next, outcome.Principal, opts)
					return
				case OutcomeFailure:
					middleware.RecordAuthAttempt(name, "failure")
					if outcome.Reason != "" {
						lastReason = outcome.Reason
					}
				case OutcomeError:
					middleware.RecordAuthAttempt(name, "error")
					d.settleError(ctx, w, name, outcome.Cause)
					return
				}
			}

			writeAuthError(w, apperrors.Unauthorized(lastReason))
		})
	}
}

func (d *Dispatcher) settleSuccess(w http.ResponseWriter, r *http.Request, next http.Handler, p *domain.Principal, opts Options) {
	ctx := r.Context()

	if opts.Session {
		if d.sessions == nil {
			d.settleError(ctx, w, p.Strategy, apperrors.ErrInternal)
			return
		}
		sessionID, err := d.sessions.Establish(ctx, p)
		if err != nil {
			d.logger.ErrorContext(ctx, "session establishment failed",
				slog.String("strategy", p.Strategy),
				slog.String("error", err.Error()),
			)
			writeAuthError(w, apperrors.Unauthorized("could not establish session"))
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     d.cookieName,
			Value:    sessionID,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}

	next.ServeHTTP(w, r.WithContext(ContextWithPrincipal(ctx, p)))
}

func (d *Dispatcher) settleError(ctx context.Context, w http.ResponseWriter, strategy string, cause error) {
	d.logger.ErrorContext(ctx, "authentication strategy error",
		slog.String("strategy", strategy),
		slog.String("error", cause.Error()),
	)

	// Structured causes keep their own status; everything else is hidden
	// behind an unhandled 500.
	var srvErr *apperrors.ServerError
	if errors.As(cause, &srvErr) {
		writeAuthError(w, srvErr)
		return
	}
	writeAuthError(w, apperrors.Unhandled(cause))
}

// RequireAuthenticated rejects any request that reached it without a
// principal in context.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			writeAuthError(w, apperrors.Unauthorized(""))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeAuthError(w http.ResponseWriter, err *apperrors.ServerError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Status)
	_ = json.NewEncoder(w).Encode(err)
}
