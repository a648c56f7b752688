package auth

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/duylamasd/duylam-oauth2/internal/domain"
)

// OutcomeKind classifies the result of a strategy attempt.
type OutcomeKind int

const (
	// OutcomeSuccess means the strategy verified a principal.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFailure means the request carried credentials the strategy
	// understood but could not verify.
	OutcomeFailure
	// OutcomeError means the strategy hit an unexpected fault.
	OutcomeError
)

// Outcome is the result of one strategy attempt. Exactly one of Principal,
// Reason, or Cause is meaningful depending on Kind.
type Outcome struct {
	Kind      OutcomeKind
	Principal *domain.Principal
	Reason    string
	Cause     error
}

// Success wraps a verified principal.
func Success(p *domain.Principal) Outcome {
	return Outcome{Kind: OutcomeSuccess, Principal: p}
}

// Failure reports a clean verification failure with a caller-facing reason.
func Failure(reason string) Outcome {
	return Outcome{Kind: OutcomeFailure, Reason: reason}
}

// Error reports an unexpected fault during verification.
func Error(cause error) Outcome {
	return Outcome{Kind: OutcomeError, Cause: cause}
}

// Strategy verifies one kind of credential carried by a request.
type Strategy interface {
	// Authenticate inspects the request and reports whether it carries a
	// credential this strategy can verify. It must not write the response.
	Authenticate(ctx context.Context, r *http.Request) Outcome
}

// Registry maps strategy names to implementations. Registration happens at
// startup; lookups are safe for concurrent use afterwards.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{strategies: make(map[string]Strategy)}
}

// Register binds a strategy under a name, replacing any previous binding.
func (r *Registry) Register(name string, s Strategy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.strategies[name] = s
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("auth: unknown strategy %q", name)
	}
	return s, nil
}

// Names returns the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
