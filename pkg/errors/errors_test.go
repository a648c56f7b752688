package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServerError_Unwrap(t *testing.T) {
	err := InvalidUser("bob")
	assert.True(t, errors.Is(err, ErrInvalidUser))

	wrapped := fmt.Errorf("dispatch: %w", err)
	var srvErr *ServerError
	assert.True(t, errors.As(wrapped, &srvErr))
	assert.Equal(t, "INVALID_USER", srvErr.Name)
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid user", InvalidUser("x"), http.StatusUnauthorized},
		{"invalid password", InvalidPassword(), http.StatusUnauthorized},
		{"user not found", UserNotFound("u-1"), http.StatusNotFound},
		{"unauthorized", Unauthorized(""), http.StatusUnauthorized},
		{"authorize failed", AuthorizeFailed(), http.StatusUnauthorized},
		{"credential create failed", CredentialCreateFailed(errors.New("db down")), http.StatusInternalServerError},
		{"create user failed", CreateUserFailed(errors.New("db down")), http.StatusInternalServerError},
		{"save password failed", SavePasswordFailed(errors.New("bcrypt")), http.StatusInternalServerError},
		{"invalid input", InvalidInput("bad body"), http.StatusBadRequest},
		{"wrapped sentinel", fmt.Errorf("store: %w", ErrUnauthorized), http.StatusUnauthorized},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestUnauthorized_DefaultMessage(t *testing.T) {
	assert.Equal(t, "Unauthorized", Unauthorized("").Message)
	assert.Equal(t, "invalid token", Unauthorized("invalid token").Message)
}

func TestUnhandled_HidesCause(t *testing.T) {
	cause := errors.New("pq: connection refused on 10.0.0.3")
	err := Unhandled(cause)
	assert.Equal(t, "UNHANDLED", err.Name)
	assert.Equal(t, "Unhandled error", err.Message)
	assert.True(t, errors.Is(err, cause))
}
