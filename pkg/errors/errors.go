package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the failure classes the service distinguishes.
var (
	ErrInvalidUser     = errors.New("invalid user")
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("user not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrAuthorizeFailed = errors.New("authorize failed")
	ErrAlreadyExists   = errors.New("resource already exists")
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrInternal        = errors.New("internal error")
)

// ServerError is a structured error carrying the name, HTTP status, and
// user-facing message that the centralized responder serializes. Err holds
// the underlying cause for errors.Is/As dispatch and is never serialized.
type ServerError struct {
	Name    string `json:"name"`
	Status  int    `json:"status"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Name, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// InvalidUser reports an identifier that resolved to no account.
func InvalidUser(identifier string) *ServerError {
	return &ServerError{
		Name:    "INVALID_USER",
		Message: fmt.Sprintf("User %s is invalid", identifier),
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidUser,
	}
}

// UserNotFound reports a principal whose backing record vanished.
func UserNotFound(id string) *ServerError {
	return &ServerError{
		Name:    "USER_NOT_FOUND",
		Message: fmt.Sprintf("User %s not found", id),
		Status:  http.StatusNotFound,
		Err:     ErrUserNotFound,
	}
}

// InvalidPassword reports a password mismatch.
func InvalidPassword() *ServerError {
	return &ServerError{
		Name:    "INVALID_PASSWORD",
		Message: "Invalid password",
		Status:  http.StatusUnauthorized,
		Err:     ErrInvalidPassword,
	}
}

// Unauthorized reports a request with no authenticated principal.
func Unauthorized(message string) *ServerError {
	if message == "" {
		message = "Unauthorized"
	}
	return &ServerError{
		Name:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     ErrUnauthorized,
	}
}

// AuthorizeFailed reports a failed third-party merge or link.
func AuthorizeFailed() *ServerError {
	return &ServerError{
		Name:    "AUTHORIZE_FAILED",
		Message: "authorize failed",
		Status:  http.StatusUnauthorized,
		Err:     ErrAuthorizeFailed,
	}
}

// CredentialCreateFailed reports a persistence failure during credential issuance.
func CredentialCreateFailed(err error) *ServerError {
	return &ServerError{
		Name:    "CREDENTIAL_CREATE_FAILED",
		Message: "could not create credential",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// CreateUserFailed reports a persistence failure during registration.
func CreateUserFailed(err error) *ServerError {
	return &ServerError{
		Name:    "CREATE_USER_FAILED",
		Message: "Can not create this user",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// SavePasswordFailed reports a hashing failure that aborted a save.
func SavePasswordFailed(err error) *ServerError {
	return &ServerError{
		Name:    "SAVE_PASSWORD_FAILED",
		Message: "Failed on saving password",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// AlreadyExists reports a unique-field collision on a store write.
func AlreadyExists(resource, field, value string) *ServerError {
	return &ServerError{
		Name:    "ALREADY_EXISTS",
		Message: fmt.Sprintf("%s with %s %q already exists", resource, field, value),
		Status:  http.StatusConflict,
		Err:     ErrAlreadyExists,
	}
}

// InvalidInput reports a malformed request body or field.
func InvalidInput(message string) *ServerError {
	return &ServerError{
		Name:    "INVALID_INPUT",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     ErrInvalidInput,
	}
}

// Unhandled wraps an unexpected fault without leaking internals to the caller.
func Unhandled(err error) *ServerError {
	return &ServerError{
		Name:    "UNHANDLED",
		Message: "Unhandled error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// HTTPStatus returns the status a given error maps to.
func HTTPStatus(err error) int {
	var srvErr *ServerError
	if errors.As(err, &srvErr) {
		return srvErr.Status
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidUser),
		errors.Is(err, ErrInvalidPassword),
		errors.Is(err, ErrAuthorizeFailed):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
