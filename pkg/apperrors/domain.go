package apperrors

import "net/http"

// Factories and predefined errors for the meeting domain.

// ErrUnauthenticated - no caller identity; mutating operations refuse to run.
var ErrUnauthenticated = New(
	CodeUnauthorized,
	"auth",
	"Authentication required",
	http.StatusUnauthorized,
)

// ErrSelfMeeting - the caller targeted themselves.
var ErrSelfMeeting = New(
	CodeInvalidTarget,
	"meeting",
	"You cannot record a meeting with yourself",
	http.StatusBadRequest,
)

// ErrTargetNotFound - the target user does not exist; rejected before any write.
var ErrTargetNotFound = New(
	CodeInvalidTarget,
	"meeting",
	"Target user not found",
	http.StatusNotFound,
)

// ErrInvalidCredentials - login with wrong email/password.
var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

// ErrInvalidToken - access token missing, malformed or expired.
var ErrInvalidToken = New(
	CodeInvalidToken,
	"auth",
	"Invalid or expired token",
	http.StatusUnauthorized,
)

// ErrUserAlreadyExists - registration with a taken username or email.
var ErrUserAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Username or email already taken",
	http.StatusConflict,
)

// ErrNotFound wraps a repository not-found error.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// PersistenceFailure wraps a store error as a retryable failure. The
// operation it aborted left no partial multi-row effect behind.
func PersistenceFailure(err error) *AppError {
	return Wrap(err, CodePersistenceFailure, "storage", "Storage temporarily unavailable, please retry", http.StatusServiceUnavailable)
}

// Conflict marks a lost race on a connection transition. Callers resolve it
// by re-reading state; it is never surfaced to the end user as-is.
func Conflict(err error, message string) *AppError {
	return Wrap(err, CodeConflict, "meeting", message, http.StatusConflict)
}
