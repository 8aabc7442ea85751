package apperrors

// ErrorCode identifies a class of application error.
type ErrorCode string

const (
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"

	// Meeting domain
	CodeInvalidTarget      ErrorCode = "INVALID_TARGET"
	CodePersistenceFailure ErrorCode = "PERSISTENCE_FAILURE"

	// Authentication
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	CodeAlreadyExists      ErrorCode = "ALREADY_EXISTS"
)
