package httputil

// Machine-readable error codes attached to auth-boundary responses.
const (
	CodeMissingAuth       = "MISSING_AUTH"
	CodeInvalidAuthHeader = "INVALID_AUTH_HEADER"
	CodeTokenExpired      = "TOKEN_EXPIRED"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeUserNotFound      = "USER_NOT_FOUND"
	CodeTooManyRequests   = "TOO_MANY_REQUESTS"
	CodeValidationFailed  = "VALIDATION_FAILED"
)
