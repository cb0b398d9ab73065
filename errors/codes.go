package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Errors surfaced to chat users.
const (
	// ErrCodeCommandSyntax indicates a malformed bot command such as q2(...).
	ErrCodeCommandSyntax ErrorCode = "COMMAND_SYNTAX"
	// ErrCodeStateConflict indicates a battle transition that does not apply
	// to the current session state.
	ErrCodeStateConflict ErrorCode = "STATE_CONFLICT"
	// ErrCodeSummaryGeneration indicates the battle summary backend failed.
	ErrCodeSummaryGeneration ErrorCode = "SUMMARY_GENERATION_FAILED"
)

// Infrastructure errors
const (
	ErrCodeInvalidInput    ErrorCode = "INVALID_INPUT"
	ErrCodeUnauthorized    ErrorCode = "UNAUTHORIZED"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
	ErrCodeDatabaseError   ErrorCode = "DATABASE_ERROR"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeDatabaseError:   true,
	ErrCodeExternalService: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
// Nothing in the bot retries on its own; the flag is informational for callers.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
