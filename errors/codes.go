package errors

// ErrorCode is a machine-readable error classification. Domain packages
// declare their own codes next to the code that raises them.
type ErrorCode string

const (
	ErrCodeInternal      ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	ErrCodeTimeout       ErrorCode = "TIMEOUT"
	ErrCodeUnavailable   ErrorCode = "SERVICE_UNAVAILABLE"
)

// IsRetryableCode reports whether failures with code are transient.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeTimeout, ErrCodeUnavailable:
		return true
	}
	return false
}
