package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Upstream errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates the inference backend is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates a call to the inference backend timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the inference backend rejected the call for quota reasons.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeExternalService indicates the inference backend returned an error.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a value has an invalid format, such as a bad timestamp.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrCodeEmptyInput indicates an operation received no items to work on.
	ErrCodeEmptyInput ErrorCode = "EMPTY_INPUT"
	// ErrCodeNothingToProcess indicates the media has no playable duration.
	ErrCodeNothingToProcess ErrorCode = "NOTHING_TO_PROCESS"
	// ErrCodeMediaUnreadable indicates the media file could not be read or probed.
	ErrCodeMediaUnreadable ErrorCode = "MEDIA_UNREADABLE"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Setup errors
const (
	// ErrCodeConfiguration indicates invalid or incomplete configuration.
	ErrCodeConfiguration ErrorCode = "CONFIGURATION_ERROR"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeExternalService:    true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
