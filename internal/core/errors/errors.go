package errors

const (
	HttpInternalError        = "internal_error"
	HttpInvalidRequestError  = "invalid_request"
	HttpPieceNotFoundError   = "piece_not_found"
	HttpArchiveNotFoundError = "archive_not_found"
	HttpSyncDisabledError    = "sync_disabled"
	HttpSyncFailedError      = "sync_failed"
)

// ErrorResponse is the error response body for catalog API errors.
type ErrorResponse struct {
	ErrorType string      `json:"error_type"`
	Message   string      `json:"message"`
	Details   interface{} `json:"details,omitempty"`
}
