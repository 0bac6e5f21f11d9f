package errors

// ErrorInfo contains detailed error information
type ErrorInfo struct {
	Code    string `json:"code"`              // Business error code, e.g., "ACCOUNT_NOT_FOUND"
	Message string `json:"message"`           // User-friendly error message
	Details any    `json:"details,omitempty"` // Detailed error information (optional)
}

// Response defines the unified structure used when middleware renders errors.
type Response struct {
	Success bool       `json:"success"`
	Code    int        `json:"code"`
	Message string     `json:"message"`
	Error   *ErrorInfo `json:"error,omitempty"`
}
