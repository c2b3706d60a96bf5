package constants

// Common error messages
const (
	ErrInvalidSession     = "invalid user_id or session"
	ErrInvalidJSON        = "invalid json or missing fields"
	ErrMissingUserID      = "Missing or invalid user_id in body"
	ErrMethodNotAllowed   = "Method Not Allowed"
	ErrInvalidRequestBody = "Invalid request body"
	ErrUploadTooLarge     = "upload exceeds the 50 MB limit"
)

// Content types
const (
	ContentTypeHeader    = "Content-Type"
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// Request/response keys
const (
	KeyUserID    = "user_id"
	ValueSuccess = "success"
	ValueError   = "error"
)

// Date formats
const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04:05"
	MonthFormat    = "2006-01"
)

// Upload limits
const (
	MaxUploadBytes       = 50 << 20
	MultipartMemoryBytes = 10 << 20
)
