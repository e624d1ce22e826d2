package models

// APIError represents a standardized error response format for the API.
// @Description APIError represents a standardized error response format, including an application-specific error code, a human-readable message, and optional details.
type APIError struct {
	Code    string      `json:"code"`              // Application-specific error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string      `json:"message"`           // Human-readable message describing the error
	Details interface{} `json:"details,omitempty"` // Optional field for additional error details
}

// Predefined application-specific error codes
const (
	// Generic Errors
	ErrorCodeInternalServerError = "INTERNAL_SERVER_ERROR"

	// Input Validation & Data Errors
	ErrorCodeValidation       = "VALIDATION_ERROR"   // General validation failure
	ErrorCodeInvalidParams    = "INVALID_PARAMS"     // Connection params fail per-type validation
	ErrorCodeInvalidEnumValue = "INVALID_ENUM_VALUE" // For fields like Type

	// Resource Specific Errors
	ErrorCodeDataSourceNotFound = "DATA_SOURCE_NOT_FOUND"

	// Business Logic / State Errors
	ErrorCodeDuplicateName    = "DUPLICATE_NAME"    // Unique constraint violation
	ErrorCodeConnectionFailed = "CONNECTION_FAILED" // Live connectivity test against the backend failed
	ErrorCodeReadOnlyMode     = "READ_ONLY_MODE"    // Mutation attempted while running in file-config mode
)
