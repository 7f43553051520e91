// Package errors defines the structured error responses of the HTTP
// surface. Engine-internal failures stay ordinary wrapped errors and
// report statuses; only the transport layer speaks this vocabulary.
package errors

import (
	"net/http"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Predefined error types for common scenarios
var (
	ErrInvalidRequest = New(http.StatusBadRequest, "INVALID_REQUEST", "Request is not a valid multipart upload")
	ErrMissingUpload  = New(http.StatusBadRequest, "MISSING_UPLOAD", "Required workbook upload is missing")
	ErrSheetNotFound  = New(http.StatusNotFound, "SHEET_NOT_FOUND", "Sheet not found in workbook")
	ErrUploadTooLarge = New(http.StatusRequestEntityTooLarge, "UPLOAD_TOO_LARGE", "Uploaded workbook exceeds the size limit")
)

// InvalidWorkbookError reports an upload that could not be loaded as a
// workbook.
func InvalidWorkbookError(role string, err error) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, "INVALID_WORKBOOK",
		"Failed to load "+role+" workbook", err.Error())
}

// ValidationError reports invalid configuration or parameters
func ValidationError(field, message string) *APIError {
	return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED",
		"Request validation failed", map[string]string{
			"field":   field,
			"message": message,
		})
}

// InternalError wraps an unexpected failure
func InternalError(err error) *APIError {
	return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR",
		"Internal server error", err.Error())
}
