package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes returned in API responses.
const (
	// Generic
	ErrCodeInvalidRequest     = "ERR_INVALID_REQUEST"
	ErrCodeUnauthorized       = "ERR_UNAUTHORIZED"
	ErrCodeForbidden          = "ERR_FORBIDDEN"
	ErrCodeNotFound           = "ERR_NOT_FOUND"
	ErrCodeInternalError      = "ERR_INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "ERR_SERVICE_UNAVAILABLE"

	// Authentication
	ErrCodeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	ErrCodeEmailExists        = "ERR_EMAIL_EXISTS"
	ErrCodeEmailNotConfirmed  = "ERR_EMAIL_NOT_CONFIRMED"
	ErrCodeAccountNotApproved = "ERR_ACCOUNT_NOT_APPROVED"
	ErrCodeSessionExpired     = "ERR_SESSION_EXPIRED"
	ErrCodeInvalidToken       = "ERR_INVALID_TOKEN"

	// Resources
	ErrCodeUserNotFound    = "ERR_USER_NOT_FOUND"
	ErrCodeContactNotFound = "ERR_CONTACT_NOT_FOUND"

	// Business rules
	ErrCodeValidation   = "ERR_VALIDATION"
	ErrCodeMissingField = "ERR_MISSING_FIELD"
)

// APIError is the uniform error response body.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse writes a uniform error response.
func ErrorResponse(c *gin.Context, status int, code string, message string) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
	})
}

// ErrorResponseWithDetails writes an error response carrying details.
func ErrorResponseWithDetails(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, APIError{
		Code:    code,
		Message: message,
		Details: details,
	})
}

// BadRequest 400
func BadRequest(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusBadRequest, code, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, ErrCodeUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, ErrCodeForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, code string, message string) {
	ErrorResponse(c, http.StatusNotFound, code, message)
}

// InternalError 500
func InternalError(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// ServiceUnavailable 503
func ServiceUnavailable(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, message)
}

// ValidationFailed 400 with the full list of field-level reasons.
func ValidationFailed(c *gin.Context, reasons []string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeValidation, "validation failed", gin.H{"reasons": reasons})
}

// MissingField 400 for a single absent field.
func MissingField(c *gin.Context, field string) {
	ErrorResponseWithDetails(c, http.StatusBadRequest, ErrCodeMissingField, field+" is required", gin.H{"field": field})
}

// InvalidPayload 400 for an unparseable body.
func InvalidPayload(c *gin.Context) {
	ErrorResponse(c, http.StatusBadRequest, ErrCodeInvalidRequest, "invalid request payload")
}
