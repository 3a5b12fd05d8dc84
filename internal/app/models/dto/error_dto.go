package dto

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies a class of failure in API responses
type ErrorCode string

const (
	ErrorCodeInvalidCredentials    ErrorCode = "AUTH_001"
	ErrorCodeUnauthorized          ErrorCode = "AUTH_008"
	ErrorCodeResourceNotFound      ErrorCode = "RES_001"
	ErrorCodeResourceAlreadyExists ErrorCode = "RES_002"
	ErrorCodeValidationFailed      ErrorCode = "VAL_001"
	ErrorCodeInternalServer        ErrorCode = "SRV_001"
	ErrorCodeStoreUnavailable      ErrorCode = "SRV_002"
)

var codeStatus = map[ErrorCode]int{
	ErrorCodeInvalidCredentials:    http.StatusUnauthorized,
	ErrorCodeUnauthorized:          http.StatusUnauthorized,
	ErrorCodeResourceNotFound:      http.StatusNotFound,
	ErrorCodeResourceAlreadyExists: http.StatusConflict,
	ErrorCodeValidationFailed:      http.StatusBadRequest,
	ErrorCodeInternalServer:        http.StatusInternalServerError,
	ErrorCodeStoreUnavailable:      http.StatusServiceUnavailable,
}

// Status returns the HTTP status answered for the code
func (c ErrorCode) Status() int {
	if status, ok := codeStatus[c]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorSeverity grades an error for clients and log triage
type ErrorSeverity string

const (
	ErrorSeverityWarning  ErrorSeverity = "WARNING"
	ErrorSeverityError    ErrorSeverity = "ERROR"
	ErrorSeverityCritical ErrorSeverity = "CRITICAL"
)

// Severity returns the default severity of the code. Client mistakes are
// warnings and an unusable store is critical.
func (c ErrorCode) Severity() ErrorSeverity {
	switch status := c.Status(); {
	case status == http.StatusServiceUnavailable:
		return ErrorSeverityCritical
	case status >= http.StatusInternalServerError:
		return ErrorSeverityError
	default:
		return ErrorSeverityWarning
	}
}

// ErrorDetail is the error member of APIResponse
type ErrorDetail struct {
	Code      ErrorCode     `json:"code" example:"RES_002"`
	Message   string        `json:"message" example:"course ID already exists"`
	Reason    string        `json:"reason,omitempty" example:"COURSE_EXISTS"`
	Severity  ErrorSeverity `json:"severity" example:"WARNING"`
	Details   interface{}   `json:"details,omitempty"`
	DebugInfo string        `json:"debugInfo,omitempty"`
}

// NewErrorDetail creates an error detail with the code's default severity
func NewErrorDetail(code ErrorCode, message string) *ErrorDetail {
	return &ErrorDetail{
		Code:     code,
		Message:  message,
		Severity: code.Severity(),
	}
}

// WithDetails attaches structured details, such as per-field validation
// messages or the login path of a rejected caller
func (e *ErrorDetail) WithDetails(details interface{}) *ErrorDetail {
	e.Details = details
	return e
}

// WithDebugInfo attaches the raw error text, used in debug mode only
func (e *ErrorDetail) WithDebugInfo(format string, args ...interface{}) *ErrorDetail {
	e.DebugInfo = fmt.Sprintf(format, args...)
	return e
}
