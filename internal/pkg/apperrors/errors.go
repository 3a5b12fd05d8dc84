package apperrors

import "errors"

// Common errors
var (
	// Store errors
	ErrDuplicateKey     = errors.New("resource already exists")
	ErrNotFound         = errors.New("resource not found")
	ErrStoreUnavailable = errors.New("store unavailable")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Authorization errors
	ErrUnauthorized = errors.New("unauthorized")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
)

// Student Errors
var (
	ErrStudentNotFound     = NewCustomError(ErrNotFound, "student not found").WithCode("STUDENT_NOT_FOUND")
	ErrRollnoAlreadyExists = NewCustomError(ErrDuplicateKey, "roll number already registered").WithCode("ROLLNO_EXISTS")
)

// Course Errors
var (
	ErrCourseNotFound        = NewCustomError(ErrNotFound, "course not found").WithCode("COURSE_NOT_FOUND")
	ErrCourseIDAlreadyExists = NewCustomError(ErrDuplicateKey, "course ID already exists").WithCode("COURSE_EXISTS")
)

// NewUnauthorizedError creates a new custom error for role mismatches with a message
func NewUnauthorizedError(message string) error {
	return &CustomError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// NewValidationError creates a new custom error for invalid input with a message
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails returns a copy of the error carrying the given details
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	cp := *e
	cp.Details = details
	return &cp
}

// WithCode returns a copy of the error carrying an error code
func (e *CustomError) WithCode(code string) *CustomError {
	cp := *e
	cp.Code = code
	return &cp
}

// DetailsOf returns the details of the first CustomError in err's chain.
func DetailsOf(err error) map[string]interface{} {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Details
	}
	return nil
}

// CodeOf returns the code of the first CustomError in err's chain that has one.
func CodeOf(err error) string {
	for err != nil {
		var ce *CustomError
		if !errors.As(err, &ce) {
			return ""
		}
		if ce.Code != "" {
			return ce.Code
		}
		err = ce.Err
	}
	return ""
}
