package dto

import "time"

// APIResponse is the envelope of every JSON response
type APIResponse struct {
	Success   bool         `json:"success" example:"true"`
	Message   string       `json:"message,omitempty" example:"Course added successfully"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Timestamp time.Time    `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse creates a successful response
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(errorDetail *ErrorDetail) APIResponse {
	return APIResponse{
		Success:   false,
		Error:     errorDetail,
		Timestamp: time.Now(),
	}
}

// IndexResponse describes the service and the caller's current role
type IndexResponse struct {
	Service string            `json:"service" example:"courseportal"`
	Role    string            `json:"role" example:"ANONYMOUS"`
	Rollno  string            `json:"rollno,omitempty" example:"21CS042"`
	Links   map[string]string `json:"links"`
}

// HealthResponse reports store availability
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Driver string `json:"driver" example:"sqlite"`
}
