package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/models/dto"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	"github.com/yigit/courseportal/internal/pkg/logger"
)

// HandleAPIError maps err onto a status code and error response. Store
// errors are logged but never returned to the client.
func HandleAPIError(c *gin.Context, err error) {
	status, detail := errorResponse(err)

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Int("status", status).
		Msg("Request failed")

	if gin.Mode() == gin.DebugMode && status == http.StatusInternalServerError {
		detail = detail.WithDebugInfo("%v", err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(detail))
}

func errorResponse(err error) (int, *dto.ErrorDetail) {
	detail := errorDetail(err)
	if detail.Code != dto.ErrorCodeInternalServer {
		detail.Reason = apperrors.CodeOf(err)
	}
	return detail.Code.Status(), detail
}

func errorDetail(err error) *dto.ErrorDetail {
	details := apperrors.DetailsOf(err)

	switch {
	case errors.Is(err, apperrors.ErrValidationFailed):
		return withDetails(dto.NewErrorDetail(dto.ErrorCodeValidationFailed, err.Error()), details)
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return dto.NewErrorDetail(dto.ErrorCodeInvalidCredentials, "Invalid credentials")
	case errors.Is(err, apperrors.ErrUnauthorized):
		return withDetails(dto.NewErrorDetail(dto.ErrorCodeUnauthorized, err.Error()), details)
	case errors.Is(err, apperrors.ErrNotFound):
		return withDetails(dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, publicMessage(err, "Resource not found")), details)
	case errors.Is(err, apperrors.ErrDuplicateKey):
		return withDetails(dto.NewErrorDetail(dto.ErrorCodeResourceAlreadyExists, publicMessage(err, "Resource already exists")), details)
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		return dto.NewErrorDetail(dto.ErrorCodeStoreUnavailable, "Store unavailable, reinitialize the database")
	default:
		return dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")
	}
}

// publicMessage returns the message of an application error, or fallback
// when err carries a raw store error.
func publicMessage(err error, fallback string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

func withDetails(detail *dto.ErrorDetail, details map[string]interface{}) *dto.ErrorDetail {
	if len(details) > 0 {
		detail = detail.WithDetails(details)
	}
	return detail
}
