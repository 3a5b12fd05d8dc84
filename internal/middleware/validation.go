package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
	"github.com/yigit/courseportal/internal/pkg/validation"
)

// BindRequest binds the form or JSON body into obj. On failure it writes a
// 400 response and returns false.
func BindRequest(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBind(obj); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			HandleAPIError(c, validation.FromFieldErrors(fieldErrs))
		} else {
			HandleAPIError(c, apperrors.NewValidationError("Invalid request format"))
		}
		return false
	}
	return true
}
