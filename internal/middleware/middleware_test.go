package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/models/dto"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorResponseStatus(t *testing.T) {
	rawStore := errors.New("UNIQUE constraint failed: courses.course_id")

	tests := []struct {
		name   string
		err    error
		status int
		code   dto.ErrorCode
	}{
		{"validation", apperrors.NewValidationError("name is required"), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"unauthorized", apperrors.NewUnauthorizedError("admin login required"), http.StatusUnauthorized, dto.ErrorCodeUnauthorized},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate", fmt.Errorf("create: %w", apperrors.ErrCourseIDAlreadyExists), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"raw duplicate", fmt.Errorf("%w: %w", apperrors.ErrDuplicateKey, rawStore), http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"store unavailable", fmt.Errorf("%w: file is not a database", apperrors.ErrStoreUnavailable), http.StatusServiceUnavailable, dto.ErrorCodeStoreUnavailable},
		{"other", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, detail.Code)
			assert.NotContains(t, detail.Message, "UNIQUE constraint")
		})
	}
}

func TestHandleAPIErrorWritesEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/courses", nil)

	err := apperrors.NewCustomError(apperrors.ErrUnauthorized, "admin login required").
		WithDetails(map[string]interface{}{"login": "/admin/login"})
	HandleAPIError(c, err)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string                 `json:"code"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, string(dto.ErrorCodeUnauthorized), body.Error.Code)
	assert.Equal(t, "/admin/login", body.Error.Details["login"])
}

func TestBindRequestRejectsMissingFields(t *testing.T) {
	router := gin.New()
	router.POST("/add", func(c *gin.Context) {
		var req dto.AddCourseRequest
		if !BindRequest(c, &req) {
			return
		}
		c.JSON(http.StatusOK, req)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add", strings.NewReader("course_id=CS1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/add", strings.NewReader(`{"course_id":"CS1","course_name":"Intro"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBindRequestRepeatedFormField(t *testing.T) {
	router := gin.New()
	var got dto.EnrollRequest
	router.POST("/enroll", func(c *gin.Context) {
		if BindRequest(c, &got) {
			c.Status(http.StatusNoContent)
		}
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/enroll", strings.NewReader("courses=A&courses=B&courses=A"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, []string{"A", "B", "A"}, got.Courses)
}

func TestRoleRequired(t *testing.T) {
	m := &AuthMiddleware{}

	for _, tc := range []struct {
		name   string
		caller models.Caller
		role   models.RoleType
		status int
	}{
		{"admin allowed", models.AdminCaller(), models.RoleAdmin, http.StatusOK},
		{"student to admin", models.StudentCaller("R1"), models.RoleAdmin, http.StatusUnauthorized},
		{"anonymous to student", models.AnonymousCaller(), models.RoleStudent, http.StatusUnauthorized},
		{"student allowed", models.StudentCaller("R1"), models.RoleStudent, http.StatusOK},
	} {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			reached := false
			router.GET("/x", func(c *gin.Context) {
				c.Set(CallerKey, tc.caller)
				c.Next()
			}, m.RoleRequired(tc.role), func(c *gin.Context) {
				reached = true
				c.Status(http.StatusOK)
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.status == http.StatusOK, reached)
		})
	}
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestRequireStore(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireStore(pingerFunc(func(context.Context) error {
		return fmt.Errorf("%w: missing", apperrors.ErrStoreUnavailable)
	})), func(c *gin.Context) {
		t.Fatal("handler reached with unavailable store")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestErrorResponseSeverity(t *testing.T) {
	_, detail := errorResponse(fmt.Errorf("%w: schema incomplete", apperrors.ErrStoreUnavailable))
	assert.Equal(t, dto.ErrorSeverityCritical, detail.Severity)

	_, detail = errorResponse(apperrors.ErrCourseNotFound)
	assert.Equal(t, dto.ErrorSeverityWarning, detail.Severity)
	assert.Equal(t, "COURSE_NOT_FOUND", detail.Reason)

	_, detail = errorResponse(errors.New("boom"))
	assert.Equal(t, dto.ErrorSeverityError, detail.Severity)
}
