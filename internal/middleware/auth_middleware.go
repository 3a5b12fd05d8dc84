package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/auth"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/models/dto"
)

// Context keys set by SessionAuth
const (
	CallerKey       = "caller"
	SessionTokenKey = "sessionToken"
)

// CookieConfig controls the session cookie
type CookieConfig struct {
	Name   string
	MaxAge int // seconds
	Secure bool
}

// AuthMiddleware resolves session cookies into callers
type AuthMiddleware struct {
	guard  *auth.Guard
	cookie CookieConfig
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(guard *auth.Guard, cookie CookieConfig) *AuthMiddleware {
	return &AuthMiddleware{guard: guard, cookie: cookie}
}

// SessionAuth stores the caller behind the session cookie in the context.
// Requests without a valid session continue as anonymous.
func (m *AuthMiddleware) SessionAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(m.cookie.Name)
		if err != nil {
			token = ""
		}

		caller := m.guard.Resolve(c.Request.Context(), token)
		if caller.IsAnonymous() && token != "" {
			// Stale cookie
			m.ClearSessionCookie(c)
			token = ""
		}

		c.Set(CallerKey, caller)
		c.Set(SessionTokenKey, token)
		c.Next()
	}
}

// RoleRequired rejects callers without role before the handler runs
func (m *AuthMiddleware) RoleRequired(role models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller := GetCaller(c)
		var err error
		switch role {
		case models.RoleAdmin:
			err = auth.RequireAdmin(caller)
		case models.RoleStudent:
			err = auth.RequireStudent(caller)
		default:
			err = auth.RequireAny(caller, role)
		}
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
			errorDetail = errorDetail.WithDetails(map[string]interface{}{"login": auth.LoginPathFor(role)})
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
			return
		}
		c.Next()
	}
}

// SetSessionCookie writes the session cookie to the response
func (m *AuthMiddleware) SetSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, token, m.cookie.MaxAge, "/", "", m.cookie.Secure, true)
}

// ClearSessionCookie expires the session cookie
func (m *AuthMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.cookie.Name, "", -1, "/", "", m.cookie.Secure, true)
}

// GetCaller returns the caller stored by SessionAuth, or anonymous
func GetCaller(c *gin.Context) models.Caller {
	if v, ok := c.Get(CallerKey); ok {
		if caller, ok := v.(models.Caller); ok {
			return caller
		}
	}
	return models.AnonymousCaller()
}

// GetSessionToken returns the raw session token of the request
func GetSessionToken(c *gin.Context) string {
	return c.GetString(SessionTokenKey)
}
