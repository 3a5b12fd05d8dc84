package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/auth"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/app/models/dto"
	"github.com/yigit/courseportal/internal/middleware"
	"github.com/yigit/courseportal/internal/pkg/logger"
)

// AuthController handles logins, logout and the service index
type AuthController struct {
	guard          *auth.Guard
	authMiddleware *middleware.AuthMiddleware
}

// NewAuthController creates a new AuthController
func NewAuthController(guard *auth.Guard, authMiddleware *middleware.AuthMiddleware) *AuthController {
	return &AuthController{
		guard:          guard,
		authMiddleware: authMiddleware,
	}
}

// Index describes the service and the caller's current role
// @Summary Service index
// @Tags session
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.IndexResponse}
// @Router / [get]
func (c *AuthController) Index(ctx *gin.Context) {
	caller := middleware.GetCaller(ctx)

	links := map[string]string{}
	switch {
	case caller.IsAdmin():
		links["dashboard"] = "/admin/dashboard"
		links["courses"] = "/admin/courses"
		links["addCourse"] = "/admin/add_course"
		links["registeredStudents"] = "/admin/registered_students"
		links["logout"] = "/logout"
	case caller.IsStudent():
		links["dashboard"] = "/student/dashboard"
		links["myCourses"] = "/student/my_courses"
		links["logout"] = "/logout"
	default:
		links["adminLogin"] = auth.AdminLoginPath
		links["studentLogin"] = auth.StudentLoginPath
		links["studentRegister"] = "/student/register"
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.IndexResponse{
		Service: "courseportal",
		Role:    string(caller.Role),
		Rollno:  caller.Rollno.String(),
		Links:   links,
	}, ""))
}

// AdminLoginForm describes the admin login form
// @Summary Admin login form
// @Tags session
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FormResponse}
// @Router /admin/login [get]
func (c *AuthController) AdminLoginForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AdminLoginForm, ""))
}

// AdminLogin grants an admin session for the shared secret
// @Summary Admin login
// @Tags session
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin secret"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Logged in"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /admin/login [post]
func (c *AuthController) AdminLogin(ctx *gin.Context) {
	var req dto.AdminLoginRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	token, err := c.guard.LoginAdmin(ctx.Request.Context(), req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.replaceSession(ctx, token)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SessionResponse{
		Role:     string(models.RoleAdmin),
		Redirect: "/admin/dashboard",
	}, "Admin login successful"))
}

// StudentLoginForm describes the student login form
// @Summary Student login form
// @Tags session
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FormResponse}
// @Router /student/login [get]
func (c *AuthController) StudentLoginForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.StudentLoginForm, ""))
}

// StudentLogin grants a student session for matching credentials
// @Summary Student login
// @Tags session
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body dto.StudentLoginRequest true "Student credentials"
// @Success 200 {object} dto.APIResponse{data=dto.SessionResponse} "Logged in"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 503 {object} dto.APIResponse "Store unavailable"
// @Router /student/login [post]
func (c *AuthController) StudentLogin(ctx *gin.Context) {
	var req dto.StudentLoginRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	token, student, err := c.guard.LoginStudent(ctx.Request.Context(), req.Rollno, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.replaceSession(ctx, token)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SessionResponse{
		Role:     string(models.RoleStudent),
		Rollno:   student.Rollno.String(),
		Name:     student.Name,
		Redirect: "/student/dashboard",
	}, "Welcome, "+student.Name))
}

// Logout clears the server session and the cookie
// @Summary Logout
// @Tags session
// @Produce json
// @Success 200 {object} dto.APIResponse
// @Router /logout [get]
func (c *AuthController) Logout(ctx *gin.Context) {
	if token := middleware.GetSessionToken(ctx); token != "" {
		if err := c.guard.Logout(ctx.Request.Context(), token); err != nil {
			logger.Warn().Err(err).Msg("Failed to revoke session")
		}
	}
	c.authMiddleware.ClearSessionCookie(ctx)

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Logged out"))
}

// replaceSession revokes the request's previous session before setting the new cookie
func (c *AuthController) replaceSession(ctx *gin.Context, token string) {
	if old := middleware.GetSessionToken(ctx); old != "" {
		if err := c.guard.Logout(ctx.Request.Context(), old); err != nil {
			logger.Warn().Err(err).Msg("Failed to revoke previous session")
		}
	}
	c.authMiddleware.SetSessionCookie(ctx, token)
}
