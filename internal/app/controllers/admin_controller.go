package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/models/dto"
	"github.com/yigit/courseportal/internal/app/services"
	"github.com/yigit/courseportal/internal/middleware"
)

// AdminController handles catalog management and reports
type AdminController struct {
	courseService       services.CourseService
	registrationService services.RegistrationService
}

// NewAdminController creates a new AdminController
func NewAdminController(courseService services.CourseService, registrationService services.RegistrationService) *AdminController {
	return &AdminController{
		courseService:       courseService,
		registrationService: registrationService,
	}
}

// Dashboard returns catalog and student totals
// @Summary Admin dashboard
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=models.AdminDashboard}
// @Failure 401 {object} dto.APIResponse "Admin login required"
// @Router /admin/dashboard [get]
func (c *AdminController) Dashboard(ctx *gin.Context) {
	dash, err := c.registrationService.AdminDashboard(ctx.Request.Context(), middleware.GetCaller(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dash, ""))
}

// AddCourseForm describes the add course form
// @Summary Add course form
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FormResponse}
// @Router /admin/add_course [get]
func (c *AdminController) AddCourseForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.AddCourseForm, ""))
}

// AddCourse adds a course to the catalog
// @Summary Add a course
// @Tags admin
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body dto.AddCourseRequest true "Course information"
// @Success 201 {object} dto.APIResponse{data=dto.CourseResponse} "Course added"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Admin login required"
// @Failure 409 {object} dto.APIResponse "Course ID already exists"
// @Failure 503 {object} dto.APIResponse "Store unavailable"
// @Router /admin/add_course [post]
func (c *AdminController) AddCourse(ctx *gin.Context) {
	var req dto.AddCourseRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	course, err := c.courseService.AddCourse(ctx.Request.Context(), middleware.GetCaller(ctx), req.CourseID, req.CourseName)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewCourseResponse(course), "Course added successfully"))
}

// ListCourses returns the catalog
// @Summary List courses
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Failure 401 {object} dto.APIResponse "Admin login required"
// @Router /admin/courses [get]
func (c *AdminController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListCourses(ctx.Request.Context(), middleware.GetCaller(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseListResponse(courses), ""))
}

// DeleteCourse removes a course and its registrations
// @Summary Delete a course
// @Description Succeeds whether or not the course exists; the deleted flag tells which.
// @Tags admin
// @Produce json
// @Param course_id path string true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.DeleteCourseResponse}
// @Failure 401 {object} dto.APIResponse "Admin login required"
// @Router /admin/delete_course/{course_id} [get]
func (c *AdminController) DeleteCourse(ctx *gin.Context) {
	courseID := ctx.Param("course_id")

	course, err := c.courseService.DeleteCourse(ctx.Request.Context(), middleware.GetCaller(ctx), courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	resp := dto.DeleteCourseResponse{CourseID: courseID}
	message := "Course not found, nothing deleted"
	if course != nil {
		resp.CourseID = course.ID.String()
		resp.CourseName = course.Name
		resp.Deleted = true
		message = "Course deleted successfully"
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, message))
}

// RegisteredStudents returns every student with their registered courses
// @Summary Registered students report
// @Tags admin
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.RegisteredStudentResponse}
// @Failure 401 {object} dto.APIResponse "Admin login required"
// @Router /admin/registered_students [get]
func (c *AdminController) RegisteredStudents(ctx *gin.Context) {
	summaries, err := c.registrationService.ListAllRegisteredStudents(ctx.Request.Context(), middleware.GetCaller(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewRegisteredStudentsResponse(summaries), ""))
}
