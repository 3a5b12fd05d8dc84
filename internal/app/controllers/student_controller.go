package controllers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/models/dto"
	"github.com/yigit/courseportal/internal/app/services"
	"github.com/yigit/courseportal/internal/middleware"
)

// StudentController handles student registration and course selection
type StudentController struct {
	studentService      services.StudentService
	registrationService services.RegistrationService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService services.StudentService, registrationService services.RegistrationService) *StudentController {
	return &StudentController{
		studentService:      studentService,
		registrationService: registrationService,
	}
}

// RegisterForm describes the registration form
// @Summary Student registration form
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.FormResponse}
// @Router /student/register [get]
func (c *StudentController) RegisterForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RegisterStudentForm, ""))
}

// Register creates a student account. The caller still has to log in.
// @Summary Register a student
// @Tags student
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body dto.RegisterStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=dto.StudentResponse} "Registration successful"
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 409 {object} dto.APIResponse "Roll number already registered"
// @Failure 503 {object} dto.APIResponse "Store unavailable"
// @Router /student/register [post]
func (c *StudentController) Register(ctx *gin.Context) {
	var req dto.RegisterStudentRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}

	student, err := c.studentService.Register(ctx.Request.Context(), middleware.GetCaller(ctx), req.Rollno, req.Name, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(dto.NewStudentResponse(student), "Registration successful, please log in"))
}

// Dashboard returns the catalog marked with the student's registrations
// @Summary Student dashboard
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.StudentDashboardResponse}
// @Failure 401 {object} dto.APIResponse "Student login required"
// @Router /student/dashboard [get]
func (c *StudentController) Dashboard(ctx *gin.Context) {
	caller := middleware.GetCaller(ctx)

	dash, err := c.registrationService.StudentDashboard(ctx.Request.Context(), caller, caller.Rollno)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewStudentDashboardResponse(dash), ""))
}

// Enroll registers the student for the selected courses
// @Summary Enroll in courses
// @Description Already registered courses are skipped. An empty selection is not an error.
// @Tags student
// @Accept x-www-form-urlencoded,json
// @Produce json
// @Param request body dto.EnrollRequest true "Selected course IDs"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request data"
// @Failure 401 {object} dto.APIResponse "Student login required"
// @Failure 404 {object} dto.APIResponse "Course not found"
// @Router /student/dashboard [post]
func (c *StudentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if !middleware.BindRequest(ctx, &req) {
		return
	}
	caller := middleware.GetCaller(ctx)

	result, err := c.registrationService.EnrollMany(ctx.Request.Context(), caller, caller.Rollno, req.Courses)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	message := "No new courses registered"
	if result.Created > 0 {
		message = fmt.Sprintf("Registered for %d course(s)", result.Created)
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewEnrollResponse(result), message))
}

// MyCourses returns the student's courses ordered by name
// @Summary My courses
// @Tags student
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]dto.CourseResponse}
// @Failure 401 {object} dto.APIResponse "Student login required"
// @Router /student/my_courses [get]
func (c *StudentController) MyCourses(ctx *gin.Context) {
	caller := middleware.GetCaller(ctx)

	courses, err := c.registrationService.ListMyCourses(ctx.Request.Context(), caller, caller.Rollno)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCourseListResponse(courses), ""))
}
