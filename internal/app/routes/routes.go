package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/courseportal/internal/app/controllers"
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	adminController *controllers.AdminController,
	studentController *controllers.StudentController,
	healthController *controllers.HealthController,
	authMiddleware *middleware.AuthMiddleware,
	store middleware.Pinger,
) {
	router.GET("/health", healthController.Health)

	// Every other route resolves the session cookie first
	app := router.Group("")
	app.Use(authMiddleware.SessionAuth())

	app.GET("/", authController.Index)
	app.GET("/logout", authController.Logout)

	// --- Anonymous routes ---
	app.GET("/admin/login", authController.AdminLoginForm)
	app.POST("/admin/login", authController.AdminLogin)
	app.GET("/student/login", authController.StudentLoginForm)
	app.GET("/student/register", studentController.RegisterForm)

	// Anonymous routes that touch the store
	anonymousStore := app.Group("")
	anonymousStore.Use(middleware.RequireStore(store))
	{
		anonymousStore.POST("/student/login", authController.StudentLogin)
		anonymousStore.POST("/student/register", studentController.Register)
	}

	// --- Admin routes ---
	admin := app.Group("/admin")
	admin.Use(authMiddleware.RoleRequired(models.RoleAdmin), middleware.RequireStore(store))
	{
		admin.GET("/dashboard", adminController.Dashboard)
		admin.GET("/add_course", adminController.AddCourseForm)
		admin.POST("/add_course", adminController.AddCourse)
		admin.GET("/courses", adminController.ListCourses)
		admin.GET("/delete_course/:course_id", adminController.DeleteCourse)
		admin.GET("/registered_students", adminController.RegisteredStudents)
	}

	// --- Student routes ---
	student := app.Group("/student")
	student.Use(authMiddleware.RoleRequired(models.RoleStudent), middleware.RequireStore(store))
	{
		student.GET("/dashboard", studentController.Dashboard)
		student.POST("/dashboard", studentController.Enroll)
		student.GET("/my_courses", studentController.MyCourses)
	}
}
