package services

import "github.com/yigit/courseportal/internal/app/repositories"

// Services groups the application services built over one store
type Services struct {
	Courses       CourseService
	Students      StudentService
	Registrations RegistrationService
}

// NewServices wires every service to store
func NewServices(store repositories.Store) *Services {
	return &Services{
		Courses:       NewCourseService(store),
		Students:      NewStudentService(store),
		Registrations: NewRegistrationService(store),
	}
}
