package dto

import "github.com/yigit/courseportal/internal/app/models"

// RegisterStudentRequest represents student registration data
type RegisterStudentRequest struct {
	Rollno   string `form:"rollno" json:"rollno" binding:"required"`
	Name     string `form:"name" json:"name" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// EnrollRequest carries the selected course IDs. In form encoding the
// courses field is repeated once per selection.
type EnrollRequest struct {
	Courses []string `form:"courses" json:"courses" binding:"dive,required"`
}

// StudentResponse represents a student without credentials
type StudentResponse struct {
	Rollno string `json:"rollno" example:"21CS042"`
	Name   string `json:"name" example:"Asha Verma"`
}

// NewStudentResponse converts a student model
func NewStudentResponse(student *models.Student) StudentResponse {
	return StudentResponse{Rollno: student.Rollno.String(), Name: student.Name}
}

// EnrollResponse reports the outcome of an enrollment
type EnrollResponse struct {
	Requested int `json:"requested" example:"3"`
	Created   int `json:"created" example:"2"`
	Skipped   int `json:"skipped" example:"1"`
}

// NewEnrollResponse converts an enroll result
func NewEnrollResponse(result models.EnrollResult) EnrollResponse {
	return EnrollResponse{
		Requested: result.Requested,
		Created:   result.Created,
		Skipped:   result.Skipped(),
	}
}

// CourseSelection is one catalog entry on the student dashboard
type CourseSelection struct {
	CourseID   string `json:"courseId" example:"CS101"`
	CourseName string `json:"courseName" example:"Introduction to Computer Science"`
	Registered bool   `json:"registered" example:"true"`
}

// StudentDashboardResponse is the course selection view
type StudentDashboardResponse struct {
	Student StudentResponse   `json:"student"`
	Courses []CourseSelection `json:"courses"`
}

// NewStudentDashboardResponse converts a student dashboard
func NewStudentDashboardResponse(dash *models.StudentDashboard) StudentDashboardResponse {
	courses := make([]CourseSelection, 0, len(dash.Courses))
	for _, c := range dash.Courses {
		courses = append(courses, CourseSelection{
			CourseID:   c.ID.String(),
			CourseName: c.Name,
			Registered: dash.Registered[c.ID],
		})
	}
	return StudentDashboardResponse{
		Student: NewStudentResponse(dash.Student),
		Courses: courses,
	}
}
