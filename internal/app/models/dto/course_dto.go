package dto

import (
	"strings"

	"github.com/yigit/courseportal/internal/app/models"
)

// AddCourseRequest represents a new catalog entry
type AddCourseRequest struct {
	CourseID   string `form:"course_id" json:"course_id" binding:"required"`
	CourseName string `form:"course_name" json:"course_name" binding:"required"`
}

// CourseResponse represents one course
type CourseResponse struct {
	CourseID   string `json:"courseId" example:"CS101"`
	CourseName string `json:"courseName" example:"Introduction to Computer Science"`
}

// NewCourseResponse converts a course model
func NewCourseResponse(course *models.Course) CourseResponse {
	return CourseResponse{CourseID: course.ID.String(), CourseName: course.Name}
}

// NewCourseListResponse converts a list of course models
func NewCourseListResponse(courses []*models.Course) []CourseResponse {
	list := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		list = append(list, NewCourseResponse(c))
	}
	return list
}

// DeleteCourseResponse reports whether a course was removed
type DeleteCourseResponse struct {
	CourseID   string `json:"courseId" example:"CS101"`
	CourseName string `json:"courseName,omitempty" example:"Introduction to Computer Science"`
	Deleted    bool   `json:"deleted" example:"true"`
}

// RegisteredStudentResponse is one row of the registered students report
type RegisteredStudentResponse struct {
	Rollno            string   `json:"rollno" example:"21CS042"`
	Name              string   `json:"name" example:"Asha Verma"`
	RegisteredCourses string   `json:"registeredCourses" example:"Algorithms, Databases"`
	Courses           []string `json:"courses"`
	CourseCount       int      `json:"courseCount" example:"2"`
}

// NewRegisteredStudentsResponse converts student summaries
func NewRegisteredStudentsResponse(summaries []*models.StudentSummary) []RegisteredStudentResponse {
	list := make([]RegisteredStudentResponse, 0, len(summaries))
	for _, s := range summaries {
		list = append(list, RegisteredStudentResponse{
			Rollno:            s.Rollno.String(),
			Name:              s.Name,
			RegisteredCourses: strings.Join(s.Courses, ", "),
			Courses:           s.Courses,
			CourseCount:       s.CourseCount,
		})
	}
	return list
}
