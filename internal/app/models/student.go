package models

// Student defines the student model based on the 'students' table
type Student struct {
	Rollno   Rollno `json:"rollno" db:"rollno" validate:"required" example:"21CS042"` // Unique roll number, immutable after creation
	Name     string `json:"name" db:"name" validate:"required,notblank" example:"Asha Verma"` // Stored as given
	Password string `json:"-" db:"password" validate:"required"` // Stored as provided
}

// StudentSummary is one row of the registered students report.
type StudentSummary struct {
	Rollno      Rollno   `json:"rollno" example:"21CS042"`
	Name        string   `json:"name" example:"Asha Verma"`
	Courses     []string `json:"registeredCourses"` // Course names, ordered
	CourseCount int      `json:"courseCount" example:"2"`
}
