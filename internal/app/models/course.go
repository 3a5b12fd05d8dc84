package models

// Course represents a course in the catalog.
type Course struct {
	ID   CourseID `json:"courseId" db:"course_id" validate:"required" example:"CS101"`
	Name string   `json:"courseName" db:"course_name" validate:"required" example:"Introduction to Computer Science"`
}

// Registration records that a student is enrolled in a course.
type Registration struct {
	Rollno   Rollno   `json:"rollno" db:"rollno"`
	CourseID CourseID `json:"courseId" db:"course_id"`
}
