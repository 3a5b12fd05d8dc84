package models

// EnrollResult reports the outcome of one enrollment request
type EnrollResult struct {
	Requested int `json:"requested" example:"3"` // Distinct course IDs in the request
	Created   int `json:"created" example:"2"`   // Registrations that did not exist before
}

// Skipped returns how many requested courses were already registered
func (r EnrollResult) Skipped() int {
	return r.Requested - r.Created
}

// StudentDashboard is the course selection view of one student
type StudentDashboard struct {
	Student    *Student
	Courses    []*Course
	Registered map[CourseID]bool
}

// AdminDashboard holds the catalog and student totals
type AdminDashboard struct {
	CourseCount  int `json:"courseCount" example:"5"`
	StudentCount int `json:"studentCount" example:"42"`
}
