package models

// Caller is the resolved identity of whoever issues a request. It is passed
// explicitly into every service call.
type Caller struct {
	Role   RoleType
	Rollno Rollno // Set only for RoleStudent
}

// AnonymousCaller returns a caller without a session.
func AnonymousCaller() Caller {
	return Caller{Role: RoleAnonymous}
}

// AdminCaller returns an administrator caller.
func AdminCaller() Caller {
	return Caller{Role: RoleAdmin}
}

// StudentCaller returns a caller logged in as the given student.
func StudentCaller(rollno Rollno) Caller {
	return Caller{Role: RoleStudent, Rollno: rollno}
}

// IsAdmin reports whether the caller holds the admin role.
func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// IsStudent reports whether the caller is a logged-in student.
func (c Caller) IsStudent() bool {
	return c.Role == RoleStudent && c.Rollno != ""
}

// IsAnonymous reports whether the caller has no usable role.
func (c Caller) IsAnonymous() bool {
	return !c.IsAdmin() && !c.IsStudent()
}
