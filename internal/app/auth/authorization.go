package auth

import (
	"github.com/yigit/courseportal/internal/app/models"
	"github.com/yigit/courseportal/internal/pkg/apperrors"
)

// Login paths a rejected caller is pointed at
const (
	AdminLoginPath   = "/admin/login"
	StudentLoginPath = "/student/login"
)

// LoginPathFor returns the login path for role
func LoginPathFor(role models.RoleType) string {
	if role == models.RoleAdmin {
		return AdminLoginPath
	}
	return StudentLoginPath
}

func unauthorized(message string, role models.RoleType) error {
	return apperrors.NewCustomError(apperrors.ErrUnauthorized, message).
		WithDetails(map[string]interface{}{"login": LoginPathFor(role)})
}

// RequireAdmin rejects callers without the admin role
func RequireAdmin(caller models.Caller) error {
	if !caller.IsAdmin() {
		return unauthorized("admin login required", models.RoleAdmin)
	}
	return nil
}

// RequireStudent rejects callers who are not logged-in students
func RequireStudent(caller models.Caller) error {
	if !caller.IsStudent() {
		return unauthorized("student login required", models.RoleStudent)
	}
	return nil
}

// RequireStudentSelf rejects callers other than the student owning rollno
func RequireStudentSelf(caller models.Caller, rollno models.Rollno) error {
	if err := RequireStudent(caller); err != nil {
		return err
	}
	if caller.Rollno != rollno {
		return unauthorized("not allowed to act for another student", models.RoleStudent)
	}
	return nil
}

// RequireAny accepts callers holding any of roles
func RequireAny(caller models.Caller, roles ...models.RoleType) error {
	for _, role := range roles {
		switch role {
		case models.RoleAdmin:
			if caller.IsAdmin() {
				return nil
			}
		case models.RoleStudent:
			if caller.IsStudent() {
				return nil
			}
		case models.RoleAnonymous:
			return nil
		}
	}

	hint := models.RoleStudent
	if len(roles) > 0 {
		hint = roles[0]
	}
	return unauthorized("login required", hint)
}
