package dto

// AdminLoginRequest carries the shared admin secret
type AdminLoginRequest struct {
	Password string `form:"password" json:"password" binding:"required"`
}

// StudentLoginRequest represents student credentials
type StudentLoginRequest struct {
	Rollno   string `form:"rollno" json:"rollno" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

// SessionResponse describes the session started by a login
type SessionResponse struct {
	Role     string `json:"role" example:"STUDENT"`
	Rollno   string `json:"rollno,omitempty" example:"21CS042"`
	Name     string `json:"name,omitempty" example:"Asha Verma"`
	Redirect string `json:"redirect" example:"/student/dashboard"`
}
