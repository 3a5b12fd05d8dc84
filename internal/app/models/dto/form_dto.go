package dto

import "net/http"

// FormField describes one input of a form endpoint
type FormField struct {
	Name     string `json:"name" example:"course_id"`
	Type     string `json:"type" example:"text"`
	Required bool   `json:"required" example:"true"`
	Multiple bool   `json:"multiple,omitempty"`
}

// FormResponse answers GET on an endpoint that accepts a POST body
type FormResponse struct {
	Action string      `json:"action" example:"/admin/add_course"`
	Method string      `json:"method" example:"POST"`
	Fields []FormField `json:"fields"`
}

func newForm(action string, fields ...FormField) FormResponse {
	return FormResponse{Action: action, Method: http.MethodPost, Fields: fields}
}

// Forms served by the GET side of each form endpoint
var (
	AdminLoginForm = newForm("/admin/login",
		FormField{Name: "password", Type: "password", Required: true})
	AddCourseForm = newForm("/admin/add_course",
		FormField{Name: "course_id", Type: "text", Required: true},
		FormField{Name: "course_name", Type: "text", Required: true})
	RegisterStudentForm = newForm("/student/register",
		FormField{Name: "rollno", Type: "text", Required: true},
		FormField{Name: "name", Type: "text", Required: true},
		FormField{Name: "password", Type: "password", Required: true})
	StudentLoginForm = newForm("/student/login",
		FormField{Name: "rollno", Type: "text", Required: true},
		FormField{Name: "password", Type: "password", Required: true})
)
