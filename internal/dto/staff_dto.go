package dto

// StudentCreateRequest is the admin create-student form.
type StudentCreateRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=120"`
	Email      string `json:"email" validate:"required,email"`
	RollNo     string `json:"roll_no" validate:"required,max=32"`
	BatchID    string `json:"batch_id" validate:"omitempty"`
	Department string `json:"department" validate:"omitempty,max=120"`
	Password   string `json:"password" validate:"required,min=8"`
}

// StudentResponse is a student row.
type StudentResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RollNo     string `json:"roll_no"`
	BatchID    string `json:"batch_id,omitempty"`
	Department string `json:"department,omitempty"`
}

// TeacherResponse is a teacher row.
type TeacherResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

// AssignTeacherRequest assigns a teacher to a course.
type AssignTeacherRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
}
