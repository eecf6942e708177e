package dto

// MarkEntryRequest is a single row of the upload-marks form.
type MarkEntryRequest struct {
	CourseID        string  `json:"course_id" validate:"required"`
	StudentID       string  `json:"student_id" validate:"required"`
	QuizMarks       float64 `json:"quiz_marks" validate:"gte=0"`
	AssignmentMarks float64 `json:"assignment_marks" validate:"gte=0"`
	MidsMarks       float64 `json:"mids_marks" validate:"gte=0"`
	FinalMarks      float64 `json:"final_marks" validate:"gte=0"`
}

// MarksSubmitRequest carries one or more mark rows.
type MarksSubmitRequest struct {
	Entries []MarkEntryRequest `json:"entries" validate:"required,min=1,max=500,dive"`
}

// MarkPreview shows the grade a row will produce.
type MarkPreview struct {
	CourseID  string  `json:"course_id"`
	StudentID string  `json:"student_id"`
	Total     float64 `json:"total"`
	Grade     string  `json:"grade"`
	GPA       float64 `json:"gpa"`
}

// MarksSubmitResponse summarises submitted rows.
type MarksSubmitResponse struct {
	Submitted int           `json:"submitted"`
	Previews  []MarkPreview `json:"previews"`
}
