package dto

import "github.com/noah-isme/campus-portal/internal/grading"

// StudentResultResponse is the result sheet of a student.
type StudentResultResponse struct {
	StudentID string                  `json:"student_id"`
	Courses   []grading.CourseResult  `json:"courses"`
	Aggregate grading.AggregateResult `json:"aggregate"`
	// CGPADisplay is the aggregate rounded for display.
	CGPADisplay string `json:"cgpa_display"`
}
