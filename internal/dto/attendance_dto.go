package dto

// AttendanceEntryRequest marks a single student.
type AttendanceEntryRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Present   bool   `json:"present"`
}

// AttendanceRequest is the mark-attendance form for one course session.
type AttendanceRequest struct {
	CourseID string                   `json:"course_id" validate:"required"`
	Date     string                   `json:"date" validate:"required,datetime=2006-01-02"`
	Entries  []AttendanceEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

// AttendanceResponse summarises a recorded session.
type AttendanceResponse struct {
	CourseID string `json:"course_id"`
	Date     string `json:"date"`
	Present  int    `json:"present"`
	Absent   int    `json:"absent"`
}
