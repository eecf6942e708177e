package dto

// DashboardResponse holds the summary cards of the signed-in role.
type DashboardResponse struct {
	Role    string          `json:"role"`
	Admin   *AdminSummary   `json:"admin,omitempty"`
	Teacher *TeacherSummary `json:"teacher,omitempty"`
	Student *StudentSummary `json:"student,omitempty"`
	Cached  bool            `json:"cached"`
}

// AdminSummary counts the records an administrator manages.
type AdminSummary struct {
	Students      int `json:"students"`
	Teachers      int `json:"teachers"`
	Courses       int `json:"courses"`
	Batches       int `json:"batches"`
	Announcements int `json:"announcements"`
}

// TeacherSummary lists the courses a teacher runs.
type TeacherSummary struct {
	Courses      int      `json:"courses"`
	TotalCredits int      `json:"total_credits"`
	CourseCodes  []string `json:"course_codes"`
}

// StudentSummary is the student result headline.
type StudentSummary struct {
	CGPA          float64 `json:"cgpa"`
	TotalCredits  int     `json:"total_credits"`
	GradedCourses int     `json:"graded_courses"`
}
