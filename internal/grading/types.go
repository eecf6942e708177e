package grading

// MarkComponents holds the four raw scores that make up a course total.
type MarkComponents struct {
	Quiz       float64 `json:"quiz"`
	Assignment float64 `json:"assignment"`
	Midterm    float64 `json:"midterm"`
	Final      float64 `json:"final"`
}

// Total sums the components without scaling.
func (m MarkComponents) Total() float64 {
	return m.Quiz + m.Assignment + m.Midterm + m.Final
}

// Course is the subset of a course record needed for grading.
type Course struct {
	ID      string
	Code    string
	Name    string
	Credits int
}

// MarkRecord ties mark components to a course.
type MarkRecord struct {
	CourseID   string
	Components MarkComponents
}

// CourseResult is the graded outcome for a single course.
type CourseResult struct {
	CourseID      string  `json:"course_id"`
	CourseCode    string  `json:"course_code"`
	CourseName    string  `json:"course_name"`
	Credits       int     `json:"credits"`
	ObtainedMarks float64 `json:"obtained_marks"`
	Grade         string  `json:"grade"`
	GPA           float64 `json:"gpa"`
}

// AggregateResult is the credit weighted summary across courses.
type AggregateResult struct {
	CGPA         float64 `json:"cgpa"`
	TotalCredits int     `json:"total_credits"`
}

// Report bundles per-course rows with their aggregate.
type Report struct {
	Courses   []CourseResult  `json:"courses"`
	Aggregate AggregateResult `json:"aggregate"`
}
