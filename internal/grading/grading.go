package grading

// Bracket maps an inclusive lower bound on total marks to a letter grade and
// its grade point value.
type Bracket struct {
	MinMarks float64 `json:"min_marks"`
	Grade    string  `json:"grade"`
	GPA      float64 `json:"gpa"`
}

// FailingGrade is returned for totals below every bracket.
const FailingGrade = "F"

// DefaultScale is the grading policy applied by the portal, ordered from the
// highest bracket to the lowest.
var DefaultScale = []Bracket{
	{MinMarks: 85, Grade: "A", GPA: 4.0},
	{MinMarks: 80, Grade: "A-", GPA: 3.7},
	{MinMarks: 75, Grade: "B+", GPA: 3.3},
	{MinMarks: 70, Grade: "B", GPA: 3.0},
	{MinMarks: 65, Grade: "B-", GPA: 2.7},
	{MinMarks: 61, Grade: "C+", GPA: 2.3},
	{MinMarks: 58, Grade: "C", GPA: 2.0},
	{MinMarks: 55, Grade: "C-", GPA: 1.7},
	{MinMarks: 50, Grade: "D", GPA: 1.0},
}

// GradeFor converts a course total into a letter grade and grade point.
// Values are not clamped; anything under the lowest bracket, negatives
// included, is an F.
func GradeFor(totalMarks float64) (string, float64) {
	for _, bracket := range DefaultScale {
		if totalMarks >= bracket.MinMarks {
			return bracket.Grade, bracket.GPA
		}
	}
	return FailingGrade, 0.0
}

// Aggregate computes the credit weighted CGPA over the supplied results.
func Aggregate(results []CourseResult) AggregateResult {
	var gpaPoints float64
	var totalCredits int

	for _, result := range results {
		gpaPoints += result.GPA * float64(result.Credits)
		totalCredits += result.Credits
	}

	aggregate := AggregateResult{TotalCredits: totalCredits}
	if totalCredits > 0 {
		aggregate.CGPA = gpaPoints / float64(totalCredits)
	}
	return aggregate
}

// BuildResults joins courses with their mark records and grades every
// course that has marks. Courses without a mark record are left out of both
// the rows and the aggregate. A course listed more than once is graded once,
// using its first listing.
func BuildResults(courses []Course, marks []MarkRecord) Report {
	byCourse := make(map[string]MarkComponents, len(marks))
	for _, record := range marks {
		if _, exists := byCourse[record.CourseID]; !exists {
			byCourse[record.CourseID] = record.Components
		}
	}

	rows := make([]CourseResult, 0, len(courses))
	graded := make(map[string]struct{}, len(courses))
	for _, course := range courses {
		components, ok := byCourse[course.ID]
		if !ok {
			continue
		}
		if _, seen := graded[course.ID]; seen {
			continue
		}
		graded[course.ID] = struct{}{}

		total := components.Total()
		grade, gpa := GradeFor(total)
		rows = append(rows, CourseResult{
			CourseID:      course.ID,
			CourseCode:    course.Code,
			CourseName:    course.Name,
			Credits:       course.Credits,
			ObtainedMarks: total,
			Grade:         grade,
			GPA:           gpa,
		})
	}

	return Report{
		Courses:   rows,
		Aggregate: Aggregate(rows),
	}
}
