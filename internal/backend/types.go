package backend

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ID is a backend identifier. The backend emits both numeric and string ids,
// so both decode into the same string form.
type ID string

// UnmarshalJSON accepts a JSON string or number.
func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*id = ""
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("invalid id %s: %w", string(trimmed), err)
	}
	canonical, err := canonicalNumber(n)
	if err != nil {
		return fmt.Errorf("invalid id %s: %w", string(trimmed), err)
	}
	*id = ID(canonical)
	return nil
}

// canonicalNumber renders equal numeric ids identically, so 1000, 1000.0 and
// 1e3 all become "1000". Integer literals too large for int64 keep their
// digits.
func canonicalNumber(n json.Number) (string, error) {
	if i, err := n.Int64(); err == nil {
		return strconv.FormatInt(i, 10), nil
	}
	literal := n.String()
	if !strings.ContainsAny(literal, ".eE") {
		if _, err := strconv.ParseFloat(literal, 64); err != nil {
			return "", err
		}
		return strings.TrimPrefix(literal, "+"), nil
	}

	f, err := n.Float64()
	if err != nil {
		return "", err
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return strconv.FormatInt(int64(f), 10), nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Credits is a course credit count. The backend sometimes sends it as a
// float (3.0) or a numeric string; fractional values round to the nearest
// whole credit.
type Credits int

// UnmarshalJSON accepts a JSON number, a numeric string or null.
func (c *Credits) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*c = 0
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		trimmed = []byte(strings.TrimSpace(s))
		if len(trimmed) == 0 {
			*c = 0
			return nil
		}
	}

	f, err := strconv.ParseFloat(string(trimmed), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("invalid credits %s", string(data))
	}
	*c = Credits(math.Round(f))
	return nil
}

// Int returns the credit count as an int.
func (c Credits) Int() int { return int(c) }

func (id ID) String() string { return string(id) }

// LoginRequest carries user credentials to the backend.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is the identity the backend issues on successful login.
type LoginResult struct {
	Token  string `json:"token"`
	Role   string `json:"role"`
	UserID ID     `json:"userId"`
}

// Course is a course record owned by the backend.
type Course struct {
	ID         ID      `json:"id"`
	CourseNo   string  `json:"courseNo"`
	CourseName string  `json:"courseName"`
	Credits    Credits `json:"credits"`
	TeacherID  ID      `json:"teacherId,omitempty"`
}

// CourseFilter narrows course listings.
type CourseFilter struct {
	StudentID string
	TeacherID string
}

// Marks holds the submitted mark components of a student for a course.
type Marks struct {
	CourseID        ID      `json:"courseId"`
	StudentID       ID      `json:"studentId,omitempty"`
	QuizMarks       float64 `json:"quizMarks"`
	AssignmentMarks float64 `json:"assignmentMarks"`
	MidsMarks       float64 `json:"midsMarks"`
	FinalMarks      float64 `json:"finalMarks"`
}

// Student is a student record.
type Student struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	RollNo     string `json:"rollNo"`
	BatchID    ID     `json:"batchId,omitempty"`
	Department string `json:"department,omitempty"`
}

// CreateStudentRequest is the admin create-student form.
type CreateStudentRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	RollNo     string `json:"rollNo"`
	BatchID    string `json:"batchId,omitempty"`
	Department string `json:"department,omitempty"`
	Password   string `json:"password"`
}

// Teacher is a teacher record.
type Teacher struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department,omitempty"`
}

// Batch is an administrative grouping of students.
type Batch struct {
	ID   ID     `json:"id"`
	Name string `json:"name"`
	Year int    `json:"year"`
}

// Announcement is a notice posted by staff.
type Announcement struct {
	ID        ID        `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	AuthorID  ID        `json:"authorId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// AnnouncementRequest is the payload for posting an announcement.
type AnnouncementRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// AttendanceEntry records presence for one student.
type AttendanceEntry struct {
	StudentID string `json:"studentId"`
	Present   bool   `json:"present"`
}

// AttendanceSheet is the attendance of a course session.
type AttendanceSheet struct {
	CourseID string            `json:"courseId"`
	Date     string            `json:"date"`
	Entries  []AttendanceEntry `json:"entries"`
}
