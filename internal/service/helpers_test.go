package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/repository"
	"github.com/noah-isme/campus-portal/internal/session"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

var (
	adminSession   = session.Session{Token: "admin-token", Role: session.RoleAdmin, UserID: "1"}
	teacherSession = session.Session{Token: "teacher-token", Role: session.RoleTeacher, UserID: "7"}
	studentSession = session.Session{Token: "student-token", Role: session.RoleStudent, UserID: "42"}
)

// fakeBackend is an in-memory stand-in for the backend client.
type fakeBackend struct {
	mu sync.Mutex

	login    backend.LoginResult
	loginErr error

	courses        []backend.Course
	teacherCourses map[string][]backend.Course
	coursesErr     error
	marks          []backend.Marks
	marksErr       error
	submitted      [][]backend.Marks
	submitErr      error

	students   []backend.Student
	created    []backend.CreateStudentRequest
	createErr  error
	teachers   []backend.Teacher
	deleteErr  error
	deleted    []string
	assigned   [][2]string
	batches    []backend.Batch
	sheets     []backend.AttendanceSheet
	attendErr  error
	feed       []backend.Announcement
	posted     []backend.AnnouncementRequest
	unpostErr  error
	listCalls  int
	listTokens []string
}

func (f *fakeBackend) track(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.listTokens = append(f.listTokens, token)
}

func (f *fakeBackend) Login(ctx context.Context, req backend.LoginRequest) (backend.LoginResult, error) {
	return f.login, f.loginErr
}

func (f *fakeBackend) ListCourses(ctx context.Context, token string, filter backend.CourseFilter) ([]backend.Course, error) {
	f.track(token)
	if f.coursesErr != nil {
		return nil, f.coursesErr
	}
	if filter.TeacherID != "" {
		return f.teacherCourses[filter.TeacherID], nil
	}
	return f.courses, nil
}

func (f *fakeBackend) AssignTeacher(ctx context.Context, token, courseID, teacherID string) error {
	f.assigned = append(f.assigned, [2]string{courseID, teacherID})
	return nil
}

func (f *fakeBackend) ListMarks(ctx context.Context, token, studentID string) ([]backend.Marks, error) {
	f.track(token)
	return f.marks, f.marksErr
}

func (f *fakeBackend) SubmitMarks(ctx context.Context, token string, marks []backend.Marks) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	f.submitted = append(f.submitted, marks)
	return nil
}

func (f *fakeBackend) ListStudents(ctx context.Context, token string) ([]backend.Student, error) {
	f.track(token)
	return f.students, nil
}

func (f *fakeBackend) CreateStudent(ctx context.Context, token string, req backend.CreateStudentRequest) (backend.Student, error) {
	if f.createErr != nil {
		return backend.Student{}, f.createErr
	}
	f.created = append(f.created, req)
	return backend.Student{
		ID:      backend.ID("100"),
		Name:    req.Name,
		Email:   req.Email,
		RollNo:  req.RollNo,
		BatchID: backend.ID(req.BatchID),
	}, nil
}

func (f *fakeBackend) ListTeachers(ctx context.Context, token string) ([]backend.Teacher, error) {
	f.track(token)
	return f.teachers, nil
}

func (f *fakeBackend) DeleteTeacher(ctx context.Context, token, teacherID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, teacherID)
	return nil
}

func (f *fakeBackend) ListBatches(ctx context.Context, token string) ([]backend.Batch, error) {
	f.track(token)
	return f.batches, nil
}

func (f *fakeBackend) MarkAttendance(ctx context.Context, token string, sheet backend.AttendanceSheet) error {
	if f.attendErr != nil {
		return f.attendErr
	}
	f.sheets = append(f.sheets, sheet)
	return nil
}

func (f *fakeBackend) ListAnnouncements(ctx context.Context, token string) ([]backend.Announcement, error) {
	f.track(token)
	return f.feed, nil
}

func (f *fakeBackend) PostAnnouncement(ctx context.Context, token string, req backend.AnnouncementRequest) (backend.Announcement, error) {
	f.posted = append(f.posted, req)
	return backend.Announcement{
		ID:        backend.ID("9"),
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeBackend) DeleteAnnouncement(ctx context.Context, token, announcementID string) error {
	if f.unpostErr != nil {
		return f.unpostErr
	}
	f.deleted = append(f.deleted, announcementID)
	return nil
}

type memoryActivityRepo struct {
	entries []models.ActivityLog
}

func (m *memoryActivityRepo) Create(ctx context.Context, entry *models.ActivityLog) error {
	entry.ID = uint(len(m.entries) + 1)
	entry.CreatedAt = time.Now()
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memoryActivityRepo) List(ctx context.Context, filter repository.ActivityLogFilter) ([]models.ActivityLog, int64, error) {
	return append([]models.ActivityLog(nil), m.entries...), int64(len(m.entries)), nil
}
