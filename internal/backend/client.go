package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/noah-isme/campus-portal/internal/middleware"
	"github.com/noah-isme/campus-portal/internal/observability"
)

const maxErrorBody = 4096

// Config configures the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is a typed client for the portal backend REST API.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  zerolog.Logger
}

// New constructs a backend client.
func New(cfg Config, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("backend base url must not be empty")
	}

	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("backend base url must be absolute")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger: logger.With().Str("component", "backend_client").Logger(),
	}, nil
}

// Login exchanges credentials for a backend-issued session.
func (c *Client) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	var result LoginResult
	err := c.do(ctx, "auth.login", http.MethodPost, "/auth/login", "", nil, req, &result)
	return result, err
}

// ListCourses returns the courses visible to the token holder.
func (c *Client) ListCourses(ctx context.Context, token string, filter CourseFilter) ([]Course, error) {
	query := url.Values{}
	if filter.StudentID != "" {
		query.Set("studentId", filter.StudentID)
	}
	if filter.TeacherID != "" {
		query.Set("teacherId", filter.TeacherID)
	}

	var courses []Course
	err := c.do(ctx, "courses.list", http.MethodGet, "/courses", token, query, nil, &courses)
	return courses, err
}

// AssignTeacher assigns a teacher to a course.
func (c *Client) AssignTeacher(ctx context.Context, token, courseID, teacherID string) error {
	body := map[string]string{"teacherId": teacherID}
	return c.do(ctx, "courses.assign_teacher", http.MethodPost, "/courses/"+courseID+"/teacher", token, nil, body, nil)
}

// ListMarks returns the mark records of a student.
func (c *Client) ListMarks(ctx context.Context, token, studentID string) ([]Marks, error) {
	query := url.Values{}
	query.Set("studentId", studentID)

	var marks []Marks
	err := c.do(ctx, "marks.list", http.MethodGet, "/marks", token, query, nil, &marks)
	return marks, err
}

// SubmitMarks uploads mark records.
func (c *Client) SubmitMarks(ctx context.Context, token string, marks []Marks) error {
	return c.do(ctx, "marks.submit", http.MethodPost, "/marks", token, nil, marks, nil)
}

// ListStudents returns all students.
func (c *Client) ListStudents(ctx context.Context, token string) ([]Student, error) {
	var students []Student
	err := c.do(ctx, "students.list", http.MethodGet, "/students", token, nil, nil, &students)
	return students, err
}

// CreateStudent registers a new student.
func (c *Client) CreateStudent(ctx context.Context, token string, req CreateStudentRequest) (Student, error) {
	var student Student
	err := c.do(ctx, "students.create", http.MethodPost, "/students", token, nil, req, &student)
	return student, err
}

// ListTeachers returns all teachers.
func (c *Client) ListTeachers(ctx context.Context, token string) ([]Teacher, error) {
	var teachers []Teacher
	err := c.do(ctx, "teachers.list", http.MethodGet, "/teachers", token, nil, nil, &teachers)
	return teachers, err
}

// DeleteTeacher removes a teacher.
func (c *Client) DeleteTeacher(ctx context.Context, token, teacherID string) error {
	return c.do(ctx, "teachers.delete", http.MethodDelete, "/teachers/"+teacherID, token, nil, nil, nil)
}

// ListBatches returns all student batches.
func (c *Client) ListBatches(ctx context.Context, token string) ([]Batch, error) {
	var batches []Batch
	err := c.do(ctx, "batches.list", http.MethodGet, "/batches", token, nil, nil, &batches)
	return batches, err
}

// MarkAttendance records attendance for a course session.
func (c *Client) MarkAttendance(ctx context.Context, token string, sheet AttendanceSheet) error {
	return c.do(ctx, "attendance.mark", http.MethodPost, "/attendance", token, nil, sheet, nil)
}

// ListAnnouncements returns all announcements.
func (c *Client) ListAnnouncements(ctx context.Context, token string) ([]Announcement, error) {
	var announcements []Announcement
	err := c.do(ctx, "announcements.list", http.MethodGet, "/announcements", token, nil, nil, &announcements)
	return announcements, err
}

// PostAnnouncement publishes an announcement.
func (c *Client) PostAnnouncement(ctx context.Context, token string, req AnnouncementRequest) (Announcement, error) {
	var announcement Announcement
	err := c.do(ctx, "announcements.create", http.MethodPost, "/announcements", token, nil, req, &announcement)
	return announcement, err
}

// DeleteAnnouncement removes an announcement.
func (c *Client) DeleteAnnouncement(ctx context.Context, token, announcementID string) error {
	return c.do(ctx, "announcements.delete", http.MethodDelete, "/announcements/"+announcementID, token, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, operation, method, path, token string, query url.Values, body, out interface{}) (err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			outcome = outcomeLabel(err)
		}
		observability.BackendRequests().WithLabelValues(operation, outcome).Inc()
		observability.BackendLatency().WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}()

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			return fmt.Errorf("encode %s request: %w", operation, marshalErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if correlationID := middleware.CorrelationIDFromContext(ctx); correlationID != "" {
		req.Header.Set(middleware.HeaderCorrelationID, correlationID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("operation", operation).Msg("backend request failed")
		return fmt.Errorf("%s: %w", operation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: errorMessage(resp.Body)}
		c.logger.Debug().
			Str("operation", operation).
			Int("status", resp.StatusCode).
			Str("correlation_id", middleware.CorrelationIDFromContext(ctx)).
			Msg("backend returned error status")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func errorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(raw))
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case IsClientError(err):
		return "client_error"
	default:
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return "server_error"
		}
		return "transport_error"
	}
}
