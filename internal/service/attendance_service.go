package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/session"
)

// AttendanceBackend is the backend surface used to record attendance.
type AttendanceBackend interface {
	CourseLister
	MarkAttendance(ctx context.Context, token string, sheet backend.AttendanceSheet) error
}

// AttendanceService records course attendance.
type AttendanceService interface {
	Mark(ctx context.Context, sess session.Session, payload dto.AttendanceRequest) (dto.AttendanceResponse, error)
}

type attendanceService struct {
	backend   AttendanceBackend
	validator *validator.Validate
	activity  ActivityRecorder
	events    events.Publisher
	logger    zerolog.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(api AttendanceBackend, validate *validator.Validate, activity ActivityRecorder, publisher events.Publisher, logger zerolog.Logger) AttendanceService {
	return &attendanceService{
		backend:   api,
		validator: validate,
		activity:  activity,
		events:    publisher,
		logger:    logger.With().Str("component", "attendance_service").Logger(),
	}
}

// Mark forwards the attendance sheet. Teachers may only mark courses they
// are assigned to; administrators may mark any course.
func (s *attendanceService) Mark(ctx context.Context, sess session.Session, payload dto.AttendanceRequest) (dto.AttendanceResponse, error) {
	if !sess.HasRole(session.RoleTeacher, session.RoleAdmin) {
		return dto.AttendanceResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AttendanceResponse{}, err
	}

	courseID := strings.TrimSpace(payload.CourseID)
	if sess.Role == session.RoleTeacher {
		if err := ensureCoursesAssigned(ctx, s.backend, sess, courseID); err != nil {
			return dto.AttendanceResponse{}, err
		}
	}

	sheet := backend.AttendanceSheet{
		CourseID: courseID,
		Date:     payload.Date,
		Entries:  make([]backend.AttendanceEntry, 0, len(payload.Entries)),
	}
	response := dto.AttendanceResponse{CourseID: courseID, Date: payload.Date}
	seen := make(map[string]struct{}, len(payload.Entries))
	for _, entry := range payload.Entries {
		studentID := strings.TrimSpace(entry.StudentID)
		if _, ok := seen[studentID]; ok {
			return dto.AttendanceResponse{}, fmt.Errorf("%w: %s", ErrDuplicateAttendance, studentID)
		}
		seen[studentID] = struct{}{}

		sheet.Entries = append(sheet.Entries, backend.AttendanceEntry{StudentID: studentID, Present: entry.Present})
		if entry.Present {
			response.Present++
		} else {
			response.Absent++
		}
	}

	if err := s.backend.MarkAttendance(ctx, sess.Token, sheet); err != nil {
		return dto.AttendanceResponse{}, err
	}

	metadata := map[string]interface{}{
		"date":    payload.Date,
		"present": response.Present,
		"absent":  response.Absent,
	}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      sess,
		Action:     events.TypeAttendanceMarked,
		EntityType: "course",
		EntityID:   courseID,
		Metadata:   metadata,
	})
	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeAttendanceMarked, sess.UserID, courseID, metadata))

	return response, nil
}

// CourseLister lists courses visible to a session.
type CourseLister interface {
	ListCourses(ctx context.Context, token string, filter backend.CourseFilter) ([]backend.Course, error)
}

func ensureCoursesAssigned(ctx context.Context, lister CourseLister, sess session.Session, courseIDs ...string) error {
	courses, err := lister.ListCourses(ctx, sess.Token, backend.CourseFilter{TeacherID: sess.UserID})
	if err != nil {
		return err
	}
	assigned := make(map[string]struct{}, len(courses))
	for _, course := range courses {
		assigned[course.ID.String()] = struct{}{}
	}
	for _, id := range courseIDs {
		if _, ok := assigned[id]; !ok {
			return fmt.Errorf("%w: %s", ErrCourseNotAssigned, id)
		}
	}
	return nil
}
