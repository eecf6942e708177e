package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/session"
)

// TeacherBackend is the backend surface used for teacher administration.
type TeacherBackend interface {
	ListTeachers(ctx context.Context, token string) ([]backend.Teacher, error)
	DeleteTeacher(ctx context.Context, token, teacherID string) error
	AssignTeacher(ctx context.Context, token, courseID, teacherID string) error
}

// TeacherService manages the teacher roster.
type TeacherService interface {
	List(ctx context.Context, sess session.Session) ([]dto.TeacherResponse, error)
	Delete(ctx context.Context, sess session.Session, teacherID string) (dto.ChangeResult[dto.TeacherResponse], error)
	Assign(ctx context.Context, sess session.Session, courseID string, payload dto.AssignTeacherRequest) error
}

type teacherService struct {
	backend   TeacherBackend
	validator *validator.Validate
	activity  ActivityRecorder
	events    events.Publisher
	logger    zerolog.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(api TeacherBackend, validate *validator.Validate, activity ActivityRecorder, publisher events.Publisher, logger zerolog.Logger) TeacherService {
	return &teacherService{
		backend:   api,
		validator: validate,
		activity:  activity,
		events:    publisher,
		logger:    logger.With().Str("component", "teacher_service").Logger(),
	}
}

func (s *teacherService) List(ctx context.Context, sess session.Session) ([]dto.TeacherResponse, error) {
	if !sess.HasRole(session.RoleAdmin) {
		return nil, ErrForbidden
	}

	teachers, err := s.backend.ListTeachers(ctx, sess.Token)
	if err != nil {
		return nil, err
	}
	return toTeacherResponses(teachers), nil
}

// Delete removes a teacher optimistically and reports how the change settled.
func (s *teacherService) Delete(ctx context.Context, sess session.Session, teacherID string) (dto.ChangeResult[dto.TeacherResponse], error) {
	if !sess.HasRole(session.RoleAdmin) {
		return dto.ChangeResult[dto.TeacherResponse]{}, ErrForbidden
	}

	teachers, err := s.backend.ListTeachers(ctx, sess.Token)
	if err != nil {
		return dto.ChangeResult[dto.TeacherResponse]{}, err
	}

	result, err := optimisticRemove(ctx, "teacher", toTeacherResponses(teachers), func(t dto.TeacherResponse) string { return t.ID }, teacherID, ErrTeacherNotFound, func(ctx context.Context) error {
		return s.backend.DeleteTeacher(ctx, sess.Token, teacherID)
	})
	if result.State == "" {
		return result, err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      sess,
		Action:     events.TypeTeacherDeleted,
		EntityType: "teacher",
		EntityID:   teacherID,
		Outcome:    activityOutcome(result.State),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("teacher_id", teacherID).Msg("teacher deletion reverted")
		return result, err
	}

	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeTeacherDeleted, sess.UserID, teacherID, nil))
	return result, nil
}

func (s *teacherService) Assign(ctx context.Context, sess session.Session, courseID string, payload dto.AssignTeacherRequest) error {
	if !sess.HasRole(session.RoleAdmin) {
		return ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	courseID = strings.TrimSpace(courseID)
	teacherID := strings.TrimSpace(payload.TeacherID)
	if err := s.backend.AssignTeacher(ctx, sess.Token, courseID, teacherID); err != nil {
		return err
	}

	metadata := map[string]interface{}{"course_id": courseID, "teacher_id": teacherID}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      sess,
		Action:     events.TypeTeacherAssigned,
		EntityType: "course",
		EntityID:   courseID,
		Metadata:   metadata,
	})
	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeTeacherAssigned, sess.UserID, courseID, metadata))
	return nil
}

func toTeacherResponses(teachers []backend.Teacher) []dto.TeacherResponse {
	out := make([]dto.TeacherResponse, 0, len(teachers))
	for _, teacher := range teachers {
		out = append(out, dto.TeacherResponse{
			ID:         teacher.ID.String(),
			Name:       strings.TrimSpace(teacher.Name),
			Email:      teacher.Email,
			Department: teacher.Department,
		})
	}
	return out
}
