package service

import (
	"context"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/session"
)

// StudentBackend is the backend surface used for student administration.
type StudentBackend interface {
	ListStudents(ctx context.Context, token string) ([]backend.Student, error)
	CreateStudent(ctx context.Context, token string, req backend.CreateStudentRequest) (backend.Student, error)
}

// StudentService manages student records.
type StudentService interface {
	List(ctx context.Context, sess session.Session) ([]dto.StudentResponse, error)
	Create(ctx context.Context, sess session.Session, payload dto.StudentCreateRequest) (dto.StudentResponse, error)
}

type studentService struct {
	backend   StudentBackend
	validator *validator.Validate
	activity  ActivityRecorder
	events    events.Publisher
	logger    zerolog.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(api StudentBackend, validate *validator.Validate, activity ActivityRecorder, publisher events.Publisher, logger zerolog.Logger) StudentService {
	return &studentService{
		backend:   api,
		validator: validate,
		activity:  activity,
		events:    publisher,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) List(ctx context.Context, sess session.Session) ([]dto.StudentResponse, error) {
	if !sess.HasRole(session.RoleTeacher, session.RoleAdmin) {
		return nil, ErrForbidden
	}

	students, err := s.backend.ListStudents(ctx, sess.Token)
	if err != nil {
		return nil, err
	}

	out := make([]dto.StudentResponse, 0, len(students))
	for _, student := range students {
		out = append(out, toStudentResponse(student))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RollNo < out[j].RollNo })
	return out, nil
}

func (s *studentService) Create(ctx context.Context, sess session.Session, payload dto.StudentCreateRequest) (dto.StudentResponse, error) {
	if !sess.HasRole(session.RoleAdmin) {
		return dto.StudentResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	created, err := s.backend.CreateStudent(ctx, sess.Token, backend.CreateStudentRequest{
		Name:       strings.TrimSpace(payload.Name),
		Email:      strings.ToLower(strings.TrimSpace(payload.Email)),
		RollNo:     strings.ToUpper(strings.TrimSpace(payload.RollNo)),
		BatchID:    strings.TrimSpace(payload.BatchID),
		Department: strings.TrimSpace(payload.Department),
		Password:   payload.Password,
	})
	if err != nil {
		return dto.StudentResponse{}, err
	}

	response := toStudentResponse(created)
	metadata := map[string]interface{}{"roll_no": response.RollNo, "batch_id": response.BatchID, "email": response.Email}
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      sess,
		Action:     events.TypeStudentCreated,
		EntityType: "student",
		EntityID:   response.ID,
		Metadata:   metadata,
	})
	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeStudentCreated, sess.UserID, response.ID, metadata))

	return response, nil
}

func toStudentResponse(student backend.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:         student.ID.String(),
		Name:       strings.TrimSpace(student.Name),
		Email:      student.Email,
		RollNo:     student.RollNo,
		BatchID:    student.BatchID.String(),
		Department: student.Department,
	}
}
