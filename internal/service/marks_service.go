package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/grading"
	"github.com/noah-isme/campus-portal/internal/observability"
	"github.com/noah-isme/campus-portal/internal/session"
)

var marksCSVHeader = []string{"course_id", "student_id", "quiz", "assignment", "mids", "final"}

// MarksBackend is the backend surface used to upload marks.
type MarksBackend interface {
	CourseLister
	SubmitMarks(ctx context.Context, token string, marks []backend.Marks) error
}

// MarksService validates, previews and uploads student marks.
type MarksService interface {
	Preview(payload dto.MarksSubmitRequest) []dto.MarkPreview
	Submit(ctx context.Context, sess session.Session, payload dto.MarksSubmitRequest) (dto.MarksSubmitResponse, error)
	ImportCSV(ctx context.Context, sess session.Session, file *multipart.FileHeader) (dto.MarksSubmitResponse, error)
}

type marksService struct {
	backend   MarksBackend
	validator *validator.Validate
	activity  ActivityRecorder
	events    events.Publisher
	logger    zerolog.Logger
	maxSize   int64
	tracer    trace.Tracer
}

// NewMarksService constructs the marks service.
func NewMarksService(api MarksBackend, validate *validator.Validate, activity ActivityRecorder, publisher events.Publisher, maxSizeMB int, logger zerolog.Logger) MarksService {
	if maxSizeMB <= 0 {
		maxSizeMB = 2
	}
	return &marksService{
		backend:   api,
		validator: validate,
		activity:  activity,
		events:    publisher,
		logger:    logger.With().Str("component", "marks_service").Logger(),
		maxSize:   int64(maxSizeMB) * 1024 * 1024,
		tracer:    otel.Tracer("github.com/noah-isme/campus-portal/internal/service/marks"),
	}
}

// Preview grades each row without contacting the backend.
func (s *marksService) Preview(payload dto.MarksSubmitRequest) []dto.MarkPreview {
	previews := make([]dto.MarkPreview, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		total := toComponents(entry).Total()
		grade, gpa := grading.GradeFor(total)
		previews = append(previews, dto.MarkPreview{
			CourseID:  strings.TrimSpace(entry.CourseID),
			StudentID: strings.TrimSpace(entry.StudentID),
			Total:     total,
			Grade:     grade,
			GPA:       gpa,
		})
	}
	return previews
}

func (s *marksService) Submit(ctx context.Context, sess session.Session, payload dto.MarksSubmitRequest) (dto.MarksSubmitResponse, error) {
	if !sess.HasRole(session.RoleTeacher, session.RoleAdmin) {
		return dto.MarksSubmitResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.MarksSubmitResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "marks.submit", trace.WithAttributes(
		attribute.Int("marks.rows", len(payload.Entries)),
	))
	defer span.End()

	courseIDs := uniqueCourseIDs(payload.Entries)
	if sess.Role == session.RoleTeacher {
		if err := ensureCoursesAssigned(ctx, s.backend, sess, courseIDs...); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "course_not_assigned")
			return dto.MarksSubmitResponse{}, err
		}
	}

	marks := make([]backend.Marks, 0, len(payload.Entries))
	for _, entry := range payload.Entries {
		marks = append(marks, backend.Marks{
			CourseID:        backend.ID(strings.TrimSpace(entry.CourseID)),
			StudentID:       backend.ID(strings.TrimSpace(entry.StudentID)),
			QuizMarks:       entry.QuizMarks,
			AssignmentMarks: entry.AssignmentMarks,
			MidsMarks:       entry.MidsMarks,
			FinalMarks:      entry.FinalMarks,
		})
	}

	if err := s.backend.SubmitMarks(ctx, sess.Token, marks); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "submit_failed")
		return dto.MarksSubmitResponse{}, err
	}

	metadata := map[string]interface{}{"rows": len(marks), "courses": courseIDs}
	for _, courseID := range courseIDs {
		recordActivity(ctx, s.activity, s.logger, ActivityEntry{
			Actor:      sess,
			Action:     events.TypeMarksSubmitted,
			EntityType: "course",
			EntityID:   courseID,
			Metadata:   metadata,
		})
	}
	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeMarksSubmitted, sess.UserID, strings.Join(courseIDs, ","), metadata))

	span.SetStatus(codes.Ok, "submitted")
	return dto.MarksSubmitResponse{
		Submitted: len(marks),
		Previews:  s.Preview(payload),
	}, nil
}

// ImportCSV reads a marks sheet with the header
// course_id,student_id,quiz,assignment,mids,final and submits it.
func (s *marksService) ImportCSV(ctx context.Context, sess session.Session, file *multipart.FileHeader) (dto.MarksSubmitResponse, error) {
	if !sess.HasRole(session.RoleTeacher, session.RoleAdmin) {
		return dto.MarksSubmitResponse{}, ErrForbidden
	}
	if file == nil {
		return dto.MarksSubmitResponse{}, fmt.Errorf("%w: file is required", ErrInvalidMarksFile)
	}
	if file.Size > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return dto.MarksSubmitResponse{}, ErrUploadTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return dto.MarksSubmitResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return dto.MarksSubmitResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return dto.MarksSubmitResponse{}, ErrUploadTooLarge
	}

	detected := mimetype.Detect(buf.Bytes())
	if !detected.Is("text/csv") && !detected.Is("text/plain") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		s.logger.Debug().Str("mime", detected.String()).Msg("marks upload rejected")
		return dto.MarksSubmitResponse{}, ErrUploadTypeNotAllowed
	}

	payload, err := parseMarksCSV(buf)
	if err != nil {
		observability.UploadRejected().WithLabelValues("parse").Inc()
		return dto.MarksSubmitResponse{}, err
	}

	return s.Submit(ctx, sess, payload)
}

func parseMarksCSV(r io.Reader) (dto.MarksSubmitRequest, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = len(marksCSVHeader)

	header, err := reader.Read()
	if err != nil {
		return dto.MarksSubmitRequest{}, fmt.Errorf("%w: %v", ErrInvalidMarksFile, err)
	}
	for i, column := range marksCSVHeader {
		if !strings.EqualFold(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")), column) {
			return dto.MarksSubmitRequest{}, fmt.Errorf("%w: expected column %q at position %d", ErrInvalidMarksFile, column, i+1)
		}
	}

	var payload dto.MarksSubmitRequest
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dto.MarksSubmitRequest{}, fmt.Errorf("%w: %v", ErrInvalidMarksFile, err)
		}

		values := make([]float64, 4)
		for i := range values {
			raw := strings.TrimSpace(record[i+2])
			if raw == "" {
				continue
			}
			values[i], err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return dto.MarksSubmitRequest{}, fmt.Errorf("%w: line %d column %s: %q is not a number", ErrInvalidMarksFile, line, marksCSVHeader[i+2], raw)
			}
		}

		payload.Entries = append(payload.Entries, dto.MarkEntryRequest{
			CourseID:        strings.TrimSpace(record[0]),
			StudentID:       strings.TrimSpace(record[1]),
			QuizMarks:       values[0],
			AssignmentMarks: values[1],
			MidsMarks:       values[2],
			FinalMarks:      values[3],
		})
	}

	if len(payload.Entries) == 0 {
		return dto.MarksSubmitRequest{}, fmt.Errorf("%w: no rows", ErrInvalidMarksFile)
	}
	return payload, nil
}

func toComponents(entry dto.MarkEntryRequest) grading.MarkComponents {
	return grading.MarkComponents{
		Quiz:       entry.QuizMarks,
		Assignment: entry.AssignmentMarks,
		Midterm:    entry.MidsMarks,
		Final:      entry.FinalMarks,
	}
}

func uniqueCourseIDs(entries []dto.MarkEntryRequest) []string {
	seen := make(map[string]struct{}, len(entries))
	out := make([]string, 0, len(entries))
	for _, entry := range entries {
		id := strings.TrimSpace(entry.CourseID)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
