package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/grading"
	"github.com/noah-isme/campus-portal/internal/observability"
	"github.com/noah-isme/campus-portal/internal/session"
)

// ResultSource provides the course and mark records results are built from.
type ResultSource interface {
	ListCourses(ctx context.Context, token string, filter backend.CourseFilter) ([]backend.Course, error)
	ListMarks(ctx context.Context, token, studentID string) ([]backend.Marks, error)
}

// ResultService computes student result sheets.
type ResultService interface {
	StudentResults(ctx context.Context, sess session.Session, studentID string) (dto.StudentResultResponse, error)
}

type resultService struct {
	source ResultSource
	logger zerolog.Logger
	tracer trace.Tracer
}

// NewResultService constructs the result service.
func NewResultService(source ResultSource, logger zerolog.Logger) ResultService {
	return &resultService{
		source: source,
		logger: logger.With().Str("component", "result_service").Logger(),
		tracer: otel.Tracer("github.com/noah-isme/campus-portal/internal/service/result"),
	}
}

// StudentResults fetches the student's courses and marks concurrently and
// grades them. Students may only read their own sheet. Nothing is cached.
func (s *resultService) StudentResults(ctx context.Context, sess session.Session, studentID string) (dto.StudentResultResponse, error) {
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		studentID = sess.UserID
	}
	if sess.Role == session.RoleStudent && studentID != sess.UserID {
		return dto.StudentResultResponse{}, ErrForbidden
	}

	ctx, span := s.tracer.Start(ctx, "results.compute", trace.WithAttributes(
		attribute.String("results.student_id", studentID),
		attribute.String("results.viewer_role", sess.Role),
	))
	defer span.End()

	var courses []backend.Course
	var marks []backend.Marks

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		courses, err = s.source.ListCourses(groupCtx, sess.Token, backend.CourseFilter{StudentID: studentID})
		if err != nil {
			return fmt.Errorf("load courses: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		marks, err = s.source.ListMarks(groupCtx, sess.Token, studentID)
		if err != nil {
			return fmt.Errorf("load marks: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_failed")
		return dto.StudentResultResponse{}, err
	}

	report := grading.BuildResults(toGradingCourses(courses), toMarkRecords(studentID, marks))

	graded := strconv.FormatBool(len(report.Courses) > 0)
	observability.ResultsComputed().WithLabelValues(graded).Inc()
	span.SetAttributes(
		attribute.Int("results.graded_courses", len(report.Courses)),
		attribute.Int("results.total_credits", report.Aggregate.TotalCredits),
	)

	s.logger.Debug().
		Str("student_id", studentID).
		Int("courses", len(courses)).
		Int("graded", len(report.Courses)).
		Msg("results computed")

	return dto.StudentResultResponse{
		StudentID:   studentID,
		Courses:     report.Courses,
		Aggregate:   report.Aggregate,
		CGPADisplay: strconv.FormatFloat(report.Aggregate.CGPA, 'f', 2, 64),
	}, nil
}

func toGradingCourses(courses []backend.Course) []grading.Course {
	out := make([]grading.Course, 0, len(courses))
	for _, course := range courses {
		out = append(out, grading.Course{
			ID:      course.ID.String(),
			Code:    course.CourseNo,
			Name:    course.CourseName,
			Credits: course.Credits.Int(),
		})
	}
	return out
}

// toMarkRecords drops records that belong to another student when the
// backend tags them.
func toMarkRecords(studentID string, marks []backend.Marks) []grading.MarkRecord {
	out := make([]grading.MarkRecord, 0, len(marks))
	for _, m := range marks {
		if m.StudentID != "" && m.StudentID.String() != studentID {
			continue
		}
		out = append(out, grading.MarkRecord{
			CourseID: m.CourseID.String(),
			Components: grading.MarkComponents{
				Quiz:       m.QuizMarks,
				Assignment: m.AssignmentMarks,
				Midterm:    m.MidsMarks,
				Final:      m.FinalMarks,
			},
		})
	}
	return out
}
