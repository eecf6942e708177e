package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/observability"
	"github.com/noah-isme/campus-portal/internal/session"
)

const adminDashboardCacheKey = "dashboard:admin"

// DashboardBackend is the backend surface the dashboard summarises.
type DashboardBackend interface {
	CourseLister
	ListStudents(ctx context.Context, token string) ([]backend.Student, error)
	ListTeachers(ctx context.Context, token string) ([]backend.Teacher, error)
	ListBatches(ctx context.Context, token string) ([]backend.Batch, error)
	ListAnnouncements(ctx context.Context, token string) ([]backend.Announcement, error)
}

// DashboardService builds the role specific dashboard.
type DashboardService interface {
	Summary(ctx context.Context, sess session.Session) (dto.DashboardResponse, error)
}

type dashboardService struct {
	backend  DashboardBackend
	results  ResultService
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewDashboardService constructs the dashboard service. A nil cache disables
// caching of the admin counts.
func NewDashboardService(api DashboardBackend, results ResultService, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		backend:  api,
		results:  results,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Summary(ctx context.Context, sess session.Session) (dto.DashboardResponse, error) {
	switch sess.Role {
	case session.RoleAdmin:
		return s.adminSummary(ctx, sess)
	case session.RoleTeacher:
		return s.teacherSummary(ctx, sess)
	case session.RoleStudent:
		return s.studentSummary(ctx, sess)
	default:
		return dto.DashboardResponse{}, ErrForbidden
	}
}

func (s *dashboardService) adminSummary(ctx context.Context, sess session.Session) (dto.DashboardResponse, error) {
	tracer := otel.Tracer("github.com/noah-isme/campus-portal/internal/service/dashboard")
	ctx, span := tracer.Start(ctx, "dashboard.admin")
	span.SetAttributes(attribute.String("dashboard.cache_key", adminDashboardCacheKey))
	defer span.End()

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, adminDashboardCacheKey).Result()
		if err == nil {
			var summary dto.AdminSummary
			if unmarshalErr := json.Unmarshal([]byte(cached), &summary); unmarshalErr == nil {
				observability.DashboardCache().WithLabelValues("hit").Inc()
				span.SetAttributes(attribute.Bool("dashboard.cache_hit", true))
				return dto.DashboardResponse{Role: session.RoleAdmin, Admin: &summary, Cached: true}, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
			span.RecordError(err)
		}
		observability.DashboardCache().WithLabelValues("miss").Inc()
	}

	var summary dto.AdminSummary
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		students, err := s.backend.ListStudents(groupCtx, sess.Token)
		summary.Students = len(students)
		return err
	})
	group.Go(func() error {
		teachers, err := s.backend.ListTeachers(groupCtx, sess.Token)
		summary.Teachers = len(teachers)
		return err
	})
	group.Go(func() error {
		courses, err := s.backend.ListCourses(groupCtx, sess.Token, backend.CourseFilter{})
		summary.Courses = len(courses)
		return err
	})
	group.Go(func() error {
		batches, err := s.backend.ListBatches(groupCtx, sess.Token)
		summary.Batches = len(batches)
		return err
	})
	group.Go(func() error {
		announcements, err := s.backend.ListAnnouncements(groupCtx, sess.Token)
		summary.Announcements = len(announcements)
		return err
	})
	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch_failed")
		return dto.DashboardResponse{}, err
	}

	if s.cache != nil {
		payload, err := json.Marshal(summary)
		if err == nil {
			if err := s.cache.Set(ctx, adminDashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
				span.RecordError(err)
			}
		}
	}

	return dto.DashboardResponse{Role: session.RoleAdmin, Admin: &summary}, nil
}

func (s *dashboardService) teacherSummary(ctx context.Context, sess session.Session) (dto.DashboardResponse, error) {
	courses, err := s.backend.ListCourses(ctx, sess.Token, backend.CourseFilter{TeacherID: sess.UserID})
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	summary := dto.TeacherSummary{Courses: len(courses), CourseCodes: make([]string, 0, len(courses))}
	for _, course := range courses {
		summary.TotalCredits += course.Credits.Int()
		summary.CourseCodes = append(summary.CourseCodes, course.CourseNo)
	}
	sort.Strings(summary.CourseCodes)

	return dto.DashboardResponse{Role: session.RoleTeacher, Teacher: &summary}, nil
}

// studentSummary always recomputes results so a new mark upload shows at once.
func (s *dashboardService) studentSummary(ctx context.Context, sess session.Session) (dto.DashboardResponse, error) {
	results, err := s.results.StudentResults(ctx, sess, sess.UserID)
	if err != nil {
		return dto.DashboardResponse{}, err
	}

	return dto.DashboardResponse{
		Role: session.RoleStudent,
		Student: &dto.StudentSummary{
			CGPA:          results.Aggregate.CGPA,
			TotalCredits:  results.Aggregate.TotalCredits,
			GradedCourses: len(results.Courses),
		},
	}, nil
}
