package service

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/backend"
	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/session"
)

// ErrEmptyAnnouncement indicates nothing was left of the content after sanitising.
var ErrEmptyAnnouncement = errors.New("announcement content empty after sanitization")

// AnnouncementBackend is the backend surface used for announcements.
type AnnouncementBackend interface {
	ListAnnouncements(ctx context.Context, token string) ([]backend.Announcement, error)
	PostAnnouncement(ctx context.Context, token string, req backend.AnnouncementRequest) (backend.Announcement, error)
	DeleteAnnouncement(ctx context.Context, token, announcementID string) error
}

// AnnouncementService exposes announcement operations.
type AnnouncementService interface {
	List(ctx context.Context, sess session.Session) (dto.AnnouncementListResponse, error)
	Post(ctx context.Context, sess session.Session, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error)
	Delete(ctx context.Context, sess session.Session, announcementID string) (dto.ChangeResult[dto.AnnouncementResponse], error)
}

type announcementService struct {
	backend   AnnouncementBackend
	validator *validator.Validate
	activity  ActivityRecorder
	events    events.Publisher
	policy    *bluemonday.Policy
	logger    zerolog.Logger
}

// NewAnnouncementService constructs the announcement service.
func NewAnnouncementService(api AnnouncementBackend, validate *validator.Validate, activity ActivityRecorder, publisher events.Publisher, logger zerolog.Logger) AnnouncementService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	policy := bluemonday.UGCPolicy()
	policy.AllowElements("p", "strong", "em", "a", "ul", "ol", "li", "br")
	policy.AllowAttrs("href", "title", "target").OnElements("a")
	return &announcementService{
		backend:   api,
		validator: validate,
		activity:  activity,
		events:    publisher,
		policy:    policy,
		logger:    logger.With().Str("component", "announcement_service").Logger(),
	}
}

func (s *announcementService) List(ctx context.Context, sess session.Session) (dto.AnnouncementListResponse, error) {
	items, err := s.backend.ListAnnouncements(ctx, sess.Token)
	if err != nil {
		return dto.AnnouncementListResponse{}, err
	}

	return dto.AnnouncementListResponse{Items: s.toResponses(items)}, nil
}

func (s *announcementService) Post(ctx context.Context, sess session.Session, payload dto.AnnouncementCreateRequest) (dto.AnnouncementResponse, error) {
	if !sess.HasRole(session.RoleTeacher, session.RoleAdmin) {
		return dto.AnnouncementResponse{}, ErrForbidden
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.AnnouncementResponse{}, err
	}

	content := strings.TrimSpace(s.policy.Sanitize(payload.Content))
	if content == "" {
		return dto.AnnouncementResponse{}, ErrEmptyAnnouncement
	}

	created, err := s.backend.PostAnnouncement(ctx, sess.Token, backend.AnnouncementRequest{
		Title:   strings.TrimSpace(payload.Title),
		Content: content,
	})
	if err != nil {
		return dto.AnnouncementResponse{}, err
	}

	response := s.toResponse(created)
	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      sess,
		Action:     events.TypeAnnouncementPosted,
		EntityType: "announcement",
		EntityID:   response.ID,
		Metadata:   map[string]interface{}{"title": response.Title},
	})
	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeAnnouncementPosted, sess.UserID, response.ID, map[string]interface{}{"title": response.Title}))

	return response, nil
}

// Delete removes an announcement optimistically. Teachers may only delete
// their own announcements.
func (s *announcementService) Delete(ctx context.Context, sess session.Session, announcementID string) (dto.ChangeResult[dto.AnnouncementResponse], error) {
	if !sess.HasRole(session.RoleTeacher, session.RoleAdmin) {
		return dto.ChangeResult[dto.AnnouncementResponse]{}, ErrForbidden
	}

	items, err := s.backend.ListAnnouncements(ctx, sess.Token)
	if err != nil {
		return dto.ChangeResult[dto.AnnouncementResponse]{}, err
	}
	responses := s.toResponses(items)

	if sess.Role == session.RoleTeacher {
		for _, item := range responses {
			if item.ID == announcementID && item.AuthorID != "" && item.AuthorID != sess.UserID {
				return dto.ChangeResult[dto.AnnouncementResponse]{}, ErrForbidden
			}
		}
	}

	result, err := optimisticRemove(ctx, "announcement", responses, func(a dto.AnnouncementResponse) string { return a.ID }, announcementID, ErrAnnouncementNotFound, func(ctx context.Context) error {
		return s.backend.DeleteAnnouncement(ctx, sess.Token, announcementID)
	})
	if result.State == "" {
		return result, err
	}

	recordActivity(ctx, s.activity, s.logger, ActivityEntry{
		Actor:      sess,
		Action:     events.TypeAnnouncementDeleted,
		EntityType: "announcement",
		EntityID:   announcementID,
		Outcome:    activityOutcome(result.State),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("announcement_id", announcementID).Msg("announcement deletion reverted")
		return result, err
	}

	publishEvent(ctx, s.events, s.logger, events.NewEvent(events.TypeAnnouncementDeleted, sess.UserID, announcementID, nil))
	return result, nil
}

func (s *announcementService) toResponses(items []backend.Announcement) []dto.AnnouncementResponse {
	responses := make([]dto.AnnouncementResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, s.toResponse(item))
	}
	sort.SliceStable(responses, func(i, j int) bool {
		return responses[i].CreatedAt.After(responses[j].CreatedAt)
	})
	return responses
}

func (s *announcementService) toResponse(item backend.Announcement) dto.AnnouncementResponse {
	return dto.AnnouncementResponse{
		ID:        item.ID.String(),
		Title:     strings.TrimSpace(item.Title),
		Content:   s.policy.Sanitize(item.Content),
		AuthorID:  item.AuthorID.String(),
		CreatedAt: item.CreatedAt,
	}
}
