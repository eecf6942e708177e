package service

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/events"
)

// dashboardCountEvents change one of the admin summary counts.
var dashboardCountEvents = map[string]struct{}{
	events.TypeStudentCreated:      {},
	events.TypeTeacherDeleted:      {},
	events.TypeAnnouncementPosted:  {},
	events.TypeAnnouncementDeleted: {},
}

type dashboardCacheInvalidator struct {
	next   events.Publisher
	cache  *redis.Client
	logger zerolog.Logger
}

// NewDashboardCacheInvalidator wraps next so committed mutations that change
// the admin counts drop the cached admin summary before the event is
// forwarded. A nil cache returns next unchanged.
func NewDashboardCacheInvalidator(next events.Publisher, cache *redis.Client, logger zerolog.Logger) events.Publisher {
	if next == nil {
		next = events.Nop{}
	}
	if cache == nil {
		return next
	}
	return &dashboardCacheInvalidator{
		next:   next,
		cache:  cache,
		logger: logger.With().Str("component", "dashboard_cache").Logger(),
	}
}

func (p *dashboardCacheInvalidator) Publish(ctx context.Context, event events.Event) error {
	if _, ok := dashboardCountEvents[event.Type]; ok {
		if err := p.cache.Del(ctx, adminDashboardCacheKey).Err(); err != nil {
			p.logger.Warn().Err(err).Str("type", event.Type).Msg("failed to invalidate dashboard cache")
		}
	}
	return p.next.Publish(ctx, event)
}
