package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/noah-isme/campus-portal/internal/dto"
	"github.com/noah-isme/campus-portal/internal/events"
	"github.com/noah-isme/campus-portal/internal/models"
	"github.com/noah-isme/campus-portal/internal/observability"
	"github.com/noah-isme/campus-portal/internal/optimistic"
)

// optimisticRemove hides id from items, runs op and settles the change. The
// returned result always reflects the list after settling, including when op
// failed and the item was restored.
func optimisticRemove[T any](ctx context.Context, entity string, items []T, keyOf func(T) string, id string, notFound error, op func(context.Context) error) (dto.ChangeResult[T], error) {
	tracker := optimistic.NewTracker(items, keyOf)
	if err := tracker.Remove(id); err != nil {
		if errors.Is(err, optimistic.ErrUnknownItem) {
			return dto.ChangeResult[T]{}, notFound
		}
		return dto.ChangeResult[T]{}, err
	}

	state, err := tracker.Apply(ctx, id, op)
	if state != "" {
		observability.OptimisticOutcomes().WithLabelValues(entity, string(state)).Inc()
	}

	result := dto.ChangeResult[T]{
		ID:    id,
		State: string(state),
		Items: tracker.Visible(),
	}
	return result, err
}

func activityOutcome(state string) string {
	if state == string(optimistic.StateReverted) {
		return models.ActivityOutcomeReverted
	}
	return models.ActivityOutcomeCommitted
}

func publishEvent(ctx context.Context, publisher events.Publisher, logger zerolog.Logger, event events.Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("type", event.Type).Msg("failed to publish event")
	}
}
