package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// CountCacheInvalidator сбрасывает кешированный счётчик лайков объекта.
type CountCacheInvalidator interface {
	Invalidate(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) error
}

// OnLikeChangedHandler инвалидирует счётчик лайков при добавлении или
// удалении лайка. Счётчик пересчитается из основного хранилища при
// следующем чтении, поэтому кеш никогда не расходится надолго.
type OnLikeChangedHandler struct {
	countCache CountCacheInvalidator
	logger     *slog.Logger
}

// NewOnLikeChangedHandler создаёт новый обработчик событий лайков.
func NewOnLikeChangedHandler(countCache CountCacheInvalidator, logger *slog.Logger) *OnLikeChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnLikeChangedHandler{
		countCache: countCache,
		logger:     logger.With("handler", "on_like_changed"),
	}
}

// Name реализует интерфейс shared.EventHandler.
func (h *OnLikeChangedHandler) Name() string {
	return "on_like_changed"
}

// Handle реализует интерфейс shared.EventHandler.
func (h *OnLikeChangedHandler) Handle(ctx context.Context, event shared.Event) error {
	objectID, err := idFromPayload(event, "object_id")
	if err != nil {
		h.logger.Warn("like event without object_id",
			"event_type", event.EventType(),
			"error", err,
		)
		return nil
	}

	rawType, _ := event.Payload()["object_type"].(string)
	objectType, err := engagement.ParseObjectType(rawType)
	if err != nil {
		h.logger.Warn("like event with unknown object_type",
			"event_type", event.EventType(),
			"object_type", rawType,
		)
		return nil
	}

	if err := h.countCache.Invalidate(ctx, objectID, objectType); err != nil {
		return fmt.Errorf("invalidate like count: %w", err)
	}

	h.logger.Debug("like count cache invalidated",
		"event_type", event.EventType(),
		"object_id", objectID,
		"object_type", objectType,
	)
	return nil
}
