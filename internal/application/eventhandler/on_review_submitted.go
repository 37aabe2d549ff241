// Package eventhandler содержит обработчики доменных событий.
// Обработчики связывают части системы через асинхронные события:
// запись произошла, подписчики инвалидируют кеши и пересчитывают
// производные данные. Ошибки обработчиков логируются шиной и не
// влияют на исходную операцию записи.
package eventhandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// StatsCacheInvalidator инвалидирует кешированную агрегированную
// статистику отзывов курса.
type StatsCacheInvalidator interface {
	Invalidate(ctx context.Context, courseID shared.ID) error
}

// OnReviewChangedHandler сбрасывает кеш статистики отзывов при
// добавлении, обновлении или удалении отзыва. Следующее чтение
// пересчитает среднее и количество из основного хранилища.
type OnReviewChangedHandler struct {
	statsCache StatsCacheInvalidator
	logger     *slog.Logger
}

// NewOnReviewChangedHandler создаёт новый обработчик событий отзывов.
func NewOnReviewChangedHandler(statsCache StatsCacheInvalidator, logger *slog.Logger) *OnReviewChangedHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &OnReviewChangedHandler{
		statsCache: statsCache,
		logger:     logger.With("handler", "on_review_changed"),
	}
}

// Name реализует интерфейс shared.EventHandler.
func (h *OnReviewChangedHandler) Name() string {
	return "on_review_changed"
}

// Handle реализует интерфейс shared.EventHandler.
// Работает через Payload, потому что событие могло прийти с другого
// инстанса и утратить конкретный тип.
func (h *OnReviewChangedHandler) Handle(ctx context.Context, event shared.Event) error {
	courseID, err := idFromPayload(event, "course_id")
	if err != nil {
		h.logger.Warn("review event without course_id",
			"event_type", event.EventType(),
			"error", err,
		)
		return nil
	}

	if err := h.statsCache.Invalidate(ctx, courseID); err != nil {
		return fmt.Errorf("invalidate review stats: %w", err)
	}

	h.logger.Debug("review stats cache invalidated",
		"event_type", event.EventType(),
		"course_id", courseID,
	)
	return nil
}

// idFromPayload извлекает shared.ID из payload события.
func idFromPayload(event shared.Event, key string) (shared.ID, error) {
	raw, ok := event.Payload()[key]
	if !ok {
		return "", fmt.Errorf("payload has no %q", key)
	}

	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("payload %q is not a string", key)
	}

	id, err := shared.ParseID(s)
	if err != nil {
		return "", fmt.Errorf("payload %q: %w", key, err)
	}
	return id, nil
}
