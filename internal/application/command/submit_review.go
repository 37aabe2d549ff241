package command

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBMIT REVIEW COMMAND
// Не более одного отзыва на пару (user, course): повторная отправка
// обновляет существующий отзыв на месте. Гонку двух одновременных отправок
// разрешает уникальный констрейнт в базе.
// ══════════════════════════════════════════════════════════════════════════════

// SubmitReviewCommand содержит данные отзыва.
type SubmitReviewCommand struct {
	// UserID - автор отзыва.
	UserID string

	// CourseID - курс, о котором отзыв.
	CourseID string

	// Rating - целочисленная оценка от 0 до 5 включительно.
	Rating int

	// Description - необязательный текст отзыва.
	Description string

	// CorrelationID для трассировки.
	CorrelationID string
}

// SubmitReviewResult содержит результат отправки.
type SubmitReviewResult struct {
	// ReviewID - ID отзыва (нового или обновлённого).
	ReviewID shared.ID `json:"review_id"`

	// Updated - true, если существующий отзыв обновлён на месте.
	Updated bool `json:"updated"`

	// SubmittedAt - время выполнения.
	SubmittedAt time.Time `json:"submitted_at"`
}

// SubmitReviewHandler обрабатывает SubmitReviewCommand.
type SubmitReviewHandler struct {
	reviewRepo course.ReviewRepository
	userRepo   user.Repository
	publisher  shared.EventPublisher
}

// NewSubmitReviewHandler создаёт новый обработчик.
func NewSubmitReviewHandler(
	reviewRepo course.ReviewRepository,
	userRepo user.Repository,
	publisher shared.EventPublisher,
) *SubmitReviewHandler {
	return &SubmitReviewHandler{
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		publisher:  publisher,
	}
}

// Handle выполняет отправку отзыва.
func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (*SubmitReviewResult, error) {
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("submit_review: %w", err)
	}
	courseID, err := shared.ParseID(cmd.CourseID)
	if err != nil {
		return nil, fmt.Errorf("submit_review: %w", err)
	}

	exists, err := h.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("submit_review: %w", err)
	}
	if !exists {
		return nil, shared.ErrUserNotFound
	}

	review, err := course.NewReview(userID, courseID, cmd.Rating, cmd.Description)
	if err != nil {
		return nil, fmt.Errorf("submit_review: %w", err)
	}

	// Несуществующий курс репозиторий превращает в ErrCourseNotFound
	// через нарушение внешнего ключа.
	id, updated, err := h.reviewRepo.Upsert(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("submit_review: %w", err)
	}

	if h.publisher != nil {
		event := shared.ReviewSubmittedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventReviewSubmitted, id.String()),
			ReviewID:  id.String(),
			CourseID:  courseID.String(),
			UserID:    userID.String(),
			Rating:    cmd.Rating,
			Updated:   updated,
		}
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &SubmitReviewResult{
		ReviewID:    id,
		Updated:     updated,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE REVIEW COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// DeleteReviewCommand удаляет отзыв. Удалять может только автор.
type DeleteReviewCommand struct {
	// ReviewID - отзыв для удаления.
	ReviewID string

	// UserID - инициатор удаления.
	UserID string

	// CorrelationID для трассировки.
	CorrelationID string
}

// DeleteReviewResult содержит результат удаления.
type DeleteReviewResult struct {
	// Deleted - true, если ряд существовал и был удалён.
	Deleted bool `json:"deleted"`
}

// DeleteReviewHandler обрабатывает DeleteReviewCommand.
type DeleteReviewHandler struct {
	reviewRepo course.ReviewRepository
	publisher  shared.EventPublisher
}

// NewDeleteReviewHandler создаёт новый обработчик.
func NewDeleteReviewHandler(reviewRepo course.ReviewRepository, publisher shared.EventPublisher) *DeleteReviewHandler {
	return &DeleteReviewHandler{reviewRepo: reviewRepo, publisher: publisher}
}

// Handle выполняет удаление отзыва.
func (h *DeleteReviewHandler) Handle(ctx context.Context, cmd DeleteReviewCommand) (*DeleteReviewResult, error) {
	reviewID, err := shared.ParseID(cmd.ReviewID)
	if err != nil {
		return nil, fmt.Errorf("delete_review: %w", err)
	}
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("delete_review: %w", err)
	}

	review, err := h.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("delete_review: %w", err)
	}
	if review.UserID != userID {
		return nil, shared.WrapError("review", "Delete", shared.ErrForbidden, "only the review author may delete it", nil)
	}

	deleted, err := h.reviewRepo.Delete(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("delete_review: %w", err)
	}

	if deleted && h.publisher != nil {
		event := shared.ReviewDeletedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventReviewDeleted, reviewID.String()),
			ReviewID:  reviewID.String(),
			CourseID:  review.CourseID.String(),
		}
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &DeleteReviewResult{Deleted: deleted}, nil
}
