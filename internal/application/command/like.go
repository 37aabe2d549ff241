package command

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD LIKE COMMAND
// Идемпотентный лайк: повторный лайк той же тройки (user, object, type)
// возвращает существующий ряд без ошибки. Гонку разрешает уникальный
// констрейнт в базе, а не проверка в коде.
// ══════════════════════════════════════════════════════════════════════════════

// AddLikeCommand содержит данные лайка.
type AddLikeCommand struct {
	// UserID - кто лайкает.
	UserID string

	// ObjectID - что лайкают.
	ObjectID string

	// ObjectType - тип объекта: course, journey, discussion или reply.
	ObjectType string

	// CorrelationID для трассировки.
	CorrelationID string
}

// AddLikeResult содержит результат лайка.
type AddLikeResult struct {
	// LikeID - ID лайка (нового или существующего).
	LikeID shared.ID `json:"like_id"`

	// Created - true, если лайк поставлен впервые.
	Created bool `json:"created"`

	// LikedAt - время первоначального лайка.
	LikedAt time.Time `json:"liked_at"`
}

// AddLikeHandler обрабатывает AddLikeCommand.
type AddLikeHandler struct {
	likeRepo  engagement.Repository
	userRepo  user.Repository
	probers   engagement.ProberSet
	publisher shared.EventPublisher
}

// NewAddLikeHandler создаёт новый обработчик.
func NewAddLikeHandler(
	likeRepo engagement.Repository,
	userRepo user.Repository,
	probers engagement.ProberSet,
	publisher shared.EventPublisher,
) *AddLikeHandler {
	return &AddLikeHandler{
		likeRepo:  likeRepo,
		userRepo:  userRepo,
		probers:   probers,
		publisher: publisher,
	}
}

// Handle выполняет постановку лайка.
func (h *AddLikeHandler) Handle(ctx context.Context, cmd AddLikeCommand) (*AddLikeResult, error) {
	userID, objectID, objectType, err := parseLikeTriple(cmd.UserID, cmd.ObjectID, cmd.ObjectType)
	if err != nil {
		return nil, fmt.Errorf("add_like: %w", err)
	}

	userExists, err := h.userRepo.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("add_like: %w", err)
	}
	if !userExists {
		return nil, shared.ErrUserNotFound
	}

	// Объект проверяется по типу: леджер не знает про чужие таблицы.
	prober, err := h.probers.ProberFor(objectType)
	if err != nil {
		return nil, fmt.Errorf("add_like: %w", err)
	}
	targetExists, err := prober.Exists(ctx, objectID)
	if err != nil {
		return nil, fmt.Errorf("add_like: %w", err)
	}
	if !targetExists {
		return nil, shared.ErrLikeTargetNotFound
	}

	like, err := engagement.NewLike(userID, objectID, objectType)
	if err != nil {
		return nil, fmt.Errorf("add_like: %w", err)
	}

	stored, created, err := h.likeRepo.Add(ctx, like)
	if err != nil {
		return nil, fmt.Errorf("add_like: %w", err)
	}

	if created && h.publisher != nil {
		_ = h.publisher.Publish(ctx, likeChangedEvent(shared.EventLikeAdded, stored, cmd.CorrelationID))
	}

	return &AddLikeResult{
		LikeID:  stored.ID,
		Created: created,
		LikedAt: stored.CreatedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REMOVE LIKE COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// RemoveLikeCommand снимает лайк. Отсутствие лайка - no-op успех.
type RemoveLikeCommand struct {
	// UserID - чей лайк снимается.
	UserID string

	// ObjectID - с какого объекта.
	ObjectID string

	// ObjectType - тип объекта.
	ObjectType string

	// CorrelationID для трассировки.
	CorrelationID string
}

// RemoveLikeResult содержит результат снятия лайка.
type RemoveLikeResult struct {
	// Removed - true, если лайк существовал и был снят.
	Removed bool `json:"removed"`
}

// RemoveLikeHandler обрабатывает RemoveLikeCommand.
type RemoveLikeHandler struct {
	likeRepo  engagement.Repository
	publisher shared.EventPublisher
}

// NewRemoveLikeHandler создаёт новый обработчик.
func NewRemoveLikeHandler(likeRepo engagement.Repository, publisher shared.EventPublisher) *RemoveLikeHandler {
	return &RemoveLikeHandler{likeRepo: likeRepo, publisher: publisher}
}

// Handle выполняет снятие лайка.
func (h *RemoveLikeHandler) Handle(ctx context.Context, cmd RemoveLikeCommand) (*RemoveLikeResult, error) {
	userID, objectID, objectType, err := parseLikeTriple(cmd.UserID, cmd.ObjectID, cmd.ObjectType)
	if err != nil {
		return nil, fmt.Errorf("remove_like: %w", err)
	}

	removed, err := h.likeRepo.Remove(ctx, userID, objectID, objectType)
	if err != nil {
		return nil, fmt.Errorf("remove_like: %w", err)
	}

	if removed && h.publisher != nil {
		like := &engagement.Like{UserID: userID, ObjectID: objectID, ObjectType: objectType}
		_ = h.publisher.Publish(ctx, likeChangedEvent(shared.EventLikeRemoved, like, cmd.CorrelationID))
	}

	return &RemoveLikeResult{Removed: removed}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func parseLikeTriple(rawUser, rawObject, rawType string) (shared.ID, shared.ID, engagement.ObjectType, error) {
	userID, err := shared.ParseID(rawUser)
	if err != nil {
		return "", "", "", err
	}
	objectID, err := shared.ParseID(rawObject)
	if err != nil {
		return "", "", "", err
	}
	objectType, err := engagement.ParseObjectType(rawType)
	if err != nil {
		return "", "", "", err
	}
	return userID, objectID, objectType, nil
}

func likeChangedEvent(eventType shared.EventType, like *engagement.Like, correlationID string) shared.LikeChangedEvent {
	event := shared.LikeChangedEvent{
		BaseEvent:  shared.NewBaseEvent(eventType, like.ObjectID.String()),
		UserID:     like.UserID.String(),
		ObjectID:   like.ObjectID.String(),
		ObjectType: like.ObjectType.String(),
	}
	if correlationID != "" {
		event.BaseEvent = event.BaseEvent.WithCorrelationID(correlationID)
	}
	return event
}
