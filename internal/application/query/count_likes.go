package query

import (
	"context"
	"fmt"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COUNT LIKES QUERY
// Счётчик лайков объекта: сначала кеш, при промахе - леджер с досевом кеша.
// ══════════════════════════════════════════════════════════════════════════════

// CountLikesQuery содержит параметры запроса.
type CountLikesQuery struct {
	// ObjectID - объект, чьи лайки считаются.
	ObjectID string

	// ObjectType - тип объекта: course, journey, discussion или reply.
	ObjectType string
}

// CountLikesResult содержит счётчик.
type CountLikesResult struct {
	// ObjectID - объект.
	ObjectID string `json:"object_id"`

	// ObjectType - тип объекта.
	ObjectType string `json:"object_type"`

	// Likes - количество лайков.
	Likes int `json:"likes"`
}

// CountCache - кеш счётчиков лайков. Промах - не ошибка запроса.
type CountCache interface {
	GetCount(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) (int, error)
	SetCount(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType, count int) error
}

// CountLikesHandler обрабатывает CountLikesQuery.
type CountLikesHandler struct {
	likeRepo engagement.Repository
	cache    CountCache
}

// NewCountLikesHandler создаёт новый обработчик.
func NewCountLikesHandler(likeRepo engagement.Repository, cache CountCache) *CountLikesHandler {
	return &CountLikesHandler{likeRepo: likeRepo, cache: cache}
}

// Handle выполняет запрос счётчика лайков.
func (h *CountLikesHandler) Handle(ctx context.Context, query CountLikesQuery) (*CountLikesResult, error) {
	objectID, err := shared.ParseID(query.ObjectID)
	if err != nil {
		return nil, fmt.Errorf("count_likes: %w", err)
	}
	objectType, err := engagement.ParseObjectType(query.ObjectType)
	if err != nil {
		return nil, fmt.Errorf("count_likes: %w", err)
	}

	if h.cache != nil {
		if count, err := h.cache.GetCount(ctx, objectID, objectType); err == nil {
			return h.result(objectID, objectType, count), nil
		}
	}

	count, err := h.likeRepo.Count(ctx, objectID, objectType)
	if err != nil {
		return nil, fmt.Errorf("count_likes: %w", err)
	}

	if h.cache != nil {
		// Ошибка досева кеша не роняет запрос.
		_ = h.cache.SetCount(ctx, objectID, objectType, count)
	}

	return h.result(objectID, objectType, count), nil
}

func (h *CountLikesHandler) result(objectID shared.ID, objectType engagement.ObjectType, count int) *CountLikesResult {
	return &CountLikesResult{
		ObjectID:   objectID.String(),
		ObjectType: objectType.String(),
		Likes:      count,
	}
}

// CountLikes реализует LikeCounter для карточки курса: тот же путь
// кеш-леджер, но с типизированными аргументами.
func (h *CountLikesHandler) CountLikes(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) (int, error) {
	result, err := h.Handle(ctx, CountLikesQuery{
		ObjectID:   objectID.String(),
		ObjectType: objectType.String(),
	})
	if err != nil {
		return 0, err
	}
	return result.Likes, nil
}
