// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// Embedder превращает текст в вектор. Реализация живёт в
// infrastructure/external; команды видят только контракт.
type Embedder interface {
	Embed(ctx context.Context, text string) (shared.Embedding, error)
	EmbedBatch(ctx context.Context, texts []string) ([]shared.Embedding, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// UPSERT COURSE COMMAND
// Вставка курса по естественному ключу (platform, url). Повторная вставка
// той же пары ничего не перезаписывает: данные первой вставки каноничны.
// ══════════════════════════════════════════════════════════════════════════════

// UpsertCourseCommand содержит данные курса для вставки.
type UpsertCourseCommand struct {
	// Title - название курса. Обязательное поле.
	Title string

	// Description - описание (может быть пустым).
	Description string

	// Platform - площадка-источник: "coursera" или "udemy".
	Platform string

	// URL - ссылка на курс. Вместе с Platform образует идентичность.
	URL string

	// Authors - список авторов.
	Authors []string

	// Skills - список навыков.
	Skills []string

	// RatingValue - внешний рейтинг площадки (0-5).
	RatingValue float64

	// RatingCount - количество оценок на площадке.
	RatingCount int

	// ImageURL - ссылка на обложку.
	ImageURL string

	// IsFree - бесплатный ли курс.
	IsFree bool

	// CorrelationID для трассировки.
	CorrelationID string
}

// UpsertCourseResult содержит результат вставки.
type UpsertCourseResult struct {
	// CourseID - ID курса (нового или существующего).
	CourseID shared.ID `json:"course_id"`

	// Created - true, если курс вставлен впервые.
	Created bool `json:"created"`

	// UpsertedAt - время выполнения.
	UpsertedAt time.Time `json:"upserted_at"`
}

// UpsertCourseHandler обрабатывает UpsertCourseCommand.
type UpsertCourseHandler struct {
	courseRepo course.Repository
	embedder   Embedder
	publisher  shared.EventPublisher
}

// NewUpsertCourseHandler создаёт новый обработчик.
func NewUpsertCourseHandler(
	courseRepo course.Repository,
	embedder Embedder,
	publisher shared.EventPublisher,
) *UpsertCourseHandler {
	return &UpsertCourseHandler{
		courseRepo: courseRepo,
		embedder:   embedder,
		publisher:  publisher,
	}
}

// Handle выполняет вставку курса.
func (h *UpsertCourseHandler) Handle(ctx context.Context, cmd UpsertCourseCommand) (*UpsertCourseResult, error) {
	platform, err := course.ParsePlatform(cmd.Platform)
	if err != nil {
		return nil, fmt.Errorf("upsert_course: %w", err)
	}

	// Эмбеддинг строится до конструктора: вектор - обязательный инвариант курса.
	draft := &course.Course{
		Title:       cmd.Title,
		Description: cmd.Description,
		Skills:      cmd.Skills,
	}
	embedding, err := h.embedder.Embed(ctx, draft.EmbeddingText())
	if err != nil {
		return nil, fmt.Errorf("upsert_course: embed: %w", err)
	}

	c, err := course.NewCourse(cmd.Title, cmd.Description, platform, cmd.URL, embedding)
	if err != nil {
		return nil, fmt.Errorf("upsert_course: %w", err)
	}
	c.Authors = cmd.Authors
	c.Skills = cmd.Skills
	c.Rating = course.ExternalRating{Value: cmd.RatingValue, Count: cmd.RatingCount}
	c.ImageURL = cmd.ImageURL
	c.IsFree = cmd.IsFree
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("upsert_course: %w", err)
	}

	id, created, err := h.courseRepo.Upsert(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("upsert_course: %w", err)
	}

	if h.publisher != nil {
		event := shared.CourseUpsertedEvent{
			BaseEvent: shared.NewBaseEvent(shared.EventCourseUpserted, id.String()),
			CourseID:  id.String(),
			Platform:  platform.String(),
			URL:       c.URL,
			Created:   created,
		}
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &UpsertCourseResult{
		CourseID:   id,
		Created:    created,
		UpsertedAt: time.Now().UTC(),
	}, nil
}
