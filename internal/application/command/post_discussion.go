package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/journey"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// POST DISCUSSION COMMAND
// Тема может ссылаться на ноль, один или несколько курсов и, опционально,
// на learning journey. Эмбеддинг строится из заголовка и текста.
// ══════════════════════════════════════════════════════════════════════════════

// PostDiscussionCommand содержит данные новой темы.
type PostDiscussionCommand struct {
	// UserID - автор темы.
	UserID string

	// Title - заголовок. Обязательное поле.
	Title string

	// Description - текст темы. Обязательное поле.
	Description string

	// CourseIDs - курсы, на которые ссылается тема (может быть пусто).
	CourseIDs []string

	// JourneyID - необязательная ссылка на journey.
	JourneyID string

	// CorrelationID для трассировки.
	CorrelationID string
}

// PostDiscussionResult содержит результат создания темы.
type PostDiscussionResult struct {
	// DiscussionID - ID новой темы.
	DiscussionID shared.ID `json:"discussion_id"`

	// PostedAt - время создания.
	PostedAt time.Time `json:"posted_at"`
}

// PostDiscussionHandler обрабатывает PostDiscussionCommand.
type PostDiscussionHandler struct {
	discussionRepo discussion.Repository
	courseRepo     course.Repository
	journeyRepo    journey.Repository
	embedder       Embedder
	publisher      shared.EventPublisher
}

// NewPostDiscussionHandler создаёт новый обработчик.
func NewPostDiscussionHandler(
	discussionRepo discussion.Repository,
	courseRepo course.Repository,
	journeyRepo journey.Repository,
	embedder Embedder,
	publisher shared.EventPublisher,
) *PostDiscussionHandler {
	return &PostDiscussionHandler{
		discussionRepo: discussionRepo,
		courseRepo:     courseRepo,
		journeyRepo:    journeyRepo,
		embedder:       embedder,
		publisher:      publisher,
	}
}

// Handle выполняет создание темы.
func (h *PostDiscussionHandler) Handle(ctx context.Context, cmd PostDiscussionCommand) (*PostDiscussionResult, error) {
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("post_discussion: %w", err)
	}

	courseIDs := make([]shared.ID, 0, len(cmd.CourseIDs))
	for _, raw := range cmd.CourseIDs {
		id, err := shared.ParseID(raw)
		if err != nil {
			return nil, fmt.Errorf("post_discussion: course id: %w", err)
		}
		exists, err := h.courseRepo.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("post_discussion: %w", err)
		}
		if !exists {
			return nil, shared.ErrCourseNotFound
		}
		courseIDs = append(courseIDs, id)
	}

	var journeyID *shared.ID
	if cmd.JourneyID != "" {
		id, err := shared.ParseID(cmd.JourneyID)
		if err != nil {
			return nil, fmt.Errorf("post_discussion: journey id: %w", err)
		}
		exists, err := h.journeyRepo.Exists(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("post_discussion: %w", err)
		}
		if !exists {
			return nil, shared.ErrJourneyNotFound
		}
		journeyID = &id
	}

	embedding, err := h.embedder.Embed(ctx, discussionEmbeddingText(cmd.Title, cmd.Description))
	if err != nil {
		return nil, fmt.Errorf("post_discussion: embed: %w", err)
	}

	d, err := discussion.NewDiscussion(userID, cmd.Title, cmd.Description, embedding)
	if err != nil {
		return nil, fmt.Errorf("post_discussion: %w", err)
	}
	d.CourseIDs = courseIDs
	d.JourneyID = journeyID

	if err := h.discussionRepo.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("post_discussion: %w", err)
	}

	h.publish(ctx, shared.EventDiscussionPosted, d.ID, cmd.CorrelationID)

	return &PostDiscussionResult{
		DiscussionID: d.ID,
		PostedAt:     d.CreatedAt,
	}, nil
}

func (h *PostDiscussionHandler) publish(ctx context.Context, eventType shared.EventType, id shared.ID, correlationID string) {
	if h.publisher == nil {
		return
	}
	event := shared.NewBaseEvent(eventType, id.String())
	if correlationID != "" {
		event = event.WithCorrelationID(correlationID)
	}
	_ = h.publisher.Publish(ctx, event)
}

// discussionEmbeddingText собирает текст эмбеддинга темы:
// заголовок и содержимое, разделённые переводом строки.
func discussionEmbeddingText(title, description string) string {
	return strings.TrimSpace(title) + "\n" + strings.TrimSpace(description)
}

// ══════════════════════════════════════════════════════════════════════════════
// EDIT DISCUSSION COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// EditDiscussionCommand обновляет заголовок и текст темы.
// Редактировать может только автор. Эмбеддинг пересчитывается.
type EditDiscussionCommand struct {
	// DiscussionID - тема для редактирования.
	DiscussionID string

	// UserID - инициатор.
	UserID string

	// Title - новый заголовок.
	Title string

	// Description - новый текст.
	Description string

	// CorrelationID для трассировки.
	CorrelationID string
}

// EditDiscussionResult содержит результат редактирования.
type EditDiscussionResult struct {
	// DiscussionID - ID темы.
	DiscussionID shared.ID `json:"discussion_id"`

	// EditedAt - время редактирования.
	EditedAt time.Time `json:"edited_at"`
}

// EditDiscussionHandler обрабатывает EditDiscussionCommand.
type EditDiscussionHandler struct {
	discussionRepo discussion.Repository
	embedder       Embedder
	publisher      shared.EventPublisher
}

// NewEditDiscussionHandler создаёт новый обработчик.
func NewEditDiscussionHandler(
	discussionRepo discussion.Repository,
	embedder Embedder,
	publisher shared.EventPublisher,
) *EditDiscussionHandler {
	return &EditDiscussionHandler{
		discussionRepo: discussionRepo,
		embedder:       embedder,
		publisher:      publisher,
	}
}

// Handle выполняет редактирование темы.
func (h *EditDiscussionHandler) Handle(ctx context.Context, cmd EditDiscussionCommand) (*EditDiscussionResult, error) {
	discussionID, err := shared.ParseID(cmd.DiscussionID)
	if err != nil {
		return nil, fmt.Errorf("edit_discussion: %w", err)
	}
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("edit_discussion: %w", err)
	}

	d, err := h.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, fmt.Errorf("edit_discussion: %w", err)
	}
	if d.UserID != userID {
		return nil, shared.WrapError("discussion", "Edit", shared.ErrForbidden, "only the discussion author may edit it", nil)
	}

	embedding, err := h.embedder.Embed(ctx, discussionEmbeddingText(cmd.Title, cmd.Description))
	if err != nil {
		return nil, fmt.Errorf("edit_discussion: embed: %w", err)
	}

	d.Title = strings.TrimSpace(cmd.Title)
	d.Description = strings.TrimSpace(cmd.Description)
	d.Embedding = embedding
	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("edit_discussion: %w", err)
	}

	if err := h.discussionRepo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("edit_discussion: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewBaseEvent(shared.EventDiscussionEdited, d.ID.String())
		if cmd.CorrelationID != "" {
			event = event.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &EditDiscussionResult{
		DiscussionID: d.ID,
		EditedAt:     time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DELETE DISCUSSION COMMAND
// В отличие от ответов, тема удаляется физически: каскад забирает
// ссылки на курсы и всю ветку ответов.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteDiscussionCommand удаляет тему. Удалять может только автор.
type DeleteDiscussionCommand struct {
	// DiscussionID - тема для удаления.
	DiscussionID string

	// UserID - инициатор.
	UserID string

	// CorrelationID для трассировки.
	CorrelationID string
}

// DeleteDiscussionResult содержит результат удаления.
type DeleteDiscussionResult struct {
	// Deleted - true, если ряд существовал и был удалён.
	Deleted bool `json:"deleted"`
}

// DeleteDiscussionHandler обрабатывает DeleteDiscussionCommand.
type DeleteDiscussionHandler struct {
	discussionRepo discussion.Repository
	publisher      shared.EventPublisher
}

// NewDeleteDiscussionHandler создаёт новый обработчик.
func NewDeleteDiscussionHandler(discussionRepo discussion.Repository, publisher shared.EventPublisher) *DeleteDiscussionHandler {
	return &DeleteDiscussionHandler{discussionRepo: discussionRepo, publisher: publisher}
}

// Handle выполняет удаление темы.
func (h *DeleteDiscussionHandler) Handle(ctx context.Context, cmd DeleteDiscussionCommand) (*DeleteDiscussionResult, error) {
	discussionID, err := shared.ParseID(cmd.DiscussionID)
	if err != nil {
		return nil, fmt.Errorf("delete_discussion: %w", err)
	}
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("delete_discussion: %w", err)
	}

	d, err := h.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return nil, fmt.Errorf("delete_discussion: %w", err)
	}
	if d.UserID != userID {
		return nil, shared.WrapError("discussion", "Delete", shared.ErrForbidden, "only the discussion author may delete it", nil)
	}

	deleted, err := h.discussionRepo.Delete(ctx, discussionID)
	if err != nil {
		return nil, fmt.Errorf("delete_discussion: %w", err)
	}

	if deleted && h.publisher != nil {
		event := shared.NewBaseEvent(shared.EventDiscussionDeleted, discussionID.String())
		if cmd.CorrelationID != "" {
			event = event.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &DeleteDiscussionResult{Deleted: deleted}, nil
}
