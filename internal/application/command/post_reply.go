package command

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// POST REPLY COMMAND
// Ответ верхнего уровня (parent пуст) или ответ на ответ - дерево
// произвольной глубины. Надгробие остаётся допустимым родителем:
// можно отвечать под удалённым ответом.
// ══════════════════════════════════════════════════════════════════════════════

// PostReplyCommand содержит данные нового ответа.
type PostReplyCommand struct {
	// UserID - автор ответа.
	UserID string

	// DiscussionID - обсуждение, к которому относится ответ.
	DiscussionID string

	// ParentReplyID - родительский ответ (пустая строка для верхнего уровня).
	ParentReplyID string

	// Text - текст ответа. Обязательное поле.
	Text string

	// CorrelationID для трассировки.
	CorrelationID string
}

// PostReplyResult содержит результат создания ответа.
type PostReplyResult struct {
	// ReplyID - ID нового ответа.
	ReplyID shared.ID `json:"reply_id"`

	// PostedAt - время создания.
	PostedAt time.Time `json:"posted_at"`
}

// PostReplyHandler обрабатывает PostReplyCommand.
type PostReplyHandler struct {
	replyRepo      discussion.ReplyRepository
	discussionRepo discussion.Repository
	embedder       Embedder
	publisher      shared.EventPublisher
}

// NewPostReplyHandler создаёт новый обработчик.
func NewPostReplyHandler(
	replyRepo discussion.ReplyRepository,
	discussionRepo discussion.Repository,
	embedder Embedder,
	publisher shared.EventPublisher,
) *PostReplyHandler {
	return &PostReplyHandler{
		replyRepo:      replyRepo,
		discussionRepo: discussionRepo,
		embedder:       embedder,
		publisher:      publisher,
	}
}

// Handle выполняет создание ответа.
func (h *PostReplyHandler) Handle(ctx context.Context, cmd PostReplyCommand) (*PostReplyResult, error) {
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("post_reply: %w", err)
	}
	discussionID, err := shared.ParseID(cmd.DiscussionID)
	if err != nil {
		return nil, fmt.Errorf("post_reply: %w", err)
	}

	exists, err := h.discussionRepo.Exists(ctx, discussionID)
	if err != nil {
		return nil, fmt.Errorf("post_reply: %w", err)
	}
	if !exists {
		return nil, shared.ErrDiscussionNotFound
	}

	var parentID *shared.ID
	if cmd.ParentReplyID != "" {
		id, err := shared.ParseID(cmd.ParentReplyID)
		if err != nil {
			return nil, fmt.Errorf("post_reply: parent id: %w", err)
		}
		parent, err := h.replyRepo.GetByID(ctx, id)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, shared.ErrParentReplyNotFound
			}
			return nil, fmt.Errorf("post_reply: %w", err)
		}
		// Родитель должен принадлежать тому же обсуждению.
		if parent.DiscussionID != discussionID {
			return nil, shared.WrapError("reply", "Create", shared.ErrInvalidInput, "parent reply belongs to another discussion", nil)
		}
		parentID = &id
	}

	embedding, err := h.embedder.Embed(ctx, cmd.Text)
	if err != nil {
		return nil, fmt.Errorf("post_reply: embed: %w", err)
	}

	r, err := discussion.NewReply(userID, discussionID, parentID, cmd.Text, embedding)
	if err != nil {
		return nil, fmt.Errorf("post_reply: %w", err)
	}

	if err := h.replyRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("post_reply: %w", err)
	}

	if h.publisher != nil {
		event := shared.NewBaseEvent(shared.EventReplyPosted, r.ID.String())
		if cmd.CorrelationID != "" {
			event = event.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &PostReplyResult{
		ReplyID:  r.ID,
		PostedAt: r.CreatedAt,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// TOMBSTONE REPLY COMMAND
// Удаление ответа - это надгробие, а не физическое удаление: текст
// заменяется сторожевым значением, ряд и дети сохраняются. Переход
// необратим и идемпотентен по эффекту.
// ══════════════════════════════════════════════════════════════════════════════

// TombstoneReplyCommand заменяет текст ответа надгробием.
type TombstoneReplyCommand struct {
	// ReplyID - ответ для удаления.
	ReplyID string

	// UserID - инициатор. Надгробие может поставить только автор.
	UserID string

	// CorrelationID для трассировки.
	CorrelationID string
}

// TombstoneReplyResult содержит результат удаления.
type TombstoneReplyResult struct {
	// ReplyID - ID ответа.
	ReplyID shared.ID `json:"reply_id"`

	// AlreadyTombstoned - true, если ответ уже был надгробием.
	AlreadyTombstoned bool `json:"already_tombstoned"`
}

// TombstoneReplyHandler обрабатывает TombstoneReplyCommand.
type TombstoneReplyHandler struct {
	replyRepo discussion.ReplyRepository
	publisher shared.EventPublisher
}

// NewTombstoneReplyHandler создаёт новый обработчик.
func NewTombstoneReplyHandler(replyRepo discussion.ReplyRepository, publisher shared.EventPublisher) *TombstoneReplyHandler {
	return &TombstoneReplyHandler{replyRepo: replyRepo, publisher: publisher}
}

// Handle выполняет постановку надгробия.
func (h *TombstoneReplyHandler) Handle(ctx context.Context, cmd TombstoneReplyCommand) (*TombstoneReplyResult, error) {
	replyID, err := shared.ParseID(cmd.ReplyID)
	if err != nil {
		return nil, fmt.Errorf("tombstone_reply: %w", err)
	}
	userID, err := shared.ParseID(cmd.UserID)
	if err != nil {
		return nil, fmt.Errorf("tombstone_reply: %w", err)
	}

	r, err := h.replyRepo.GetByID(ctx, replyID)
	if err != nil {
		return nil, fmt.Errorf("tombstone_reply: %w", err)
	}
	if err := r.CanTombstone(userID); err != nil {
		return nil, err
	}

	// Повторное удаление - no-op успех, событие не публикуется.
	if r.IsTombstoned() {
		return &TombstoneReplyResult{ReplyID: replyID, AlreadyTombstoned: true}, nil
	}

	if err := h.replyRepo.Tombstone(ctx, replyID); err != nil {
		return nil, fmt.Errorf("tombstone_reply: %w", err)
	}

	if h.publisher != nil {
		event := shared.ReplyTombstonedEvent{
			BaseEvent:    shared.NewBaseEvent(shared.EventReplyTombstoned, replyID.String()),
			ReplyID:      replyID.String(),
			DiscussionID: r.DiscussionID.String(),
		}
		if cmd.CorrelationID != "" {
			event.BaseEvent = event.BaseEvent.WithCorrelationID(cmd.CorrelationID)
		}
		_ = h.publisher.Publish(ctx, event)
	}

	return &TombstoneReplyResult{ReplyID: replyID}, nil
}
