package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST REPLIES QUERY
// Страница ответов обсуждения в порядке создания. Надгробия остаются
// в выдаче ради структуры ветки, но их автор анонимизируется.
// ══════════════════════════════════════════════════════════════════════════════

// ListRepliesQuery содержит параметры запроса.
type ListRepliesQuery struct {
	// DiscussionID - обсуждение, чьи ответы запрашиваются.
	DiscussionID string

	// Limit - размер страницы (0 = без ограничения).
	Limit int

	// Offset - смещение.
	Offset int
}

// ReplyDTO - ответ для отдачи наружу.
type ReplyDTO struct {
	// ID - идентификатор ответа.
	ID string `json:"id"`

	// Author - имя автора; "anonymous" для надгробий.
	Author string `json:"author"`

	// Text - текст ответа; "[deleted]" для надгробий.
	Text string `json:"text"`

	// ParentReplyID - родительский ответ (пусто для верхнего уровня).
	ParentReplyID string `json:"parent_reply_id,omitempty"`

	// Tombstoned - true для надгробий.
	Tombstoned bool `json:"tombstoned"`

	// CreatedAt - время создания.
	CreatedAt time.Time `json:"created_at"`
}

// ListRepliesResult содержит страницу ответов.
type ListRepliesResult struct {
	// Replies - ответы в порядке создания.
	Replies []ReplyDTO `json:"replies"`

	// Page - окно пагинации и общий счётчик.
	Page shared.Page `json:"page"`
}

// ListRepliesHandler обрабатывает ListRepliesQuery.
type ListRepliesHandler struct {
	discussionRepo discussion.Repository
	replyRepo      discussion.ReplyRepository
	userRepo       user.Repository
}

// NewListRepliesHandler создаёт новый обработчик.
func NewListRepliesHandler(
	discussionRepo discussion.Repository,
	replyRepo discussion.ReplyRepository,
	userRepo user.Repository,
) *ListRepliesHandler {
	return &ListRepliesHandler{
		discussionRepo: discussionRepo,
		replyRepo:      replyRepo,
		userRepo:       userRepo,
	}
}

// Handle выполняет запрос страницы ответов.
func (h *ListRepliesHandler) Handle(ctx context.Context, query ListRepliesQuery) (*ListRepliesResult, error) {
	discussionID, err := shared.ParseID(query.DiscussionID)
	if err != nil {
		return nil, fmt.Errorf("list_replies: %w", err)
	}

	exists, err := h.discussionRepo.Exists(ctx, discussionID)
	if err != nil {
		return nil, fmt.Errorf("list_replies: %w", err)
	}
	if !exists {
		return nil, shared.ErrDiscussionNotFound
	}

	page := shared.Pagination{Limit: query.Limit, Offset: query.Offset}.Normalize()
	replies, total, err := h.replyRepo.ListForDiscussion(ctx, discussionID, page)
	if err != nil {
		return nil, fmt.Errorf("list_replies: %w", err)
	}

	authorIDs := make([]shared.ID, len(replies))
	for i, r := range replies {
		authorIDs[i] = r.UserID
	}
	authors, err := h.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("list_replies: %w", err)
	}

	dtos := make([]ReplyDTO, len(replies))
	for i, r := range replies {
		username := ""
		if author, ok := authors[r.UserID]; ok {
			username = author.Username
		}
		dto := ReplyDTO{
			ID:         r.ID.String(),
			Author:     r.PublicAuthor(username),
			Text:       r.Text,
			Tombstoned: r.IsTombstoned(),
			CreatedAt:  r.CreatedAt,
		}
		if r.ParentReplyID != nil {
			dto.ParentReplyID = r.ParentReplyID.String()
		}
		dtos[i] = dto
	}

	return &ListRepliesResult{
		Replies: dtos,
		Page: shared.Page{
			Total:    total,
			Offset:   page.Offset,
			Limit:    page.Limit,
			Returned: len(dtos),
		},
	}, nil
}
