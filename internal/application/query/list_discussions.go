package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST DISCUSSIONS QUERY
// Темы, ссылающиеся на курс, в порядке создания.
// ══════════════════════════════════════════════════════════════════════════════

// ListDiscussionsQuery содержит параметры запроса.
type ListDiscussionsQuery struct {
	// CourseID - курс, чьи обсуждения запрашиваются.
	CourseID string

	// Limit - размер страницы (0 = без ограничения).
	Limit int

	// Offset - смещение.
	Offset int
}

// DiscussionDTO - тема для отдачи наружу.
type DiscussionDTO struct {
	// ID - идентификатор темы.
	ID string `json:"id"`

	// Title - заголовок.
	Title string `json:"title"`

	// Description - текст темы.
	Description string `json:"description"`

	// AuthorID - автор.
	AuthorID string `json:"author_id"`

	// CourseIDs - курсы, на которые ссылается тема.
	CourseIDs []string `json:"course_ids,omitempty"`

	// JourneyID - связанная journey (пусто, если нет).
	JourneyID string `json:"journey_id,omitempty"`

	// CreatedAt - время создания.
	CreatedAt time.Time `json:"created_at"`
}

// ListDiscussionsResult содержит страницу тем.
type ListDiscussionsResult struct {
	// Discussions - темы в порядке создания.
	Discussions []DiscussionDTO `json:"discussions"`

	// Page - окно пагинации и общий счётчик.
	Page shared.Page `json:"page"`
}

// ListDiscussionsHandler обрабатывает ListDiscussionsQuery.
type ListDiscussionsHandler struct {
	discussionRepo discussion.Repository
	courseRepo     course.Repository
}

// NewListDiscussionsHandler создаёт новый обработчик.
func NewListDiscussionsHandler(discussionRepo discussion.Repository, courseRepo course.Repository) *ListDiscussionsHandler {
	return &ListDiscussionsHandler{
		discussionRepo: discussionRepo,
		courseRepo:     courseRepo,
	}
}

// Handle выполняет запрос тем курса.
func (h *ListDiscussionsHandler) Handle(ctx context.Context, query ListDiscussionsQuery) (*ListDiscussionsResult, error) {
	courseID, err := shared.ParseID(query.CourseID)
	if err != nil {
		return nil, fmt.Errorf("list_discussions: %w", err)
	}

	exists, err := h.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list_discussions: %w", err)
	}
	if !exists {
		return nil, shared.ErrCourseNotFound
	}

	page := shared.Pagination{Limit: query.Limit, Offset: query.Offset}.Normalize()
	discussions, total, err := h.discussionRepo.ListForCourse(ctx, courseID, page)
	if err != nil {
		return nil, fmt.Errorf("list_discussions: %w", err)
	}

	dtos := make([]DiscussionDTO, len(discussions))
	for i, d := range discussions {
		dtos[i] = toDiscussionDTO(d)
	}

	return &ListDiscussionsResult{
		Discussions: dtos,
		Page: shared.Page{
			Total:    total,
			Offset:   page.Offset,
			Limit:    page.Limit,
			Returned: len(dtos),
		},
	}, nil
}

// toDiscussionDTO конвертирует доменную сущность в DTO.
func toDiscussionDTO(d *discussion.Discussion) DiscussionDTO {
	dto := DiscussionDTO{
		ID:          d.ID.String(),
		Title:       d.Title,
		Description: d.Description,
		AuthorID:    d.UserID.String(),
		CreatedAt:   d.CreatedAt,
	}
	for _, id := range d.CourseIDs {
		dto.CourseIDs = append(dto.CourseIDs, id.String())
	}
	if d.JourneyID != nil {
		dto.JourneyID = d.JourneyID.String()
	}
	return dto
}
