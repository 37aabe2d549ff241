package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE QUERY
// Карточка курса: данные площадки, агрегат внутренних отзывов и лайки.
// ══════════════════════════════════════════════════════════════════════════════

// GetCourseQuery содержит параметры запроса.
type GetCourseQuery struct {
	// CourseID - идентификатор курса.
	CourseID string
}

// CourseDTO - курс для отдачи наружу. Эмбеддинг наружу не отдаётся.
type CourseDTO struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Platform    string   `json:"platform"`
	Authors     []string `json:"authors,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	Rating      float64  `json:"rating"`
	RatingCount int      `json:"rating_count"`
	ImageURL    string   `json:"image_url,omitempty"`
	IsFree      bool     `json:"is_free"`
	URL         string   `json:"url"`
	CreatedAt   string   `json:"created_at"`
}

// GetCourseResult содержит карточку курса.
type GetCourseResult struct {
	// Course - данные курса.
	Course CourseDTO `json:"course"`

	// ReviewStats - агрегат внутренних отзывов (нулевой, если отзывов нет).
	ReviewStats course.ReviewStats `json:"review_stats"`

	// Likes - количество лайков курса.
	Likes int `json:"likes"`
}

// GetCourseHandler обрабатывает GetCourseQuery.
type GetCourseHandler struct {
	courseRepo courses
	reviewRepo course.ReviewRepository
	likeCount  LikeCounter
}

// courses - минимальный срез course.Repository, нужный карточке.
type courses interface {
	GetByID(ctx context.Context, id shared.ID) (*course.Course, error)
}

// LikeCounter считает лайки объекта. За интерфейсом - леджер с кешем.
type LikeCounter interface {
	CountLikes(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) (int, error)
}

// NewGetCourseHandler создаёт новый обработчик.
func NewGetCourseHandler(courseRepo courses, reviewRepo course.ReviewRepository, likeCount LikeCounter) *GetCourseHandler {
	return &GetCourseHandler{
		courseRepo: courseRepo,
		reviewRepo: reviewRepo,
		likeCount:  likeCount,
	}
}

// Handle выполняет запрос карточки курса.
func (h *GetCourseHandler) Handle(ctx context.Context, query GetCourseQuery) (*GetCourseResult, error) {
	courseID, err := shared.ParseID(query.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get_course: %w", err)
	}

	c, err := h.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get_course: %w", err)
	}

	statsByID, err := h.reviewRepo.StatsForCourses(ctx, []shared.ID{courseID})
	if err != nil {
		return nil, fmt.Errorf("get_course: %w", err)
	}

	likes := 0
	if h.likeCount != nil {
		likes, err = h.likeCount.CountLikes(ctx, courseID, engagement.ObjectCourse)
		if err != nil {
			// Счётчик лайков не критичен для карточки.
			likes = 0
		}
	}

	return &GetCourseResult{
		Course:      toCourseDTO(c),
		ReviewStats: statsByID[courseID],
		Likes:       likes,
	}, nil
}

// toCourseDTO конвертирует доменную сущность в DTO.
func toCourseDTO(c *course.Course) CourseDTO {
	return CourseDTO{
		ID:          c.ID.String(),
		Title:       c.Title,
		Description: c.Description,
		Platform:    c.Platform.String(),
		Authors:     c.Authors,
		Skills:      c.Skills,
		Rating:      c.Rating.Value,
		RatingCount: c.Rating.Count,
		ImageURL:    c.ImageURL,
		IsFree:      c.IsFree,
		URL:         c.URL,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339),
	}
}
