package query

import (
	"context"
	"fmt"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET COURSE REVIEWS QUERY
// Отзывы курса вместе с агрегатом. Email автора наружу отдаётся только
// в частично скрытом виде.
// ══════════════════════════════════════════════════════════════════════════════

// GetCourseReviewsQuery содержит параметры запроса.
type GetCourseReviewsQuery struct {
	// CourseID - идентификатор курса.
	CourseID string
}

// ReviewDTO - отзыв для отдачи наружу.
type ReviewDTO struct {
	// ID - идентификатор отзыва.
	ID string `json:"id"`

	// Username - имя автора.
	Username string `json:"username"`

	// Email - адрес автора в отредактированном виде.
	Email string `json:"email"`

	// Rating - оценка от 0 до 5.
	Rating int `json:"rating"`

	// Description - текст отзыва.
	Description string `json:"description,omitempty"`

	// CreatedAt - время первой отправки.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt - время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// GetCourseReviewsResult содержит отзывы и агрегат.
type GetCourseReviewsResult struct {
	// Reviews - отзывы в порядке создания.
	Reviews []ReviewDTO `json:"reviews"`

	// Stats - агрегат по отзывам курса.
	Stats course.ReviewStats `json:"stats"`
}

// GetCourseReviewsHandler обрабатывает GetCourseReviewsQuery.
type GetCourseReviewsHandler struct {
	courseRepo course.Repository
	reviewRepo course.ReviewRepository
	userRepo   user.Repository
}

// NewGetCourseReviewsHandler создаёт новый обработчик.
func NewGetCourseReviewsHandler(
	courseRepo course.Repository,
	reviewRepo course.ReviewRepository,
	userRepo user.Repository,
) *GetCourseReviewsHandler {
	return &GetCourseReviewsHandler{
		courseRepo: courseRepo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
	}
}

// Handle выполняет запрос отзывов курса.
func (h *GetCourseReviewsHandler) Handle(ctx context.Context, query GetCourseReviewsQuery) (*GetCourseReviewsResult, error) {
	courseID, err := shared.ParseID(query.CourseID)
	if err != nil {
		return nil, fmt.Errorf("get_course_reviews: %w", err)
	}

	exists, err := h.courseRepo.Exists(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get_course_reviews: %w", err)
	}
	if !exists {
		return nil, shared.ErrCourseNotFound
	}

	reviews, err := h.reviewRepo.ListForCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("get_course_reviews: %w", err)
	}

	// Авторы забираются одним запросом по списку ID.
	authorIDs := make([]shared.ID, len(reviews))
	for i, r := range reviews {
		authorIDs[i] = r.UserID
	}
	authors, err := h.userRepo.GetByIDs(ctx, authorIDs)
	if err != nil {
		return nil, fmt.Errorf("get_course_reviews: %w", err)
	}

	dtos := make([]ReviewDTO, len(reviews))
	for i, r := range reviews {
		dto := ReviewDTO{
			ID:          r.ID.String(),
			Rating:      r.Rating,
			Description: r.Description,
			CreatedAt:   r.CreatedAt,
			UpdatedAt:   r.UpdatedAt,
		}
		if author, ok := authors[r.UserID]; ok {
			dto.Username = author.Username
			dto.Email = author.RedactedEmail()
		}
		dtos[i] = dto
	}

	return &GetCourseReviewsResult{
		Reviews: dtos,
		Stats:   course.ComputeReviewStats(reviews),
	}, nil
}
