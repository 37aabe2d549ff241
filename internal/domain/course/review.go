package course

import (
	"math"
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW ENTITY
// ══════════════════════════════════════════════════════════════════════════════

// Review - внутренний отзыв пользователя о курсе.
// Инвариант: не более одного отзыва на пару (user, course). Повторная
// отправка обновляет существующий отзыв на месте, а не создаёт второй ряд.
type Review struct {
	// ID - идентификатор отзыва.
	ID shared.ID

	// UserID - автор отзыва.
	UserID shared.ID

	// CourseID - курс, к которому относится отзыв.
	CourseID shared.ID

	// Rating - целочисленная оценка от 0 до 5 включительно.
	Rating int

	// Description - необязательный текст отзыва.
	Description string

	// CreatedAt - время первой отправки.
	CreatedAt time.Time

	// UpdatedAt - время последнего обновления (равно CreatedAt для новых).
	UpdatedAt time.Time
}

// NewReview создаёт отзыв с валидацией.
func NewReview(userID, courseID shared.ID, rating int, description string) (*Review, error) {
	now := time.Now().UTC()
	r := &Review{
		ID:          shared.NewID(),
		UserID:      userID,
		CourseID:    courseID,
		Rating:      rating,
		Description: strings.TrimSpace(description),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate проверяет инварианты отзыва.
func (r *Review) Validate() error {
	if !r.UserID.IsValid() {
		return shared.ErrReviewMissingUser
	}
	if !r.CourseID.IsValid() {
		return shared.ErrReviewMissingCourse
	}
	if r.Rating < 0 || r.Rating > 5 {
		return shared.ErrInvalidReviewRating
	}
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// REVIEW STATISTICS
// ══════════════════════════════════════════════════════════════════════════════

// ReviewStats - агрегат по отзывам одного курса.
// Average округляется до двух знаков при отдаче наружу.
type ReviewStats struct {
	Count   int     `json:"count"`
	Average float64 `json:"avg"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// ComputeReviewStats считает агрегат по списку отзывов.
// Для пустого списка возвращает нулевой агрегат.
func ComputeReviewStats(reviews []*Review) ReviewStats {
	if len(reviews) == 0 {
		return ReviewStats{}
	}
	stats := ReviewStats{
		Count: len(reviews),
		Min:   reviews[0].Rating,
		Max:   reviews[0].Rating,
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
		if r.Rating < stats.Min {
			stats.Min = r.Rating
		}
		if r.Rating > stats.Max {
			stats.Max = r.Rating
		}
	}
	stats.Average = math.Round(float64(sum)/float64(len(reviews))*100) / 100
	return stats
}

// HasReviews возвращает true, если у курса есть хотя бы один внутренний отзыв.
func (s ReviewStats) HasReviews() bool {
	return s.Count > 0
}
