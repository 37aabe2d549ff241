package ranking

import (
	"context"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// RETRIEVAL CONTRACT
// Контракт векторного поиска. Реализация - в infrastructure/persistence,
// где близость считает сама база по оператору косинусного расстояния.
// ══════════════════════════════════════════════════════════════════════════════

// CourseMatch - курс-кандидат из векторного поиска вместе с сигналами,
// нужными конвейеру ранжирования: близость и агрегат внутренних отзывов.
type CourseMatch struct {
	// Course - найденный курс целиком.
	Course *course.Course

	// Similarity - косинусная близость к запросу: 1 - cosineDistance.
	Similarity float64

	// Stats - агрегат внутренних отзывов (нулевой, если отзывов нет).
	Stats course.ReviewStats
}

// Candidate переводит совпадение в кандидата конвейера: при наличии
// внутренних отзывов их средний рейтинг и счётчик вытесняют внешние.
func (m CourseMatch) Candidate() Candidate {
	c := Candidate{
		ID:          m.Course.ID,
		Similarity:  m.Similarity,
		Rating:      m.Course.Rating.Value,
		RatingCount: m.Course.Rating.Count,
	}
	if m.Stats.HasReviews() {
		c.Rating = m.Stats.Average
		c.RatingCount = m.Stats.Count
		c.HasInternalReviews = true
	}
	return c
}

// SocialMatch - обсуждение или ответ из векторного поиска.
type SocialMatch struct {
	// ID - идентификатор элемента.
	ID shared.ID

	// Type - discussion или reply.
	Type ContentType

	// Title - заголовок темы (пусто для ответов).
	Title string

	// Text - текст темы или ответа.
	Text string

	// UserID - автор.
	UserID shared.ID

	// DiscussionID - для ответов: тема, к которой относится ответ.
	// Для тем совпадает с ID.
	DiscussionID shared.ID

	// CreatedAt - время создания.
	CreatedAt time.Time

	// Similarity - косинусная близость к запросу.
	Similarity float64
}

// Item переводит совпадение в элемент одноветочного ранжирования.
func (m SocialMatch) Item() SocialItem {
	return SocialItem{ID: m.ID, Type: m.Type, Similarity: m.Similarity}
}

// Retriever выполняет векторный поиск кандидатов.
type Retriever interface {
	// SimilarCourses возвращает до k курсов с близостью строго выше
	// порога, по убыванию близости, вместе с агрегатами отзывов.
	SimilarCourses(ctx context.Context, query shared.Embedding, threshold float64, k int) ([]CourseMatch, error)

	// SimilarSocial возвращает до k обсуждений и ответов с близостью
	// строго выше порога, по убыванию близости. Надгробия не участвуют.
	SimilarSocial(ctx context.Context, query shared.Embedding, threshold float64, k int) ([]SocialMatch, error)
}
