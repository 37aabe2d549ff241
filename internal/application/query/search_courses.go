// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/ranking"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// Embedder превращает текст запроса в вектор. Тот же контракт, что и у
// команд; реализация живёт в infrastructure/external.
type Embedder interface {
	Embed(ctx context.Context, text string) (shared.Embedding, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH COURSES QUERY
// Семантический поиск курсов: эмбеддинг запроса, векторный отбор кандидатов
// в базе, затем смешанное ранжирование (близость + нормализованный рейтинг).
// ══════════════════════════════════════════════════════════════════════════════

// SearchCoursesQuery содержит параметры поиска.
type SearchCoursesQuery struct {
	// Text - поисковый запрос на естественном языке. Обязательное поле.
	Text string

	// Limit - сколько результатов вернуть (0 = значение по умолчанию).
	Limit int

	// Threshold - порог близости (0 = значение по умолчанию).
	Threshold float64

	// SimilarityWeight - вес близости в скоре (0 = по умолчанию).
	SimilarityWeight float64
}

// params переводит запрос в параметры ранжирования, подставляя значения
// по умолчанию для незаданных полей.
func (q SearchCoursesQuery) params() ranking.Params {
	p := ranking.DefaultParams()
	if q.Limit > 0 {
		p.Limit = q.Limit
	}
	if q.Threshold > 0 {
		p.Threshold = q.Threshold
	}
	if q.SimilarityWeight > 0 {
		p.SimilarityWeight = q.SimilarityWeight
	}
	return p
}

// CourseSearchResultDTO - один курс в поисковой выдаче.
type CourseSearchResultDTO struct {
	// CourseID - идентификатор курса.
	CourseID string `json:"course_id"`

	// Title - название курса.
	Title string `json:"title"`

	// Description - описание.
	Description string `json:"description,omitempty"`

	// Platform - площадка-источник.
	Platform string `json:"platform"`

	// URL - ссылка на курс.
	URL string `json:"url"`

	// ImageURL - обложка.
	ImageURL string `json:"image_url,omitempty"`

	// IsFree - бесплатный ли курс.
	IsFree bool `json:"is_free"`

	// Authors - авторы курса.
	Authors []string `json:"authors,omitempty"`

	// Skills - навыки курса.
	Skills []string `json:"skills,omitempty"`

	// Similarity - косинусная близость к запросу.
	Similarity float64 `json:"similarity"`

	// Score - итоговый смешанный скор.
	Score float64 `json:"score"`

	// Rating - рейтинг, использованный при ранжировании.
	Rating float64 `json:"rating"`

	// RatingCount - счётчик оценок того же источника.
	RatingCount int `json:"rating_count"`

	// RatingSource - "internal" (наши отзывы) или "platform".
	RatingSource string `json:"rating_source"`
}

// SearchCoursesResult содержит поисковую выдачу.
type SearchCoursesResult struct {
	// Results - курсы по убыванию скора.
	Results []CourseSearchResultDTO `json:"results"`

	// Query - исходный текст запроса.
	Query string `json:"query"`

	// GeneratedAt - время выполнения поиска.
	GeneratedAt time.Time `json:"generated_at"`
}

// SearchCoursesHandler обрабатывает SearchCoursesQuery.
type SearchCoursesHandler struct {
	embedder  Embedder
	retriever ranking.Retriever
}

// NewSearchCoursesHandler создаёт новый обработчик.
func NewSearchCoursesHandler(embedder Embedder, retriever ranking.Retriever) *SearchCoursesHandler {
	return &SearchCoursesHandler{
		embedder:  embedder,
		retriever: retriever,
	}
}

// Handle выполняет семантический поиск курсов.
func (h *SearchCoursesHandler) Handle(ctx context.Context, query SearchCoursesQuery) (*SearchCoursesResult, error) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, shared.WrapError("query", "SearchCourses", shared.ErrEmptyValue, "search text is required", nil)
	}

	p := query.params()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("search_courses: %w", err)
	}

	embedding, err := h.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search_courses: embed: %w", err)
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("search_courses: %w", shared.ErrEmptyQueryEmbedding)
	}

	// База возвращает рабочий набор 2×Limit: передозабор гасит
	// перестановки после нормализации рейтингов.
	matches, err := h.retriever.SimilarCourses(ctx, embedding, p.Threshold, p.WorkingSetSize())
	if err != nil {
		return nil, fmt.Errorf("search_courses: %w", err)
	}

	candidates := make([]ranking.Candidate, len(matches))
	byID := make(map[shared.ID]ranking.CourseMatch, len(matches))
	for i, m := range matches {
		candidates[i] = m.Candidate()
		byID[m.Course.ID] = m
	}

	ranked, err := ranking.Rank(candidates, p)
	if err != nil {
		return nil, fmt.Errorf("search_courses: %w", err)
	}

	results := make([]CourseSearchResultDTO, 0, len(ranked))
	for _, c := range ranked {
		match, ok := byID[c.ID]
		if !ok {
			continue
		}
		results = append(results, toCourseSearchDTO(match, c))
	}

	return &SearchCoursesResult{
		Results:     results,
		Query:       text,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// toCourseSearchDTO собирает DTO выдачи из совпадения и скорингового кандидата.
func toCourseSearchDTO(m ranking.CourseMatch, c ranking.Candidate) CourseSearchResultDTO {
	dto := CourseSearchResultDTO{
		CourseID:    m.Course.ID.String(),
		Title:       m.Course.Title,
		Description: m.Course.Description,
		Platform:    m.Course.Platform.String(),
		URL:         m.Course.URL,
		ImageURL:    m.Course.ImageURL,
		IsFree:      m.Course.IsFree,
		Authors:     m.Course.Authors,
		Skills:      m.Course.Skills,
		Similarity:  c.Similarity,
		Score:       c.Score,
		Rating:      c.Rating,
		RatingCount: c.RatingCount,
	}
	if c.HasInternalReviews {
		dto.RatingSource = "internal"
	} else {
		dto.RatingSource = "platform"
	}
	return dto
}
