package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/ranking"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEARCH DISCUSSIONS QUERY
// Семантический поиск по обсуждениям и ответам. У социального контента нет
// сравнимого рейтингового сигнала, поэтому ранжирование одноветочное:
// только порог и близость. Надгробия в выдачу не попадают.
// ══════════════════════════════════════════════════════════════════════════════

// SearchDiscussionsQuery содержит параметры поиска.
type SearchDiscussionsQuery struct {
	// Text - поисковый запрос. Обязательное поле.
	Text string

	// Limit - сколько результатов вернуть (0 = значение по умолчанию).
	Limit int

	// Threshold - порог близости (0 = значение по умолчанию).
	Threshold float64
}

// SocialSearchResultDTO - одно обсуждение или ответ в выдаче.
type SocialSearchResultDTO struct {
	// ID - идентификатор элемента.
	ID string `json:"id"`

	// Type - "discussion" или "reply".
	Type string `json:"type"`

	// Title - заголовок темы (пусто для ответов).
	Title string `json:"title,omitempty"`

	// Text - текст темы или ответа.
	Text string `json:"text"`

	// DiscussionID - тема, к которой относится элемент.
	DiscussionID string `json:"discussion_id"`

	// Similarity - косинусная близость к запросу.
	Similarity float64 `json:"similarity"`

	// CreatedAt - время создания элемента.
	CreatedAt time.Time `json:"created_at"`
}

// SearchDiscussionsResult содержит поисковую выдачу.
type SearchDiscussionsResult struct {
	// Results - элементы по убыванию близости.
	Results []SocialSearchResultDTO `json:"results"`

	// Query - исходный текст запроса.
	Query string `json:"query"`

	// GeneratedAt - время выполнения поиска.
	GeneratedAt time.Time `json:"generated_at"`
}

// SearchDiscussionsHandler обрабатывает SearchDiscussionsQuery.
type SearchDiscussionsHandler struct {
	embedder  Embedder
	retriever ranking.Retriever
}

// NewSearchDiscussionsHandler создаёт новый обработчик.
func NewSearchDiscussionsHandler(embedder Embedder, retriever ranking.Retriever) *SearchDiscussionsHandler {
	return &SearchDiscussionsHandler{
		embedder:  embedder,
		retriever: retriever,
	}
}

// Handle выполняет семантический поиск по социальному контенту.
func (h *SearchDiscussionsHandler) Handle(ctx context.Context, query SearchDiscussionsQuery) (*SearchDiscussionsResult, error) {
	text := strings.TrimSpace(query.Text)
	if text == "" {
		return nil, shared.WrapError("query", "SearchDiscussions", shared.ErrEmptyValue, "search text is required", nil)
	}

	defaults := ranking.DefaultParams()
	limit := query.Limit
	if limit <= 0 {
		limit = defaults.Limit
	}
	threshold := query.Threshold
	if threshold <= 0 {
		threshold = defaults.Threshold
	}

	embedding, err := h.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("search_discussions: embed: %w", err)
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("search_discussions: %w", shared.ErrEmptyQueryEmbedding)
	}

	matches, err := h.retriever.SimilarSocial(ctx, embedding, threshold, limit)
	if err != nil {
		return nil, fmt.Errorf("search_discussions: %w", err)
	}

	items := make([]ranking.SocialItem, len(matches))
	byID := make(map[shared.ID]ranking.SocialMatch, len(matches))
	for i, m := range matches {
		items[i] = m.Item()
		byID[m.ID] = m
	}

	ranked, err := ranking.RankSocial(items, limit, threshold)
	if err != nil {
		return nil, fmt.Errorf("search_discussions: %w", err)
	}

	results := make([]SocialSearchResultDTO, 0, len(ranked))
	for _, it := range ranked {
		m, ok := byID[it.ID]
		if !ok {
			continue
		}
		results = append(results, SocialSearchResultDTO{
			ID:           m.ID.String(),
			Type:         string(m.Type),
			Title:        m.Title,
			Text:         m.Text,
			DiscussionID: m.DiscussionID.String(),
			Similarity:   m.Similarity,
			CreatedAt:    m.CreatedAt,
		})
	}

	return &SearchDiscussionsResult{
		Results:     results,
		Query:       text,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
