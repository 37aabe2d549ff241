// Package ranking реализует смешанное ранжирование кандидатов поиска:
// косинусная близость к запросу, смешанная с нормализованным рейтинговым
// сигналом. Пакет чистый - без хранилища и внешних зависимостей,
// вся математика проверяется юнит-тестами напрямую.
//
// Ключевое решение - двухветочная нормализация. Внутренние отзывы и
// внешние рейтинги площадок живут в несравнимых шкалах: у площадки
// счётчики глобальные (тысячи оценок), у нас - единицы. Поэтому кандидаты
// нормализуются внутри своей ветки и никогда против чужой.
package ranking

import (
	"math"
	"sort"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// PARAMETERS
// ══════════════════════════════════════════════════════════════════════════════

// Params - параметры ранжирования.
type Params struct {
	// Limit - сколько результатов вернуть. Должен быть положительным.
	Limit int

	// Threshold - порог близости: кандидаты с similarity <= Threshold
	// отбрасываются до ранжирования.
	Threshold float64

	// SimilarityWeight - вес w близости в итоговом скоре, w ∈ (0, 1).
	// Итог: w*similarity + (1-w)*normalizedEffectiveRating.
	SimilarityWeight float64
}

// DefaultParams возвращает параметры по умолчанию.
func DefaultParams() Params {
	return Params{
		Limit:            5,
		Threshold:        0.5,
		SimilarityWeight: 0.75,
	}
}

// Validate проверяет параметры.
func (p Params) Validate() error {
	if p.Limit <= 0 {
		return shared.ErrInvalidLimit
	}
	if p.Threshold < 0 || p.Threshold >= 1 {
		return shared.ErrInvalidThreshold
	}
	if p.SimilarityWeight <= 0 || p.SimilarityWeight >= 1 {
		return shared.ErrInvalidWeight
	}
	return nil
}

// WorkingSetSize - размер рабочего набора кандидатов: 2×Limit.
// Передозабор гасит перестановки после нормализации рейтингов -
// правдоподобных топ-Limit результатов хватает даже после смешивания.
func (p Params) WorkingSetSize() int {
	return 2 * p.Limit
}

// ══════════════════════════════════════════════════════════════════════════════
// CANDIDATES
// ══════════════════════════════════════════════════════════════════════════════

// Candidate - кандидат курса с сигналами для ранжирования.
type Candidate struct {
	// ID - идентификатор курса.
	ID shared.ID

	// Similarity - косинусная близость к запросу: 1 - cosineDistance.
	Similarity float64

	// Rating - средний рейтинг: внутренний агрегат, если есть отзывы,
	// иначе внешний рейтинг площадки.
	Rating float64

	// RatingCount - количество оценок того же источника, что и Rating.
	RatingCount int

	// HasInternalReviews - какая ветка нормализации применима.
	HasInternalReviews bool

	// NormalizedEffectiveRating - normRating × normPopularity,
	// заполняется при ранжировании.
	NormalizedEffectiveRating float64

	// Score - итоговый смешанный скор, заполняется при ранжировании.
	Score float64
}

// ══════════════════════════════════════════════════════════════════════════════
// COURSE RANKING
// ══════════════════════════════════════════════════════════════════════════════

// Rank выполняет полный конвейер ранжирования курсов:
//
//  1. отбрасывает кандидатов с similarity <= Threshold;
//  2. оставляет 2×Limit самых близких (рабочий набор);
//  3. нормализует рейтинги в двух независимых ветках
//     (с внутренними отзывами / без);
//  4. смешивает скор и возвращает Limit лучших по убыванию.
//
// Пустой вход - пустой результат, не ошибка.
func Rank(candidates []Candidate, p Params) ([]Candidate, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	working := aboveThreshold(candidates, p.Threshold)
	working = topBySimilarity(working, p.WorkingSetSize())
	if len(working) == 0 {
		return []Candidate{}, nil
	}

	// Разбиваем на ветки и нормализуем каждую отдельно.
	var internal, external []int
	for i := range working {
		if working[i].HasInternalReviews {
			internal = append(internal, i)
		} else {
			external = append(external, i)
		}
	}
	normalizeBranch(working, internal)
	normalizeBranch(working, external)

	w := p.SimilarityWeight
	for i := range working {
		working[i].Score = w*working[i].Similarity + (1-w)*working[i].NormalizedEffectiveRating
	}

	sort.SliceStable(working, func(i, j int) bool {
		if working[i].Score != working[j].Score {
			return working[i].Score > working[j].Score
		}
		// Стабильный добор: при равном скоре выигрывает близость.
		return working[i].Similarity > working[j].Similarity
	})

	if len(working) > p.Limit {
		working = working[:p.Limit]
	}
	return working, nil
}

// aboveThreshold оставляет кандидатов строго выше порога.
func aboveThreshold(candidates []Candidate, threshold float64) []Candidate {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Similarity > threshold {
			kept = append(kept, c)
		}
	}
	return kept
}

// topBySimilarity возвращает k самых близких кандидатов.
func topBySimilarity(candidates []Candidate, k int) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Similarity > candidates[j].Similarity
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}

// normalizeBranch вычисляет normalizedEffectiveRating для одной ветки:
//
//	normRating     = rating / 5
//	normPopularity = log(1 + count) / log(1 + maxCountInBranch)
//	effective      = normRating × normPopularity
//
// Логарифм гасит эффект популярности: один 5-звёздочный отзыв не
// перебивает сотни оценок у добротного курса. Если максимальный счётчик
// ветки равен нулю, normPopularity = 0 (защита от деления на ноль).
func normalizeBranch(working []Candidate, branch []int) {
	maxCount := 0
	for _, i := range branch {
		if working[i].RatingCount > maxCount {
			maxCount = working[i].RatingCount
		}
	}
	logMax := math.Log(1 + float64(maxCount))
	for _, i := range branch {
		normRating := working[i].Rating / 5
		normPopularity := 0.0
		if logMax > 0 {
			normPopularity = math.Log(1+float64(working[i].RatingCount)) / logMax
		}
		working[i].NormalizedEffectiveRating = normRating * normPopularity
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SOCIAL CONTENT RANKING
// ══════════════════════════════════════════════════════════════════════════════

// ContentType - тип элемента в смешанной выдаче социального поиска.
type ContentType string

const (
	// ContentDiscussion - тема обсуждения.
	ContentDiscussion ContentType = "discussion"
	// ContentReply - ответ.
	ContentReply ContentType = "reply"
)

// SocialItem - кандидат социального поиска. У обсуждений и ответов нет
// сравнимого рейтингового сигнала, поэтому ранжирование одноветочное:
// только порог и близость.
type SocialItem struct {
	// ID - идентификатор элемента.
	ID shared.ID

	// Type - discussion или reply.
	Type ContentType

	// Similarity - косинусная близость к запросу.
	Similarity float64
}

// RankSocial фильтрует по порогу и сортирует по убыванию близости.
func RankSocial(items []SocialItem, limit int, threshold float64) ([]SocialItem, error) {
	if limit <= 0 {
		return nil, shared.ErrInvalidLimit
	}
	if threshold < 0 || threshold >= 1 {
		return nil, shared.ErrInvalidThreshold
	}

	kept := make([]SocialItem, 0, len(items))
	for _, it := range items {
		if it.Similarity > threshold {
			kept = append(kept, it)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Similarity > kept[j].Similarity
	})
	if len(kept) > limit {
		kept = kept[:limit]
	}
	return kept, nil
}
