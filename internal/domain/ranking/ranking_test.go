package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr bool
	}{
		{"defaults are valid", DefaultParams(), false},
		{"zero limit", Params{Limit: 0, Threshold: 0.5, SimilarityWeight: 0.75}, true},
		{"negative limit", Params{Limit: -3, Threshold: 0.5, SimilarityWeight: 0.75}, true},
		{"threshold one", Params{Limit: 5, Threshold: 1, SimilarityWeight: 0.75}, true},
		{"negative threshold", Params{Limit: 5, Threshold: -0.1, SimilarityWeight: 0.75}, true},
		{"weight zero", Params{Limit: 5, Threshold: 0.5, SimilarityWeight: 0}, true},
		{"weight one", Params{Limit: 5, Threshold: 0.5, SimilarityWeight: 1}, true},
		{"zero threshold is allowed", Params{Limit: 5, Threshold: 0, SimilarityWeight: 0.75}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRank_PopularityDampensSingleHighRating(t *testing.T) {
	// Курс A: очень близкий, 5/5 с одним отзывом.
	// Курс B: менее близкий, 4/5 с 500 отзывами.
	// Лог-нормализация популярности должна поднять B выше A.
	a := Candidate{ID: shared.NewID(), Similarity: 0.9, Rating: 5, RatingCount: 1, HasInternalReviews: true}
	b := Candidate{ID: shared.NewID(), Similarity: 0.7, Rating: 4, RatingCount: 500, HasInternalReviews: true}

	ranked, err := Rank([]Candidate{a, b}, Params{Limit: 2, Threshold: 0.5, SimilarityWeight: 0.75})
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, b.ID, ranked[0].ID, "well-reviewed course must outrank a single 5-star review")
	assert.Greater(t, ranked[0].Score, ranked[1].Score)
}

func TestRank_ThresholdIsStrict(t *testing.T) {
	at := Candidate{ID: shared.NewID(), Similarity: 0.5}
	above := Candidate{ID: shared.NewID(), Similarity: 0.51, Rating: 3, RatingCount: 10}

	ranked, err := Rank([]Candidate{at, above}, Params{Limit: 5, Threshold: 0.5, SimilarityWeight: 0.75})
	require.NoError(t, err)

	require.Len(t, ranked, 1)
	assert.Equal(t, above.ID, ranked[0].ID, "similarity exactly at threshold must be excluded")
}

func TestRank_EmptyWhenNothingQualifies(t *testing.T) {
	candidates := []Candidate{
		{ID: shared.NewID(), Similarity: 0.2},
		{ID: shared.NewID(), Similarity: 0.45},
	}

	ranked, err := Rank(candidates, DefaultParams())
	require.NoError(t, err)
	assert.Empty(t, ranked)
}

func TestRank_ResultNeverExceedsLimit(t *testing.T) {
	var candidates []Candidate
	for i := 0; i < 20; i++ {
		candidates = append(candidates, Candidate{
			ID:          shared.NewID(),
			Similarity:  0.6 + float64(i)*0.01,
			Rating:      4,
			RatingCount: i,
		})
	}

	ranked, err := Rank(candidates, Params{Limit: 3, Threshold: 0.5, SimilarityWeight: 0.8})
	require.NoError(t, err)
	assert.Len(t, ranked, 3)
}

func TestRank_OversamplesWorkingSetBeforeBlending(t *testing.T) {
	// 6-й по близости кандидат с сильным рейтинговым сигналом попадает в
	// рабочий набор 2×limit и вытесняет более близкий, но слабый.
	var candidates []Candidate
	for i := 0; i < 5; i++ {
		candidates = append(candidates, Candidate{
			ID:         shared.NewID(),
			Similarity: 0.80 + float64(i)*0.001,
			// Без рейтингового сигнала вовсе.
		})
	}
	strong := Candidate{ID: shared.NewID(), Similarity: 0.79, Rating: 5, RatingCount: 1000, HasInternalReviews: true}
	candidates = append(candidates, strong)

	ranked, err := Rank(candidates, Params{Limit: 3, Threshold: 0.5, SimilarityWeight: 0.7})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	found := false
	for _, c := range ranked {
		if c.ID == strong.ID {
			found = true
		}
	}
	assert.True(t, found, "strongly rated candidate inside the 2x working set must survive the blend")
}

func TestRank_BranchesAreNormalizedIndependently(t *testing.T) {
	// Огромный внешний счётчик не должен давить внутреннюю ветку:
	// внутри своей ветки курс с максимальным счётчиком получает
	// normPopularity = 1 независимо от чужих масштабов.
	internal := Candidate{ID: shared.NewID(), Similarity: 0.8, Rating: 5, RatingCount: 3, HasInternalReviews: true}
	external := Candidate{ID: shared.NewID(), Similarity: 0.8, Rating: 5, RatingCount: 250000, HasInternalReviews: false}

	ranked, err := Rank([]Candidate{internal, external}, Params{Limit: 2, Threshold: 0.5, SimilarityWeight: 0.5})
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	for _, c := range ranked {
		// Оба - максимум своей ветки: эффективный рейтинг 5/5 × 1.
		assert.InDelta(t, 1.0, c.NormalizedEffectiveRating, 1e-9)
	}
}

func TestRank_ZeroMaxCountGuard(t *testing.T) {
	// Ветка, где ни у кого нет оценок: normPopularity = 0, без деления на ноль.
	candidates := []Candidate{
		{ID: shared.NewID(), Similarity: 0.9, Rating: 4.5, RatingCount: 0},
		{ID: shared.NewID(), Similarity: 0.8, Rating: 3.0, RatingCount: 0},
	}

	ranked, err := Rank(candidates, Params{Limit: 2, Threshold: 0.5, SimilarityWeight: 0.75})
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	for _, c := range ranked {
		assert.Zero(t, c.NormalizedEffectiveRating)
	}
	// Остаётся чистое ранжирование по близости.
	assert.Greater(t, ranked[0].Similarity, ranked[1].Similarity)
}

func TestRank_InvalidParams(t *testing.T) {
	_, err := Rank([]Candidate{{Similarity: 0.9}}, Params{Limit: 0, Threshold: 0.5, SimilarityWeight: 0.75})
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestRankSocial_OrdersBySimilarityOnly(t *testing.T) {
	d1 := SocialItem{ID: shared.NewID(), Type: ContentDiscussion, Similarity: 0.72}
	r1 := SocialItem{ID: shared.NewID(), Type: ContentReply, Similarity: 0.91}
	d2 := SocialItem{ID: shared.NewID(), Type: ContentDiscussion, Similarity: 0.55}
	below := SocialItem{ID: shared.NewID(), Type: ContentReply, Similarity: 0.31}

	ranked, err := RankSocial([]SocialItem{d1, r1, d2, below}, 10, 0.5)
	require.NoError(t, err)

	require.Len(t, ranked, 3)
	assert.Equal(t, r1.ID, ranked[0].ID)
	assert.Equal(t, d1.ID, ranked[1].ID)
	assert.Equal(t, d2.ID, ranked[2].ID)
}

func TestRankSocial_LimitAndValidation(t *testing.T) {
	items := []SocialItem{
		{ID: shared.NewID(), Similarity: 0.9},
		{ID: shared.NewID(), Similarity: 0.8},
		{ID: shared.NewID(), Similarity: 0.7},
	}

	ranked, err := RankSocial(items, 2, 0.5)
	require.NoError(t, err)
	assert.Len(t, ranked, 2)

	_, err = RankSocial(items, 0, 0.5)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
