package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

func TestNewReview(t *testing.T) {
	userID := shared.NewID()
	courseID := shared.NewID()

	t.Run("valid review", func(t *testing.T) {
		r, err := NewReview(userID, courseID, 4, "  solid course  ")
		require.NoError(t, err)
		assert.Equal(t, 4, r.Rating)
		assert.Equal(t, "solid course", r.Description)
		assert.Equal(t, r.CreatedAt, r.UpdatedAt)
	})

	t.Run("rating bounds are inclusive", func(t *testing.T) {
		for _, rating := range []int{0, 5} {
			_, err := NewReview(userID, courseID, rating, "")
			assert.NoError(t, err)
		}
		for _, rating := range []int{-1, 6} {
			_, err := NewReview(userID, courseID, rating, "")
			assert.ErrorIs(t, err, shared.ErrValueOutOfRange)
		}
	})

	t.Run("missing references", func(t *testing.T) {
		_, err := NewReview("", courseID, 3, "")
		assert.ErrorIs(t, err, shared.ErrInvalidID)

		_, err = NewReview(userID, "", 3, "")
		assert.ErrorIs(t, err, shared.ErrInvalidID)
	})
}

func TestComputeReviewStats(t *testing.T) {
	mk := func(rating int) *Review {
		r, err := NewReview(shared.NewID(), shared.NewID(), rating, "")
		require.NoError(t, err)
		return r
	}

	t.Run("empty list", func(t *testing.T) {
		stats := ComputeReviewStats(nil)
		assert.Zero(t, stats.Count)
		assert.Zero(t, stats.Average)
		assert.False(t, stats.HasReviews())
	})

	t.Run("average rounds to two decimals", func(t *testing.T) {
		// (5 + 4 + 4) / 3 = 4.333...
		stats := ComputeReviewStats([]*Review{mk(5), mk(4), mk(4)})
		assert.Equal(t, 3, stats.Count)
		assert.Equal(t, 4.33, stats.Average)
		assert.Equal(t, 4, stats.Min)
		assert.Equal(t, 5, stats.Max)
		assert.True(t, stats.HasReviews())
	})

	t.Run("single review", func(t *testing.T) {
		stats := ComputeReviewStats([]*Review{mk(2)})
		assert.Equal(t, ReviewStats{Count: 1, Average: 2, Min: 2, Max: 2}, stats)
	})
}
