package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	t.Run("new IDs are valid and unique", func(t *testing.T) {
		a, b := NewID(), NewID()
		assert.True(t, a.IsValid())
		assert.True(t, b.IsValid())
		assert.NotEqual(t, a, b)
	})

	t.Run("parse round trip", func(t *testing.T) {
		original := NewID()
		parsed, err := ParseID(original.String())
		require.NoError(t, err)
		assert.Equal(t, original, parsed)
	})

	t.Run("malformed input", func(t *testing.T) {
		for _, s := range []string{"", "not-a-uuid", "1234"} {
			_, err := ParseID(s)
			assert.ErrorIs(t, err, ErrInvalidID)
		}
	})
}

func TestNewEmbedding(t *testing.T) {
	values := make([]float32, EmbeddingDim)
	emb, err := NewEmbedding(values)
	require.NoError(t, err)
	assert.True(t, emb.IsValid())
	assert.True(t, emb.IsZero())

	_, err = NewEmbedding(make([]float32, 100))
	assert.ErrorIs(t, err, ErrValidation)

	_, err = NewEmbedding(nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEmbedding_CosineSimilarity(t *testing.T) {
	a := make(Embedding, EmbeddingDim)
	b := make(Embedding, EmbeddingDim)
	a[0] = 1
	b[0] = 1

	assert.InDelta(t, 1.0, a.CosineSimilarity(b), 1e-6)

	b[0] = 0
	b[1] = 1
	assert.InDelta(t, 0.0, a.CosineSimilarity(b), 1e-6)
}

func TestPagination_Normalize(t *testing.T) {
	p := Pagination{Limit: -5, Offset: -1}.Normalize()
	assert.Equal(t, Pagination{}, p)

	p = Pagination{Limit: 20, Offset: 40}.Normalize()
	assert.Equal(t, Pagination{Limit: 20, Offset: 40}, p)
}

func TestRedactEmail(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"reviewer@example.com", "r******r@example.com"},
		{"ab@example.com", "**@example.com"},
		{"a@example.com", "*@example.com"},
		{"no-at-sign", "no-at-sign"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, RedactEmail(tt.input))
	}
}
