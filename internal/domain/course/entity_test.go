package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

func testEmbedding(t *testing.T) shared.Embedding {
	t.Helper()
	values := make([]float32, shared.EmbeddingDim)
	values[0] = 1
	emb, err := shared.NewEmbedding(values)
	require.NoError(t, err)
	return emb
}

func TestParsePlatform(t *testing.T) {
	tests := []struct {
		input   string
		want    Platform
		wantErr bool
	}{
		{"coursera", PlatformCoursera, false},
		{"Coursera", PlatformCoursera, false},
		{"  UDEMY  ", PlatformUdemy, false},
		{"edx", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePlatform(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewCourse(t *testing.T) {
	emb := testEmbedding(t)

	t.Run("valid course", func(t *testing.T) {
		c, err := NewCourse("  Go Basics  ", "intro", PlatformUdemy, "https://udemy.com/go-basics", emb)
		require.NoError(t, err)
		assert.Equal(t, "Go Basics", c.Title)
		assert.True(t, c.ID.IsValid())

		platform, url := c.Identity()
		assert.Equal(t, PlatformUdemy, platform)
		assert.Equal(t, "https://udemy.com/go-basics", url)
	})

	t.Run("missing title", func(t *testing.T) {
		_, err := NewCourse("   ", "d", PlatformUdemy, "https://u.com/x", emb)
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("unknown platform", func(t *testing.T) {
		_, err := NewCourse("t", "d", Platform("edx"), "https://u.com/x", emb)
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})

	t.Run("missing url", func(t *testing.T) {
		_, err := NewCourse("t", "d", PlatformCoursera, "", emb)
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("wrong embedding size", func(t *testing.T) {
		_, err := NewCourse("t", "d", PlatformCoursera, "https://u.com/x", make(shared.Embedding, 3))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestCourse_Validate_ExternalRating(t *testing.T) {
	c, err := NewCourse("t", "d", PlatformCoursera, "https://u.com/x", testEmbedding(t))
	require.NoError(t, err)

	c.Rating = ExternalRating{Value: 5.5, Count: 10}
	assert.ErrorIs(t, c.Validate(), shared.ErrValueOutOfRange)

	c.Rating = ExternalRating{Value: 4.7, Count: -1}
	assert.ErrorIs(t, c.Validate(), shared.ErrValueOutOfRange)

	c.Rating = ExternalRating{Value: 4.7, Count: 120000}
	assert.NoError(t, c.Validate())
}

func TestCourse_EmbeddingText(t *testing.T) {
	c := &Course{
		Title:       "Distributed Systems",
		Description: "consensus and replication",
		Skills:      []string{"raft", "grpc"},
	}
	assert.Equal(t, "Distributed Systems\nconsensus and replication\nraft, grpc", c.EmbeddingText())

	bare := &Course{Title: "Solo"}
	assert.Equal(t, "Solo", bare.EmbeddingText())
}
