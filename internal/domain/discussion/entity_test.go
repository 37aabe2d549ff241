package discussion

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

func TestNewDiscussion(t *testing.T) {
	emb := testEmbedding(t)

	t.Run("valid discussion", func(t *testing.T) {
		d, err := NewDiscussion(shared.NewID(), "  Which course first?  ", "mlops vs classic ml", emb)
		require.NoError(t, err)
		assert.Equal(t, "Which course first?", d.Title)
		assert.True(t, d.ID.IsValid())
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := NewDiscussion(shared.NewID(), "   ", "body", emb)
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("missing author", func(t *testing.T) {
		_, err := NewDiscussion("", "title", "body", emb)
		assert.ErrorIs(t, err, shared.ErrInvalidID)
	})
}

func TestReply_Tombstone(t *testing.T) {
	author := shared.NewID()
	emb := testEmbedding(t)

	reply, err := NewReply(author, shared.NewID(), nil, "try the stanford one", emb)
	require.NoError(t, err)

	assert.Equal(t, ReplyActive, reply.State())
	assert.False(t, reply.IsTombstoned())
	assert.Equal(t, "alice", reply.PublicAuthor("alice"))

	// Состояние выводится из текста: надгробие это просто текст-заглушка.
	reply.Text = TombstoneText
	assert.Equal(t, ReplyTombstoned, reply.State())
	assert.True(t, reply.IsTombstoned())
	assert.Equal(t, AnonymousAuthor, reply.PublicAuthor("alice"))
}

func TestReply_CanTombstone(t *testing.T) {
	author := shared.NewID()
	reply, err := NewReply(author, shared.NewID(), nil, "text", testEmbedding(t))
	require.NoError(t, err)

	assert.NoError(t, reply.CanTombstone(author))
	assert.ErrorIs(t, reply.CanTombstone(shared.NewID()), shared.ErrForbidden)
}

func TestNewReply_Validation(t *testing.T) {
	emb := testEmbedding(t)
	discussionID := shared.NewID()

	t.Run("empty text", func(t *testing.T) {
		_, err := NewReply(shared.NewID(), discussionID, nil, "   ", emb)
		assert.ErrorIs(t, err, shared.ErrEmptyValue)
	})

	t.Run("nested reply keeps parent", func(t *testing.T) {
		parent := shared.NewID()
		r, err := NewReply(shared.NewID(), discussionID, &parent, "nested", emb)
		require.NoError(t, err)
		require.NotNil(t, r.ParentReplyID)
		assert.Equal(t, parent, *r.ParentReplyID)
	})
}
