package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, _ string) (shared.Embedding, error) {
	return make(shared.Embedding, shared.EmbeddingDim), nil
}

func (fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([]shared.Embedding, error) {
	out := make([]shared.Embedding, len(texts))
	for i := range out {
		out[i] = make(shared.Embedding, shared.EmbeddingDim)
	}
	return out, nil
}

type fakePublisher struct {
	events []shared.Event
}

func (p *fakePublisher) Publish(_ context.Context, event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

type fakeDiscussionRepo struct {
	existing map[shared.ID]bool
}

func (f *fakeDiscussionRepo) Create(_ context.Context, _ *discussion.Discussion) error { return nil }
func (f *fakeDiscussionRepo) GetByID(_ context.Context, _ shared.ID) (*discussion.Discussion, error) {
	return nil, shared.ErrDiscussionNotFound
}
func (f *fakeDiscussionRepo) Update(_ context.Context, _ *discussion.Discussion) error { return nil }
func (f *fakeDiscussionRepo) Delete(_ context.Context, _ shared.ID) (bool, error)      { return false, nil }
func (f *fakeDiscussionRepo) ListForCourse(_ context.Context, _ shared.ID, _ shared.Pagination) ([]*discussion.Discussion, int, error) {
	return nil, 0, nil
}
func (f *fakeDiscussionRepo) Exists(_ context.Context, id shared.ID) (bool, error) {
	return f.existing[id], nil
}

type fakeReplyRepo struct {
	replies    map[shared.ID]*discussion.Reply
	tombstoned []shared.ID
}

func newFakeReplyRepo() *fakeReplyRepo {
	return &fakeReplyRepo{replies: make(map[shared.ID]*discussion.Reply)}
}

func (f *fakeReplyRepo) Create(_ context.Context, r *discussion.Reply) error {
	f.replies[r.ID] = r
	return nil
}

func (f *fakeReplyRepo) GetByID(_ context.Context, id shared.ID) (*discussion.Reply, error) {
	r, ok := f.replies[id]
	if !ok {
		return nil, shared.ErrReplyNotFound
	}
	return r, nil
}

func (f *fakeReplyRepo) ListForDiscussion(_ context.Context, _ shared.ID, _ shared.Pagination) ([]*discussion.Reply, int, error) {
	return nil, 0, nil
}

func (f *fakeReplyRepo) Tombstone(_ context.Context, id shared.ID) error {
	r, ok := f.replies[id]
	if !ok {
		return shared.ErrReplyNotFound
	}
	r.Text = discussion.TombstoneText
	f.tombstoned = append(f.tombstoned, id)
	return nil
}

func (f *fakeReplyRepo) Exists(_ context.Context, id shared.ID) (bool, error) {
	_, ok := f.replies[id]
	return ok, nil
}

func TestPostReply_TopLevel(t *testing.T) {
	discussionID := shared.NewID()
	discussions := &fakeDiscussionRepo{existing: map[shared.ID]bool{discussionID: true}}
	replies := newFakeReplyRepo()
	publisher := &fakePublisher{}

	handler := NewPostReplyHandler(replies, discussions, fakeEmbedder{}, publisher)

	result, err := handler.Handle(context.Background(), PostReplyCommand{
		UserID:       shared.NewID().String(),
		DiscussionID: discussionID.String(),
		Text:         "use a buffered channel here",
	})
	require.NoError(t, err)

	stored := replies.replies[result.ReplyID]
	require.NotNil(t, stored)
	assert.Nil(t, stored.ParentReplyID)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventReplyPosted, publisher.events[0].EventType())
}

func TestPostReply_UnknownDiscussion(t *testing.T) {
	handler := NewPostReplyHandler(newFakeReplyRepo(), &fakeDiscussionRepo{existing: map[shared.ID]bool{}}, fakeEmbedder{}, nil)

	_, err := handler.Handle(context.Background(), PostReplyCommand{
		UserID:       shared.NewID().String(),
		DiscussionID: shared.NewID().String(),
		Text:         "hello",
	})
	assert.ErrorIs(t, err, shared.ErrDiscussionNotFound)
}

func TestPostReply_ParentFromAnotherDiscussionRejected(t *testing.T) {
	discussionID := shared.NewID()
	otherID := shared.NewID()
	discussions := &fakeDiscussionRepo{existing: map[shared.ID]bool{discussionID: true, otherID: true}}
	replies := newFakeReplyRepo()

	embedding := make(shared.Embedding, shared.EmbeddingDim)
	parent, err := discussion.NewReply(shared.NewID(), otherID, nil, "parent in another thread", embedding)
	require.NoError(t, err)
	replies.replies[parent.ID] = parent

	handler := NewPostReplyHandler(replies, discussions, fakeEmbedder{}, nil)

	_, err = handler.Handle(context.Background(), PostReplyCommand{
		UserID:        shared.NewID().String(),
		DiscussionID:  discussionID.String(),
		ParentReplyID: parent.ID.String(),
		Text:          "reply",
	})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestTombstoneReply_OnlyAuthor(t *testing.T) {
	author := shared.NewID()
	embedding := make(shared.Embedding, shared.EmbeddingDim)
	reply, err := discussion.NewReply(author, shared.NewID(), nil, "original text", embedding)
	require.NoError(t, err)

	replies := newFakeReplyRepo()
	replies.replies[reply.ID] = reply

	handler := NewTombstoneReplyHandler(replies, &fakePublisher{})

	// Чужой пользователь получает отказ.
	_, err = handler.Handle(context.Background(), TombstoneReplyCommand{
		ReplyID: reply.ID.String(),
		UserID:  shared.NewID().String(),
	})
	assert.ErrorIs(t, err, shared.ErrForbidden)

	// Автор ставит надгробие.
	result, err := handler.Handle(context.Background(), TombstoneReplyCommand{
		ReplyID: reply.ID.String(),
		UserID:  author.String(),
	})
	require.NoError(t, err)
	assert.False(t, result.AlreadyTombstoned)
	assert.Equal(t, discussion.TombstoneText, reply.Text)
}

func TestTombstoneReply_Idempotent(t *testing.T) {
	author := shared.NewID()
	embedding := make(shared.Embedding, shared.EmbeddingDim)
	reply, err := discussion.NewReply(author, shared.NewID(), nil, "text", embedding)
	require.NoError(t, err)
	reply.Text = discussion.TombstoneText

	replies := newFakeReplyRepo()
	replies.replies[reply.ID] = reply
	publisher := &fakePublisher{}

	handler := NewTombstoneReplyHandler(replies, publisher)

	result, err := handler.Handle(context.Background(), TombstoneReplyCommand{
		ReplyID: reply.ID.String(),
		UserID:  author.String(),
	})
	require.NoError(t, err)
	assert.True(t, result.AlreadyTombstoned)
	// Повторное удаление не публикует событие.
	assert.Empty(t, publisher.events)
	assert.Empty(t, replies.tombstoned)
}
