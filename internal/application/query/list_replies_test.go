package query

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/discussion"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

type fakeDiscussionExistence struct {
	existing map[shared.ID]bool
}

func (f *fakeDiscussionExistence) Create(_ context.Context, _ *discussion.Discussion) error {
	return nil
}
func (f *fakeDiscussionExistence) GetByID(_ context.Context, _ shared.ID) (*discussion.Discussion, error) {
	return nil, shared.ErrDiscussionNotFound
}
func (f *fakeDiscussionExistence) Update(_ context.Context, _ *discussion.Discussion) error {
	return nil
}
func (f *fakeDiscussionExistence) Delete(_ context.Context, _ shared.ID) (bool, error) {
	return false, nil
}
func (f *fakeDiscussionExistence) ListForCourse(_ context.Context, _ shared.ID, _ shared.Pagination) ([]*discussion.Discussion, int, error) {
	return nil, 0, nil
}
func (f *fakeDiscussionExistence) Exists(_ context.Context, id shared.ID) (bool, error) {
	return f.existing[id], nil
}

// fakePagedReplyRepo отдаёт страницы из фиксированного списка так же,
// как это делает SQL с LIMIT/OFFSET.
type fakePagedReplyRepo struct {
	replies []*discussion.Reply
}

func (f *fakePagedReplyRepo) Create(_ context.Context, _ *discussion.Reply) error { return nil }
func (f *fakePagedReplyRepo) GetByID(_ context.Context, _ shared.ID) (*discussion.Reply, error) {
	return nil, shared.ErrReplyNotFound
}
func (f *fakePagedReplyRepo) Tombstone(_ context.Context, _ shared.ID) error { return nil }
func (f *fakePagedReplyRepo) Exists(_ context.Context, _ shared.ID) (bool, error) {
	return false, nil
}

func (f *fakePagedReplyRepo) ListForDiscussion(_ context.Context, _ shared.ID, page shared.Pagination) ([]*discussion.Reply, int, error) {
	total := len(f.replies)
	start := page.Offset
	if start > total {
		start = total
	}
	end := total
	if page.Limit > 0 && start+page.Limit < end {
		end = start + page.Limit
	}
	return f.replies[start:end], total, nil
}

type fakeUserNames struct {
	users map[shared.ID]*user.User
}

func (f *fakeUserNames) Create(_ context.Context, _ *user.User) error { return nil }
func (f *fakeUserNames) GetByID(_ context.Context, _ shared.ID) (*user.User, error) {
	return nil, shared.ErrUserNotFound
}
func (f *fakeUserNames) GetByIDs(_ context.Context, ids []shared.ID) (map[shared.ID]*user.User, error) {
	out := make(map[shared.ID]*user.User, len(ids))
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}
func (f *fakeUserNames) Exists(_ context.Context, id shared.ID) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

func repliesFixture(t *testing.T, discussionID shared.ID, author shared.ID, n int) []*discussion.Reply {
	t.Helper()
	embedding := make(shared.Embedding, shared.EmbeddingDim)
	out := make([]*discussion.Reply, n)
	for i := range out {
		r, err := discussion.NewReply(author, discussionID, nil, fmt.Sprintf("reply %d", i), embedding)
		require.NoError(t, err)
		r.CreatedAt = time.Date(2025, 3, 10, 12, 0, i, 0, time.UTC)
		out[i] = r
	}
	return out
}

func TestListReplies_PageEnvelopeMatchesTotal(t *testing.T) {
	discussionID := shared.NewID()
	author := shared.NewID()
	discussions := &fakeDiscussionExistence{existing: map[shared.ID]bool{discussionID: true}}
	replies := &fakePagedReplyRepo{replies: repliesFixture(t, discussionID, author, 7)}
	users := &fakeUserNames{users: map[shared.ID]*user.User{}}

	handler := NewListRepliesHandler(discussions, replies, users)

	// Середина списка: окно меньше общего счётчика.
	result, err := handler.Handle(context.Background(), ListRepliesQuery{
		DiscussionID: discussionID.String(),
		Limit:        3,
		Offset:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Page.Total)
	assert.Equal(t, 3, result.Page.Offset)
	assert.Equal(t, 3, result.Page.Limit)
	assert.Equal(t, 3, result.Page.Returned)
	assert.Len(t, result.Replies, result.Page.Returned)

	// Последняя неполная страница: Returned меньше Limit, Total не меняется.
	result, err = handler.Handle(context.Background(), ListRepliesQuery{
		DiscussionID: discussionID.String(),
		Limit:        3,
		Offset:       6,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Page.Total)
	assert.Equal(t, 1, result.Page.Returned)
	assert.Len(t, result.Replies, 1)

	// Смещение за пределами списка: пустая страница, тот же Total.
	result, err = handler.Handle(context.Background(), ListRepliesQuery{
		DiscussionID: discussionID.String(),
		Limit:        3,
		Offset:       10,
	})
	require.NoError(t, err)
	assert.Equal(t, 7, result.Page.Total)
	assert.Equal(t, 0, result.Page.Returned)
	assert.Empty(t, result.Replies)
}

func TestListReplies_UnknownDiscussion(t *testing.T) {
	handler := NewListRepliesHandler(
		&fakeDiscussionExistence{existing: map[shared.ID]bool{}},
		&fakePagedReplyRepo{},
		&fakeUserNames{},
	)

	_, err := handler.Handle(context.Background(), ListRepliesQuery{
		DiscussionID: shared.NewID().String(),
	})
	assert.ErrorIs(t, err, shared.ErrDiscussionNotFound)
}

func TestListReplies_TombstonedAuthorAnonymized(t *testing.T) {
	discussionID := shared.NewID()
	author := shared.NewID()

	embedding := make(shared.Embedding, shared.EmbeddingDim)
	tombstoned, err := discussion.NewReply(author, discussionID, nil, "secret opinion", embedding)
	require.NoError(t, err)
	tombstoned.Text = discussion.TombstoneText

	handler := NewListRepliesHandler(
		&fakeDiscussionExistence{existing: map[shared.ID]bool{discussionID: true}},
		&fakePagedReplyRepo{replies: []*discussion.Reply{tombstoned}},
		&fakeUserNames{users: map[shared.ID]*user.User{author: {ID: author, Username: "alice"}}},
	)

	result, err := handler.Handle(context.Background(), ListRepliesQuery{
		DiscussionID: discussionID.String(),
	})
	require.NoError(t, err)
	require.Len(t, result.Replies, 1)
	assert.True(t, result.Replies[0].Tombstoned)
	assert.Equal(t, discussion.TombstoneText, result.Replies[0].Text)
	assert.NotEqual(t, "alice", result.Replies[0].Author)
}
