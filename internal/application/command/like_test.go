package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/domain/user"
)

type likeKey struct {
	userID     shared.ID
	objectID   shared.ID
	objectType engagement.ObjectType
}

type fakeLikeRepo struct {
	likes map[likeKey]*engagement.Like
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{likes: make(map[likeKey]*engagement.Like)}
}

func (f *fakeLikeRepo) Add(_ context.Context, l *engagement.Like) (*engagement.Like, bool, error) {
	key := likeKey{l.UserID, l.ObjectID, l.ObjectType}
	if existing, ok := f.likes[key]; ok {
		return existing, false, nil
	}
	f.likes[key] = l
	return l, true, nil
}

func (f *fakeLikeRepo) Remove(_ context.Context, userID, objectID shared.ID, objectType engagement.ObjectType) (bool, error) {
	key := likeKey{userID, objectID, objectType}
	if _, ok := f.likes[key]; !ok {
		return false, nil
	}
	delete(f.likes, key)
	return true, nil
}

func (f *fakeLikeRepo) Count(_ context.Context, objectID shared.ID, objectType engagement.ObjectType) (int, error) {
	n := 0
	for key := range f.likes {
		if key.objectID == objectID && key.objectType == objectType {
			n++
		}
	}
	return n, nil
}

func (f *fakeLikeRepo) Get(_ context.Context, userID, objectID shared.ID, objectType engagement.ObjectType) (*engagement.Like, error) {
	l, ok := f.likes[likeKey{userID, objectID, objectType}]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return l, nil
}

type fakeUserDirectory struct {
	known map[shared.ID]bool
}

func (f *fakeUserDirectory) Create(_ context.Context, _ *user.User) error { return nil }
func (f *fakeUserDirectory) GetByID(_ context.Context, _ shared.ID) (*user.User, error) {
	return nil, shared.ErrUserNotFound
}
func (f *fakeUserDirectory) GetByIDs(_ context.Context, _ []shared.ID) (map[shared.ID]*user.User, error) {
	return map[shared.ID]*user.User{}, nil
}
func (f *fakeUserDirectory) Exists(_ context.Context, id shared.ID) (bool, error) {
	return f.known[id], nil
}

type alwaysExists struct{}

func (alwaysExists) Exists(_ context.Context, _ shared.ID) (bool, error) { return true, nil }

func courseProbers() engagement.ProberSet {
	return engagement.ProberSet{
		Courses:     alwaysExists{},
		Journeys:    alwaysExists{},
		Discussions: alwaysExists{},
		Replies:     alwaysExists{},
	}
}

func TestAddLike_RepeatedLikeIsIdempotent(t *testing.T) {
	userID := shared.NewID()
	courseID := shared.NewID()
	likes := newFakeLikeRepo()
	users := &fakeUserDirectory{known: map[shared.ID]bool{userID: true}}
	publisher := &fakePublisher{}

	handler := NewAddLikeHandler(likes, users, courseProbers(), publisher)

	cmd := AddLikeCommand{
		UserID:     userID.String(),
		ObjectID:   courseID.String(),
		ObjectType: "course",
	}

	first, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.True(t, first.Created)

	// Повторный лайк той же тройки: успех, тот же ряд, Created=false.
	second, err := handler.Handle(context.Background(), cmd)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.LikeID, second.LikeID)
	assert.Len(t, likes.likes, 1)

	// Событие публикуется только при первой постановке.
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventLikeAdded, publisher.events[0].EventType())
}

func TestAddLike_UnknownUserRejected(t *testing.T) {
	handler := NewAddLikeHandler(newFakeLikeRepo(), &fakeUserDirectory{known: map[shared.ID]bool{}}, courseProbers(), nil)

	_, err := handler.Handle(context.Background(), AddLikeCommand{
		UserID:     shared.NewID().String(),
		ObjectID:   shared.NewID().String(),
		ObjectType: "course",
	})
	assert.ErrorIs(t, err, shared.ErrUserNotFound)
}

func TestRemoveLike_AbsentLikeIsNoOp(t *testing.T) {
	likes := newFakeLikeRepo()
	publisher := &fakePublisher{}

	handler := NewRemoveLikeHandler(likes, publisher)

	result, err := handler.Handle(context.Background(), RemoveLikeCommand{
		UserID:     shared.NewID().String(),
		ObjectID:   shared.NewID().String(),
		ObjectType: "discussion",
	})
	require.NoError(t, err)
	assert.False(t, result.Removed)
	// Несуществующий лайк не порождает событие.
	assert.Empty(t, publisher.events)
}

func TestRemoveLike_ExistingLikeRemoved(t *testing.T) {
	userID := shared.NewID()
	courseID := shared.NewID()
	likes := newFakeLikeRepo()
	users := &fakeUserDirectory{known: map[shared.ID]bool{userID: true}}

	addHandler := NewAddLikeHandler(likes, users, courseProbers(), nil)
	_, err := addHandler.Handle(context.Background(), AddLikeCommand{
		UserID:     userID.String(),
		ObjectID:   courseID.String(),
		ObjectType: "course",
	})
	require.NoError(t, err)

	publisher := &fakePublisher{}
	removeHandler := NewRemoveLikeHandler(likes, publisher)

	result, err := removeHandler.Handle(context.Background(), RemoveLikeCommand{
		UserID:     userID.String(),
		ObjectID:   courseID.String(),
		ObjectType: "course",
	})
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.Empty(t, likes.likes)
	require.Len(t, publisher.events, 1)
	assert.Equal(t, shared.EventLikeRemoved, publisher.events[0].EventType())
}
