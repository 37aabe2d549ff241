package eventhandler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

type fakeStatsCache struct {
	invalidated []shared.ID
}

func (f *fakeStatsCache) Invalidate(_ context.Context, courseID shared.ID) error {
	f.invalidated = append(f.invalidated, courseID)
	return nil
}

type fakeCountCache struct {
	objectIDs   []shared.ID
	objectTypes []engagement.ObjectType
}

func (f *fakeCountCache) Invalidate(_ context.Context, objectID shared.ID, objectType engagement.ObjectType) error {
	f.objectIDs = append(f.objectIDs, objectID)
	f.objectTypes = append(f.objectTypes, objectType)
	return nil
}

func TestOnReviewChanged_InvalidatesStatsForCourse(t *testing.T) {
	cache := &fakeStatsCache{}
	handler := NewOnReviewChangedHandler(cache, nil)

	courseID := shared.NewID()
	event := shared.ReviewSubmittedEvent{
		BaseEvent: shared.NewBaseEvent(shared.EventReviewSubmitted, courseID.String()),
		ReviewID:  shared.NewID().String(),
		CourseID:  courseID.String(),
		UserID:    shared.NewID().String(),
		Rating:    5,
	}

	err := handler.Handle(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, cache.invalidated, 1)
	assert.Equal(t, courseID, cache.invalidated[0])
}

func TestOnReviewChanged_MalformedEventIsSkipped(t *testing.T) {
	cache := &fakeStatsCache{}
	handler := NewOnReviewChangedHandler(cache, nil)

	// Событие без course_id в payload не должно ронять обработчик.
	event := shared.NewBaseEvent(shared.EventReviewSubmitted, "not-a-uuid")

	err := handler.Handle(context.Background(), event)
	require.NoError(t, err)
	assert.Empty(t, cache.invalidated)
}

func TestOnLikeChanged_InvalidatesCount(t *testing.T) {
	cache := &fakeCountCache{}
	handler := NewOnLikeChangedHandler(cache, nil)

	objectID := shared.NewID()
	event := shared.LikeChangedEvent{
		BaseEvent:  shared.NewBaseEvent(shared.EventLikeAdded, objectID.String()),
		UserID:     shared.NewID().String(),
		ObjectID:   objectID.String(),
		ObjectType: engagement.ObjectCourse.String(),
	}

	err := handler.Handle(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, cache.objectIDs, 1)
	assert.Equal(t, objectID, cache.objectIDs[0])
	assert.Equal(t, engagement.ObjectCourse, cache.objectTypes[0])
}
