package engagement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

func TestParseObjectType(t *testing.T) {
	tests := []struct {
		input   string
		want    ObjectType
		wantErr bool
	}{
		{"course", ObjectCourse, false},
		{"Journey", ObjectJourney, false},
		{" DISCUSSION ", ObjectDiscussion, false},
		{"reply", ObjectReply, false},
		{"user", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseObjectType(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewLike(t *testing.T) {
	userID := shared.NewID()
	objectID := shared.NewID()

	t.Run("valid like", func(t *testing.T) {
		l, err := NewLike(userID, objectID, ObjectCourse)
		require.NoError(t, err)
		assert.True(t, l.ID.IsValid())
		assert.Equal(t, ObjectCourse, l.ObjectType)
	})

	t.Run("missing user", func(t *testing.T) {
		_, err := NewLike("", objectID, ObjectReply)
		assert.ErrorIs(t, err, shared.ErrInvalidID)
	})

	t.Run("missing object", func(t *testing.T) {
		_, err := NewLike(userID, "", ObjectReply)
		assert.ErrorIs(t, err, shared.ErrInvalidID)
	})

	t.Run("unknown object type", func(t *testing.T) {
		_, err := NewLike(userID, objectID, ObjectType("comment"))
		assert.ErrorIs(t, err, shared.ErrInvalidInput)
	})
}
