package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSchedule_Next(t *testing.T) {
	s := NewIntervalSchedule(6 * time.Hour)

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, now.Add(6*time.Hour), s.Next(now))
	assert.Equal(t, "@every 6h0m0s", s.String())
}

func TestDailySchedule_Next(t *testing.T) {
	s := NewDailySchedule(4, 30)

	// Before the scheduled time: fires today.
	morning := time.Date(2025, 3, 10, 2, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC), s.Next(morning))

	// After the scheduled time: fires tomorrow.
	evening := time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 11, 4, 30, 0, 0, time.UTC), s.Next(evening))

	// Exactly at the scheduled time: fires tomorrow, not immediately again.
	exact := time.Date(2025, 3, 10, 4, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 11, 4, 30, 0, 0, time.UTC), s.Next(exact))

	assert.Equal(t, "@daily 04:30", s.String())
}

func TestDailySchedule_HonorsLocation(t *testing.T) {
	s := NewDailySchedule(4, 0)

	loc := time.FixedZone("UTC+5", 5*3600)
	now := time.Date(2025, 3, 10, 1, 0, 0, 0, loc)

	next := s.Next(now)
	assert.Equal(t, loc, next.Location())
	assert.Equal(t, 4, next.Hour())
}
