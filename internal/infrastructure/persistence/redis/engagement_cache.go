package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
)

// EngagementCache keeps hot like counters in front of the durable ledger.
// The ledger in PostgreSQL is the source of truth; a stale counter is
// repaired on the next miss or invalidation, never the other way round.
type EngagementCache struct {
	cache *Cache
}

// NewEngagementCache creates a new EngagementCache.
func NewEngagementCache(cache *Cache) *EngagementCache {
	return &EngagementCache{cache: cache}
}

// GetCount returns the cached like count for an object.
// Returns ErrCacheMiss when the counter is not cached.
func (e *EngagementCache) GetCount(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) (int, error) {
	key := LikeCountKey(objectType.String(), objectID.String())

	raw, err := e.cache.GetString(ctx, key)
	if err != nil {
		return 0, err
	}

	count, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(ErrCacheSerialization, err)
	}
	return count, nil
}

// SetCount stores a like count.
func (e *EngagementCache) SetCount(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType, count int) error {
	key := LikeCountKey(objectType.String(), objectID.String())
	return e.cache.SetString(ctx, key, strconv.Itoa(count), TTLLikeCount)
}

// Invalidate drops the cached counter for an object. Called after every
// like mutation so readers fall back to the ledger.
func (e *EngagementCache) Invalidate(ctx context.Context, objectID shared.ID, objectType engagement.ObjectType) error {
	key := LikeCountKey(objectType.String(), objectID.String())
	return e.cache.Delete(ctx, key)
}

// ReviewStatsCache keeps review aggregates per course.
type ReviewStatsCache struct {
	cache *Cache
}

// NewReviewStatsCache creates a new ReviewStatsCache.
func NewReviewStatsCache(cache *Cache) *ReviewStatsCache {
	return &ReviewStatsCache{cache: cache}
}

// StatsEntry is the cached shape of one course's review aggregate.
type StatsEntry struct {
	Count   int     `json:"count"`
	Average float64 `json:"avg"`
	Min     int     `json:"min"`
	Max     int     `json:"max"`
}

// Get returns the cached aggregate for a course.
func (r *ReviewStatsCache) Get(ctx context.Context, courseID shared.ID) (*StatsEntry, error) {
	var entry StatsEntry
	if err := r.cache.Get(ctx, ReviewStatsKey(courseID.String()), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Set stores the aggregate for a course.
func (r *ReviewStatsCache) Set(ctx context.Context, courseID shared.ID, entry StatsEntry) error {
	return r.cache.Set(ctx, ReviewStatsKey(courseID.String()), entry, TTLReviewStats)
}

// Invalidate drops the cached aggregate for a course. Called after a
// review is submitted, updated or deleted.
func (r *ReviewStatsCache) Invalidate(ctx context.Context, courseID shared.ID) error {
	return r.cache.Delete(ctx, ReviewStatsKey(courseID.String()))
}

// InvalidateAll clears all cached aggregates.
func (r *ReviewStatsCache) InvalidateAll(ctx context.Context) error {
	return r.cache.DeleteByPattern(ctx, PrefixStats+"*")
}
