package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/domain/course"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/persistence/redis"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFRESH STATS JOB
// ══════════════════════════════════════════════════════════════════════════════

// StatsWarmer is the cache the job writes aggregates into.
type StatsWarmer interface {
	Set(ctx context.Context, courseID shared.ID, entry redis.StatsEntry) error
}

// RefreshStatsJob recomputes review aggregates for the whole catalog and
// warms the redis cache. Normal traffic invalidates entries one at a time;
// this job repairs anything missed and keeps cold entries from expiring
// into a thundering herd of recomputes.
type RefreshStatsJob struct {
	courseRepo course.Repository
	reviewRepo course.ReviewRepository
	statsCache StatsWarmer
	logger     *slog.Logger
	config     RefreshStatsConfig
}

// RefreshStatsConfig contains configuration for the refresh job.
type RefreshStatsConfig struct {
	// BatchSize is the number of courses whose aggregates are fetched
	// in one repository round trip.
	BatchSize int

	// Timeout is the maximum duration for the entire run.
	Timeout time.Duration
}

// DefaultRefreshStatsConfig returns sensible defaults.
func DefaultRefreshStatsConfig() RefreshStatsConfig {
	return RefreshStatsConfig{
		BatchSize: 200,
		Timeout:   10 * time.Minute,
	}
}

// NewRefreshStatsJob creates a new stats refresh job.
func NewRefreshStatsJob(
	courseRepo course.Repository,
	reviewRepo course.ReviewRepository,
	statsCache StatsWarmer,
	logger *slog.Logger,
	config RefreshStatsConfig,
) *RefreshStatsJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = 200
	}

	return &RefreshStatsJob{
		courseRepo: courseRepo,
		reviewRepo: reviewRepo,
		statsCache: statsCache,
		logger:     logger.With("job", "refresh_stats"),
		config:     config,
	}
}

// Name implements scheduler.Job.
func (j *RefreshStatsJob) Name() string {
	return "refresh_stats"
}

// Description implements scheduler.Job.
func (j *RefreshStatsJob) Description() string {
	return "Recomputes review aggregates and warms the redis stats cache"
}

// Run implements scheduler.Job.
func (j *RefreshStatsJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	startedAt := time.Now()
	warmed := 0

	for offset := 0; ; offset += j.config.BatchSize {
		courses, err := j.courseRepo.List(ctx, shared.Pagination{
			Limit:  j.config.BatchSize,
			Offset: offset,
		})
		if err != nil {
			return fmt.Errorf("refresh_stats: list courses: %w", err)
		}
		if len(courses) == 0 {
			break
		}

		ids := make([]shared.ID, 0, len(courses))
		for _, c := range courses {
			ids = append(ids, c.ID)
		}

		stats, err := j.reviewRepo.StatsForCourses(ctx, ids)
		if err != nil {
			return fmt.Errorf("refresh_stats: load aggregates: %w", err)
		}

		for _, id := range ids {
			agg, ok := stats[id]
			if !ok {
				// No reviews yet, nothing to cache.
				continue
			}

			entry := redis.StatsEntry{
				Count:   agg.Count,
				Average: agg.Average,
				Min:     agg.Min,
				Max:     agg.Max,
			}
			if err := j.statsCache.Set(ctx, id, entry); err != nil {
				j.logger.Warn("failed to warm stats entry",
					"course_id", id,
					"error", err,
				)
				continue
			}
			warmed++
		}

		if len(courses) < j.config.BatchSize {
			break
		}
	}

	j.logger.Info("stats refresh completed",
		"warmed", warmed,
		"duration", time.Since(startedAt).String(),
	)

	return nil
}
