// Package jobs contains implementations of scheduled jobs for the course
// discovery hub. Each job keeps derived data fresh: the course catalog is
// re-ingested from scraped dumps and cached review aggregates are rebuilt.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coursecompass/course-discovery-hub/internal/application/command"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/ingestion"
)

// ══════════════════════════════════════════════════════════════════════════════
// INGEST COURSES JOB
// ══════════════════════════════════════════════════════════════════════════════

// CourseSource yields normalized course records for ingestion.
type CourseSource interface {
	LoadAll() ([]ingestion.NormalizedCourse, error)
}

// CourseUpserter is the write path for a single ingested course.
type CourseUpserter interface {
	Handle(ctx context.Context, cmd command.UpsertCourseCommand) (*command.UpsertCourseResult, error)
}

// IngestCoursesJob re-reads scraped course dumps and upserts them into the
// catalog. Upserts are keyed by (platform, url), so re-running the job over
// the same dumps is a no-op apart from genuinely new courses.
type IngestCoursesJob struct {
	source    CourseSource
	upserter  CourseUpserter
	publisher shared.EventPublisher
	logger    *slog.Logger
	config    IngestCoursesConfig

	lastStats atomic.Value // *IngestStats
}

// IngestCoursesConfig contains configuration for the ingest job.
type IngestCoursesConfig struct {
	// Concurrency is the number of courses to upsert in parallel.
	// Each upsert may call the embedding gateway, so this also bounds
	// concurrent gateway requests from the job.
	Concurrency int

	// Timeout is the maximum duration for the entire run.
	Timeout time.Duration

	// MaxFailures aborts the run early when too many upserts fail,
	// usually a sign the embedding gateway is down.
	MaxFailures int
}

// DefaultIngestCoursesConfig returns sensible defaults.
func DefaultIngestCoursesConfig() IngestCoursesConfig {
	return IngestCoursesConfig{
		Concurrency: 4,
		Timeout:     30 * time.Minute,
		MaxFailures: 50,
	}
}

// IngestStats contains statistics from an ingest run.
type IngestStats struct {
	StartedAt   time.Time
	CompletedAt time.Time
	Seen        int
	Inserted    int
	Skipped     int
	Failed      int
}

// NewIngestCoursesJob creates a new ingest job.
func NewIngestCoursesJob(
	source CourseSource,
	upserter CourseUpserter,
	publisher shared.EventPublisher,
	logger *slog.Logger,
	config IngestCoursesConfig,
) *IngestCoursesJob {
	if logger == nil {
		logger = slog.Default()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 4
	}

	return &IngestCoursesJob{
		source:    source,
		upserter:  upserter,
		publisher: publisher,
		logger:    logger.With("job", "ingest_courses"),
		config:    config,
	}
}

// Name implements scheduler.Job.
func (j *IngestCoursesJob) Name() string {
	return "ingest_courses"
}

// Description implements scheduler.Job.
func (j *IngestCoursesJob) Description() string {
	return "Normalizes scraped course dumps and upserts them into the catalog"
}

// Run implements scheduler.Job.
func (j *IngestCoursesJob) Run(ctx context.Context) error {
	if j.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.config.Timeout)
		defer cancel()
	}

	stats := &IngestStats{StartedAt: time.Now()}

	courses, err := j.source.LoadAll()
	if err != nil {
		return fmt.Errorf("ingest_courses: load dumps: %w", err)
	}
	stats.Seen = len(courses)

	j.logger.Info("ingest run started", "courses_seen", stats.Seen)

	var (
		mu       sync.Mutex
		inserted int
		skipped  int
		failed   int
	)

	sem := make(chan struct{}, j.config.Concurrency)
	var wg sync.WaitGroup

	for _, nc := range courses {
		mu.Lock()
		tooManyFailures := j.config.MaxFailures > 0 && failed >= j.config.MaxFailures
		mu.Unlock()
		if tooManyFailures {
			j.logger.Error("aborting ingest run, failure budget exhausted",
				"failed", failed,
			)
			break
		}

		select {
		case <-ctx.Done():
			wg.Wait()
			return fmt.Errorf("ingest_courses: %w", ctx.Err())
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(nc ingestion.NormalizedCourse) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := j.upserter.Handle(ctx, command.UpsertCourseCommand{
				Title:       nc.Title,
				Description: nc.Description,
				Platform:    nc.Platform.String(),
				URL:         nc.URL,
				Authors:     nc.Authors,
				Skills:      nc.Skills,
				RatingValue: nc.Rating,
				RatingCount: nc.RatingCount,
				ImageURL:    nc.ImageURL,
				IsFree:      nc.IsFree,
			})

			mu.Lock()
			defer mu.Unlock()

			switch {
			case err != nil:
				failed++
				if !errors.Is(err, context.Canceled) {
					j.logger.Warn("course upsert failed",
						"platform", nc.Platform,
						"url", nc.URL,
						"error", err,
					)
				}
			case result.Created:
				inserted++
			default:
				skipped++
			}
		}(nc)
	}

	wg.Wait()

	stats.CompletedAt = time.Now()
	stats.Inserted = inserted
	stats.Skipped = skipped
	stats.Failed = failed
	j.lastStats.Store(stats)

	j.logger.Info("ingest run completed",
		"seen", stats.Seen,
		"inserted", stats.Inserted,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", stats.CompletedAt.Sub(stats.StartedAt).String(),
	)

	if j.publisher != nil {
		event := shared.IngestionCompletedEvent{
			BaseEvent:       shared.NewBaseEvent(shared.EventIngestionCompleted, "ingest_courses"),
			CoursesSeen:     stats.Seen,
			CoursesInserted: stats.Inserted,
			CoursesSkipped:  stats.Skipped,
			Failures:        stats.Failed,
		}
		_ = j.publisher.Publish(ctx, event)
	}

	if failed > 0 && inserted == 0 && skipped == 0 {
		return fmt.Errorf("ingest_courses: all %d upserts failed", failed)
	}

	return nil
}

// LastStats returns statistics from the most recent run, or nil.
func (j *IngestCoursesJob) LastStats() *IngestStats {
	stats, _ := j.lastStats.Load().(*IngestStats)
	return stats
}
