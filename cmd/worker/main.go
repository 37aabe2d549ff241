// Package main - точка входа фонового воркера Course Discovery Hub.
//
// Воркер держит планировщик двух задач: периодической загрузки
// свежих дампов курсов (Coursera, Udemy) и ночного прогрева кеша
// агрегатов отзывов. API-процесс этим не занимается, чтобы долгие
// прогоны не конкурировали с пользовательскими запросами.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/coursecompass/course-discovery-hub/config"
	"github.com/coursecompass/course-discovery-hub/internal/application/command"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/external/embedder"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/ingestion"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/messaging"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/persistence/postgres"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/persistence/redis"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/scheduler"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/scheduler/jobs"
	"github.com/coursecompass/course-discovery-hub/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. КОНФИГУРАЦИЯ И ЛОГИРОВАНИЕ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: cfg.Observability.LogFormat,
	})
	slog.SetDefault(log)
	log.Info("starting course discovery hub worker",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	if !cfg.Scheduler.Enabled {
		log.Warn("scheduler is disabled, worker has nothing to do")
		return nil
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer dbConn.Close()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	// Миграции прогоняет и воркер: при раздельном деплое он может
	// стартовать раньше API.
	if cfg.Database.AutoMigrate {
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. REDIS И EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	var (
		redisCache *redis.Cache
		statsCache *redis.ReviewStatsCache
	)
	if !cfg.Redis.Disabled {
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, stats warming disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			statsCache = redis.NewReviewStatsCache(redisCache)
		}
	}

	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log

	var eventBus messaging.EventBus = messaging.NewInMemoryEventBus(busConfig)
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureInfraRedisEventBus) {
		eventBus, err = messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client: redisCache.Client(),
			Logger: log,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis event bus: %w", err)
		}
	}
	defer func() { _ = eventBus.Close() }()

	// ─────────────────────────────────────────────────────────────────────────
	// 4. EMBEDDING-ШЛЮЗ И КОМАНДА UPSERT
	// ─────────────────────────────────────────────────────────────────────────
	embedderConfig := embedder.DefaultClientConfig(cfg.Embedder.BaseURL)
	embedderConfig.APIKey = cfg.Embedder.APIKey
	embedderConfig.Model = cfg.Embedder.Model
	embedderConfig.Timeout = cfg.Embedder.RequestTimeout
	embedderConfig.RateLimiterConfig.RequestsPerSecond = cfg.Embedder.RateLimit
	embedderConfig.RateLimiterConfig.BurstSize = cfg.Embedder.RateLimitBurst
	embedderConfig.RetryConfig.MaxRetries = cfg.Embedder.MaxRetries
	embedderConfig.RetryConfig.InitialBackoff = cfg.Embedder.RetryBaseDelay
	embedderConfig.RetryConfig.MaxBackoff = cfg.Embedder.RetryMaxDelay
	embedderConfig.CircuitBreakerConfig.FailureThreshold = cfg.Embedder.CircuitBreakerThreshold
	embedderConfig.CircuitBreakerConfig.Timeout = cfg.Embedder.CircuitBreakerTimeout
	embedderConfig.Logger = log

	embedderClient := embedder.NewClient(embedderConfig)
	var embedderSvc embedder.Embedder = embedderClient
	if redisCache != nil && cfg.Embedder.CacheEnabled && cfg.Features.IsEnabled(config.FeatureInfraEmbeddingCache) {
		embedderSvc = embedder.NewCachedClient(embedderClient, redis.NewEmbeddingCache(redisCache), log)
	}

	courseRepo := postgres.NewCourseRepository(dbConn)
	reviewRepo := postgres.NewReviewRepository(dbConn)
	upsertCourseCmd := command.NewUpsertCourseHandler(courseRepo, embedderSvc, eventBus)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ПЛАНИРОВЩИК И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.New(scheduler.Config{
		Logger:   log,
		Timezone: cfg.App.Location,
	})

	ingestJob := jobs.NewIngestCoursesJob(
		ingestion.NewLoader(cfg.Ingestion.DataDir),
		upsertCourseCmd,
		eventBus,
		log,
		jobs.IngestCoursesConfig{
			Concurrency: cfg.Ingestion.Concurrency,
			Timeout:     cfg.Scheduler.JobTimeout,
			MaxFailures: cfg.Ingestion.MaxFailures,
		},
	)
	if err := sched.Register(ingestJob, scheduler.NewIntervalSchedule(cfg.Scheduler.IngestInterval)); err != nil {
		return fmt.Errorf("failed to register ingest job: %w", err)
	}

	if statsCache != nil && cfg.Features.IsEnabled(config.FeatureInfraStatsWarming) {
		statsJob := jobs.NewRefreshStatsJob(courseRepo, reviewRepo, statsCache, log, jobs.RefreshStatsConfig{
			Timeout: cfg.Scheduler.JobTimeout,
		})
		schedule := scheduler.NewDailySchedule(cfg.Scheduler.StatsRefreshHour, cfg.Scheduler.StatsRefreshMinute)
		if err := sched.Register(statsJob, schedule); err != nil {
			return fmt.Errorf("failed to register stats job: %w", err)
		}
	} else {
		log.Info("stats warming disabled")
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	log.Info("scheduler started", "jobs", len(sched.ListJobs()))

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ОЖИДАНИЕ СИГНАЛА И ОСТАНОВКА
	// ─────────────────────────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info("shutdown signal received")

	if err := sched.Stop(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}
