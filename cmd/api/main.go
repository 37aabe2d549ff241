// Package main - точка входа HTTP API платформы Course Discovery Hub.
//
// Процесс поднимает полный стек: PostgreSQL с pgvector для курсов и
// векторного поиска, Redis для кешей и фан-аута событий, клиент
// embedding-шлюза и HTTP сервер со всеми командами и запросами.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика без внешних зависимостей
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: репозитории, кеши, внешний embedding-шлюз
// - Interface: HTTP endpoints
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
	"github.com/coursecompass/course-discovery-hub/internal/application/eventhandler"
	"github.com/coursecompass/course-discovery-hub/internal/application/query"
	"github.com/coursecompass/course-discovery-hub/internal/domain/engagement"
	"github.com/coursecompass/course-discovery-hub/internal/domain/shared"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/external/embedder"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/messaging"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/persistence/postgres"
	"github.com/coursecompass/course-discovery-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/coursecompass/course-discovery-hub/internal/interface/http"
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
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
		Format: cfg.Observability.LogFormat,
	})
	slog.SetDefault(log)
	log.Info("starting course discovery hub API",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"timezone", cfg.App.Timezone,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ПОДКЛЮЧЕНИЕ К БАЗЕ ДАННЫХ (PostgreSQL + pgvector)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. ЗАПУСК МИГРАЦИЙ
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. ИНИЦИАЛИЗАЦИЯ REDIS (опционально)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		redisCache      *redis.Cache
		engagementCache *redis.EngagementCache
		statsCache      *redis.ReviewStatsCache
		embeddingCache  *redis.EmbeddingCache
	)
	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		if cfg.Redis.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Redis.PoolSize
		}

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			// Redis ускоряет платформу, но не является её условием.
			log.Warn("failed to connect to Redis, caching disabled", logger.Err(err))
			redisCache = nil
		} else {
			defer redisCache.Close()
			engagementCache = redis.NewEngagementCache(redisCache)
			statsCache = redis.NewReviewStatsCache(redisCache)
			embeddingCache = redis.NewEmbeddingCache(redisCache)
			log.Info("Redis connection established", "addr", redisCfg.Addr())
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ИНИЦИАЛИЗАЦИЯ EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	localBusConfig := messaging.DefaultInMemoryEventBusConfig()
	localBusConfig.Logger = log

	var eventBus messaging.EventBus = messaging.NewInMemoryEventBus(localBusConfig)
	if redisCache != nil && cfg.Features.IsEnabled(config.FeatureInfraRedisEventBus) {
		eventBus, err = messaging.NewRedisEventBus(messaging.RedisEventBusConfig{
			Client: redisCache.Client(),
			Logger: log,
		})
		if err != nil {
			return fmt.Errorf("failed to create redis event bus: %w", err)
		}
		log.Info("redis event bus enabled")
	}
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ИНИЦИАЛИЗАЦИЯ EMBEDDING-ШЛЮЗА
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing embedding gateway client...", "base_url", cfg.Embedder.BaseURL)
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
	embedderConfig.Debug = cfg.App.Debug

	embedderClient := embedder.NewClient(embedderConfig)
	var embedderSvc embedder.Embedder = embedderClient
	if embeddingCache != nil && cfg.Embedder.CacheEnabled && cfg.Features.IsEnabled(config.FeatureInfraEmbeddingCache) {
		embedderSvc = embedder.NewCachedClient(embedderClient, embeddingCache, log)
		log.Info("embedding cache enabled")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. ИНИЦИАЛИЗАЦИЯ РЕПОЗИТОРИЕВ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	courseRepo := postgres.NewCourseRepository(dbConn)
	reviewRepo := postgres.NewReviewRepository(dbConn)
	discussionRepo := postgres.NewDiscussionRepository(dbConn)
	replyRepo := postgres.NewReplyRepository(dbConn)
	journeyRepo := postgres.NewJourneyRepository(dbConn)
	likeRepo := postgres.NewLikeRepository(dbConn)
	userRepo := postgres.NewUserRepository(dbConn)
	searchRepo := postgres.NewSearchRepository(dbConn)

	probers := engagement.ProberSet{
		Courses:     courseRepo,
		Journeys:    journeyRepo,
		Discussions: discussionRepo,
		Replies:     replyRepo,
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. ИНИЦИАЛИЗАЦИЯ APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	registerUserCmd := command.NewRegisterUserHandler(userRepo)
	upsertCourseCmd := command.NewUpsertCourseHandler(courseRepo, embedderSvc, eventBus)
	submitReviewCmd := command.NewSubmitReviewHandler(reviewRepo, userRepo, eventBus)
	deleteReviewCmd := command.NewDeleteReviewHandler(reviewRepo, eventBus)
	postDiscussionCmd := command.NewPostDiscussionHandler(discussionRepo, courseRepo, journeyRepo, embedderSvc, eventBus)
	editDiscussionCmd := command.NewEditDiscussionHandler(discussionRepo, embedderSvc, eventBus)
	deleteDiscussionCmd := command.NewDeleteDiscussionHandler(discussionRepo, eventBus)
	postReplyCmd := command.NewPostReplyHandler(replyRepo, discussionRepo, embedderSvc, eventBus)
	tombstoneReplyCmd := command.NewTombstoneReplyHandler(replyRepo, eventBus)
	addLikeCmd := command.NewAddLikeHandler(likeRepo, userRepo, probers, eventBus)
	removeLikeCmd := command.NewRemoveLikeHandler(likeRepo, eventBus)
	createJourneyCmd := command.NewCreateJourneyHandler(journeyRepo, userRepo, eventBus)
	appendJourneyCourseCmd := command.NewAppendJourneyCourseHandler(journeyRepo, courseRepo, eventBus)
	deleteJourneyCmd := command.NewDeleteJourneyHandler(journeyRepo)

	// nil-кеш допустим: запросы просто идут мимо кеша в базу.
	var countCache query.CountCache
	if engagementCache != nil {
		countCache = engagementCache
	}
	countLikesQry := query.NewCountLikesHandler(likeRepo, countCache)

	searchCoursesQry := query.NewSearchCoursesHandler(embedderSvc, searchRepo)
	searchDiscussionsQry := query.NewSearchDiscussionsHandler(embedderSvc, searchRepo)
	getCourseQry := query.NewGetCourseHandler(courseRepo, reviewRepo, countLikesQry)
	listCoursesQry := query.NewListCoursesHandler(courseRepo)
	getCourseReviewsQry := query.NewGetCourseReviewsHandler(courseRepo, reviewRepo, userRepo)
	listDiscussionsQry := query.NewListDiscussionsHandler(discussionRepo, courseRepo)
	listRepliesQry := query.NewListRepliesHandler(discussionRepo, replyRepo, userRepo)
	getJourneyQry := query.NewGetJourneyHandler(journeyRepo, courseRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. РЕГИСТРАЦИЯ EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")
	if statsCache != nil {
		reviewHandler := eventhandler.NewOnReviewChangedHandler(statsCache, log)
		for _, t := range []shared.EventType{shared.EventReviewSubmitted, shared.EventReviewDeleted} {
			if err := eventBus.Subscribe(t, reviewHandler); err != nil {
				return fmt.Errorf("failed to subscribe %s: %w", t, err)
			}
		}
	}
	if engagementCache != nil {
		likeHandler := eventhandler.NewOnLikeChangedHandler(engagementCache, log)
		for _, t := range []shared.EventType{shared.EventLikeAdded, shared.EventLikeRemoved} {
			if err := eventBus.Subscribe(t, likeHandler); err != nil {
				return fmt.Errorf("failed to subscribe %s: %w", t, err)
			}
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. ЗАПУСК HTTP СЕРВЕРА
	// ─────────────────────────────────────────────────────────────────────────
	serverConfig := httpapi.DefaultConfig()
	serverConfig.Host = cfg.HTTP.Host
	serverConfig.Port = cfg.HTTP.Port
	serverConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	serverConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	serverConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	serverConfig.EnableCORS = cfg.HTTP.EnableCORS
	serverConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	serverConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	server := httpapi.NewServer(serverConfig, httpapi.Dependencies{
		RegisterUser:        registerUserCmd,
		UpsertCourse:        upsertCourseCmd,
		SubmitReview:        submitReviewCmd,
		DeleteReview:        deleteReviewCmd,
		PostDiscussion:      postDiscussionCmd,
		EditDiscussion:      editDiscussionCmd,
		DeleteDiscussion:    deleteDiscussionCmd,
		PostReply:           postReplyCmd,
		TombstoneReply:      tombstoneReplyCmd,
		AddLike:             addLikeCmd,
		RemoveLike:          removeLikeCmd,
		CreateJourney:       createJourneyCmd,
		AppendJourneyCourse: appendJourneyCourseCmd,
		DeleteJourney:       deleteJourneyCmd,

		SearchCourses:     searchCoursesQry,
		SearchDiscussions: searchDiscussionsQry,
		GetCourse:         getCourseQry,
		ListCourses:       listCoursesQry,
		GetCourseReviews:  getCourseReviewsQry,
		ListDiscussions:   listDiscussionsQry,
		ListReplies:       listRepliesQry,
		CountLikes:        countLikesQry,
		GetJourney:        getJourneyQry,

		Logger:        log,
		HealthChecker: &backendHealth{db: dbConn, cache: redisCache},
	})

	log.Info("starting HTTP server...", "host", serverConfig.Host, "port", serverConfig.Port)
	errCh := server.StartAsync()

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	log.Info("shutdown complete")
	return nil
}

// backendHealth проверяет доступность базы и Redis для probe-эндпоинтов.
type backendHealth struct {
	db    *postgres.Connection
	cache *redis.Cache
}

func (h *backendHealth) Check(ctx context.Context) httpapi.HealthStatus {
	status := httpapi.HealthStatus{
		Healthy: true,
		Ready:   true,
		Checks:  make(map[string]string),
	}

	if err := h.db.Ping(ctx); err != nil {
		status.Healthy = false
		status.Ready = false
		status.Checks["postgres"] = err.Error()
	} else {
		status.Checks["postgres"] = "ok"
	}

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			// Redis деградирует функциональность, но не готовность.
			status.Checks["redis"] = err.Error()
		} else {
			status.Checks["redis"] = "ok"
		}
	}

	return status
}
