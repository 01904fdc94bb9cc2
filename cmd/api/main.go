package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/richxcame/localeflow/internal/analytics"
	"github.com/richxcame/localeflow/internal/auth"
	"github.com/richxcame/localeflow/internal/bootstrap"
	"github.com/richxcame/localeflow/internal/connectors"
	"github.com/richxcame/localeflow/internal/events"
	"github.com/richxcame/localeflow/internal/llm"
	"github.com/richxcame/localeflow/internal/mt"
	"github.com/richxcame/localeflow/internal/projects"
	"github.com/richxcame/localeflow/internal/realtime"
	"github.com/richxcame/localeflow/internal/state"
	"github.com/richxcame/localeflow/internal/terminology"
	"github.com/richxcame/localeflow/internal/tm"
	"github.com/richxcame/localeflow/internal/uploads"
	"github.com/richxcame/localeflow/internal/vendors"
	"github.com/richxcame/localeflow/pkg/common"
	"github.com/richxcame/localeflow/pkg/config"
	"github.com/richxcame/localeflow/pkg/database"
	"github.com/richxcame/localeflow/pkg/health"
	"github.com/richxcame/localeflow/pkg/logger"
	"github.com/richxcame/localeflow/pkg/middleware"
	"github.com/richxcame/localeflow/pkg/ratelimit"
	"github.com/richxcame/localeflow/pkg/redis"
	"github.com/richxcame/localeflow/pkg/storage"
	"github.com/richxcame/localeflow/pkg/tracing"
	ws "github.com/richxcame/localeflow/pkg/websocket"
)

const (
	serviceName    = "localeflow-api"
	serviceVersion = "0.1.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()
	zlog := logger.Get()

	// Error reporting
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
		}); err != nil {
			zlog.Warn("Failed to init Sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// Distributed tracing
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(context.Background(), serviceName, cfg.Tracing.OTLPEndpoint)
		if err != nil {
			zlog.Warn("Failed to init tracing", zap.Error(err))
		} else {
			defer shutdown(context.Background())
		}
	}

	// Connect to PostgreSQL and apply migrations
	if err := database.RunMigrations(&cfg.Database, "migrations"); err != nil {
		zlog.Fatal("Failed to run migrations", zap.Error(err))
	}
	pool, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(pool)
	zlog.Info("Connected to PostgreSQL")

	sqlDB, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		zlog.Fatal("Failed to open database", zap.Error(err))
	}
	defer sqlDB.Close()

	// Connect to Redis
	redisClient, err := redis.NewRedisClient(&cfg.Redis)
	if err != nil {
		zlog.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	zlog.Info("Connected to Redis")

	// Event publisher
	publisher := events.NewNoopPublisher(zlog)
	if cfg.NATS.Enabled {
		publisher, err = events.NewPublisher(cfg.NATS.URL, zlog)
		if err != nil {
			zlog.Fatal("Failed to connect to NATS", zap.Error(err))
		}
		zlog.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
	}
	defer publisher.Close()

	// File storage
	fileStore, err := buildStorage(cfg)
	if err != nil {
		zlog.Fatal("Failed to init storage", zap.Error(err))
	}

	// In-memory state with an optional Postgres mirror
	store := state.NewStore()

	var (
		tmRepo      tm.Repository
		termRepo    terminology.Repository
		projectRepo projects.Repository
	)
	if cfg.Database.Mirror {
		tmRepo = tm.NewPostgresRepository(pool)
		termRepo = terminology.NewPostgresRepository(pool)
		projectRepo = projects.NewPostgresRepository(pool)
	}

	tmService := tm.NewService(store, tmRepo, zlog)
	termService := terminology.NewService(store, termRepo, zlog)
	projectService := projects.NewService(store, tmService, termService,
		mt.NewEngine(), projectRepo, publisher, zlog)
	connectorService := connectors.NewService(store, projectService, zlog)
	vendorService := vendors.NewService(store)
	analyticsService := analytics.NewService(store)
	authService := auth.NewService(auth.NewRepository(pool), cfg.JWT.Secret,
		time.Duration(cfg.JWT.Expiration)*time.Hour, zlog)
	llmService := llm.NewService(cfg.LLM, zlog)

	ctx := context.Background()
	if cfg.Database.Mirror {
		if err := tmService.LoadFromDB(ctx); err != nil {
			zlog.Warn("Failed to hydrate translation memory", zap.Error(err))
		}
		if err := termService.LoadFromDB(ctx); err != nil {
			zlog.Warn("Failed to hydrate term base", zap.Error(err))
		}
		if err := projectService.LoadFromDB(ctx); err != nil {
			zlog.Warn("Failed to hydrate projects", zap.Error(err))
		}
	}

	analyticsHandler := analytics.NewHandler(analyticsService, redisClient)

	// Seed demo data on an empty store
	if len(store.ListJobs()) == 0 {
		bootstrap.Seed(ctx, store, projectService, tmService, termService, zlog)
		if err := analyticsHandler.InvalidateCache(ctx); err != nil {
			zlog.Warn("Failed to invalidate analytics cache", zap.Error(err))
		}
	}

	// WebSocket hub and collaboration routing
	hub := ws.NewHub()
	go hub.Run()

	activityRepo := realtime.NewActivityRepositoryWithDB(sqlDB)
	realtimeRouter := realtime.NewRouter(hub, projectService, store, activityRepo, zlog)
	realtimeRouter.Register()

	subscriber := realtime.NewSubscriber(publisher.Conn(), hub, zlog)
	if err := subscriber.Start(); err != nil {
		zlog.Warn("Failed to start event subscriber", zap.Error(err))
	}
	defer subscriber.Stop()

	// HTTP router
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics(serviceName))

	if cfg.Sentry.DSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.Server.CORSOriginList()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewLimiter(redisClient.Client, cfg.RateLimit)
		router.Use(ratelimit.Middleware(limiter))
	}

	// Health and metrics, no auth required
	checks := map[string]func() error{
		"database": health.DatabaseChecker(sqlDB),
		"redis":    health.RedisChecker(redisClient.Client),
	}
	router.GET("/healthz", common.HealthCheck(serviceName, serviceVersion))
	router.GET("/health/ready", common.HealthCheckWithDeps(serviceName, serviceVersion, checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API routes
	api := router.Group("/api/v1")

	auth.NewHandler(authService).RegisterPublicRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	{
		auth.NewHandler(authService).RegisterProtectedRoutes(protected)
		connectors.NewHandler(connectorService).RegisterRoutes(protected)
		vendors.NewHandler(vendorService).RegisterRoutes(protected)
		tm.NewHandler(tmService).RegisterRoutes(protected)
		terminology.NewHandler(termService).RegisterRoutes(protected)
		projects.NewHandler(projectService).RegisterRoutes(protected)
		analyticsHandler.RegisterRoutes(protected)
		llm.NewHandler(llmService, time.Duration(cfg.LLM.RequestTimeout)*time.Second).RegisterRoutes(protected)
		uploads.NewHandler(fileStore, zlog).RegisterRoutes(protected)
		realtime.NewHandler(hub, zlog).RegisterRoutes(protected)
	}

	// Start server with graceful shutdown
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Info("Server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-shutdownCtx.Done()
	zlog.Info("Shutting down")

	timeoutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(timeoutCtx); err != nil {
		zlog.Error("Forced shutdown", zap.Error(err))
	}
}

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.Storage.Provider == string(storage.ProviderS3) {
		return storage.NewS3Storage(context.Background(), storage.S3Config{
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			BaseURL:   cfg.Storage.BaseURL,
		})
	}
	return storage.NewLocalStorage(cfg.Storage.LocalPath, cfg.Storage.BaseURL)
}
