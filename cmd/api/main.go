package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"filesapi/internal/config"
	"filesapi/internal/database"
	"filesapi/internal/database/migration"
	handlers "filesapi/internal/http/handler"
	"filesapi/internal/http/middleware"
	"filesapi/internal/otel"
	"filesapi/internal/queue"
	"filesapi/internal/repository/postgres"
	"filesapi/internal/service"
	"filesapi/internal/session"
	"filesapi/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := time.UTC
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Tracing exports OTLP unless OTEL_SDK_DISABLED=true.
	shutdownTracing, err := otel.Init(ctx, loc)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	// Initialize PostgreSQL connection (with pooling via database/sql)
	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, loc, cfg.Database.Host); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// One Redis pool shared by the session store and the job queues.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()
	sessions := session.NewRedisWithClient(rdb)
	jobs := queue.NewRedisWithClient(rdb)

	store, err := newContentStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize content store: %v", err)
	}

	// Initialize repositories and services
	userRepo := postgres.NewUserPostgres(db)
	fileRepo := postgres.NewFilePostgres(db)
	authSvc := service.NewAuthService(sessions, userRepo, cfg.SessionTTL)
	userSvc := service.NewUserService(userRepo, jobs, cfg.Queue.UserQueue, logger)
	fileSvc := service.NewFileService(fileRepo, store, jobs, cfg.Queue.FileQueue, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	promMW, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}
	app.Use(promMW.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:       db,
		Sessions: sessions,
		Users:    userRepo,
		Files:    fileRepo,
		Auth:     authSvc,
		UserSvc:  userSvc,
		FileSvc:  fileSvc,
	})

	addr := ":" + cfg.Port
	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}

func newContentStore(cfg config.StorageConfig) (storage.ContentStore, error) {
	if cfg.Backend == "s3" {
		return storage.NewMinIO(cfg)
	}
	return storage.NewLocal(cfg.FolderPath)
}
