package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"filesapi/internal/config"
	"filesapi/internal/database"
	"filesapi/internal/queue"
	"filesapi/internal/repository/postgres"
	"filesapi/internal/storage"
	"filesapi/internal/worker"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	jobs, err := queue.NewRedis(cfg.Redis)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	store, err := newContentStore(cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize content store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w := worker.New(jobs, postgres.NewUserPostgres(db), postgres.NewFilePostgres(db), store, cfg.Queue, logger)

	logger.Info("worker started", "userQueue", cfg.Queue.UserQueue, "fileQueue", cfg.Queue.FileQueue)
	w.Run(ctx)
	logger.Info("worker stopped")
}

func newContentStore(cfg config.StorageConfig) (storage.ContentStore, error) {
	if cfg.Backend == "s3" {
		return storage.NewMinIO(cfg)
	}
	return storage.NewLocal(cfg.FolderPath)
}
