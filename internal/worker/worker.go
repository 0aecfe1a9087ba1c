package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"filesapi/internal/config"
	"filesapi/internal/model"
	"filesapi/internal/queue"
	"filesapi/internal/repository"
	"filesapi/internal/storage"
)

// Package worker consumes background jobs: welcome notifications for fresh
// registrations and thumbnail generation for uploaded images.

// thumbnailWidths are the derived image sizes, largest first. Height follows
// the source aspect ratio.
var thumbnailWidths = []int{500, 250, 100}

// dequeueTimeout bounds each blocking pop so the loop can observe ctx.
const dequeueTimeout = 5 * time.Second

var (
	ErrMissingFileID = errors.New("Missing fileId")
	ErrMissingUserID = errors.New("Missing userId")
	ErrFileNotFound  = errors.New("File not found")
	ErrUserNotFound  = errors.New("User not found")
)

// Source yields raw job payloads from a named queue.
type Source interface {
	Dequeue(ctx context.Context, queue string, timeout time.Duration) ([]byte, error)
}

// Worker drains the user and file queues.
type Worker struct {
	source Source
	users  repository.UserRepository
	files  repository.FileRepository
	store  storage.ContentStore
	queues config.QueueConfig
	log    *slog.Logger
}

func New(source Source, users repository.UserRepository, files repository.FileRepository, store storage.ContentStore, queues config.QueueConfig, log *slog.Logger) *Worker {
	return &Worker{
		source: source,
		users:  users,
		files:  files,
		store:  store,
		queues: queues,
		log:    log,
	}
}

// Run consumes both queues until ctx is cancelled. Job failures are logged
// and dropped; they never stop the loop.
func (w *Worker) Run(ctx context.Context) {
	go w.consume(ctx, w.queues.UserQueue, w.ProcessUserJob)
	w.consume(ctx, w.queues.FileQueue, w.ProcessFileJob)
}

func (w *Worker) consume(ctx context.Context, name string, handle func(context.Context, []byte) error) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		payload, err := w.source.Dequeue(ctx, name, dequeueTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			w.log.Error("dequeue failed", "queue", name, "error", err)
			continue
		}
		if payload == nil {
			continue
		}

		if err := handle(ctx, payload); err != nil {
			w.log.Error("job failed", "queue", name, "error", err)
		}
	}
}

// ProcessUserJob logs a welcome line for a freshly registered user.
func (w *Worker) ProcessUserJob(ctx context.Context, payload []byte) error {
	var job queue.UserJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode user job: %w", err)
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}

	u, err := w.users.FindByID(ctx, job.UserID)
	if err != nil {
		return ErrUserNotFound
	}

	w.log.Info("Welcome "+u.Email, "userId", u.ID)
	return nil
}

// ProcessFileJob generates the thumbnail variants for an uploaded image.
func (w *Worker) ProcessFileJob(ctx context.Context, payload []byte) error {
	var job queue.FileJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return fmt.Errorf("decode file job: %w", err)
	}
	if job.FileID == "" {
		return ErrMissingFileID
	}
	if job.UserID == "" {
		return ErrMissingUserID
	}

	f, err := w.files.FindOwned(ctx, job.FileID, job.UserID)
	if err != nil {
		return ErrFileNotFound
	}
	if f.Type != model.TypeImage {
		return fmt.Errorf("file %s is not an image", f.ID)
	}

	data, err := w.store.Read(ctx, f.LocalPath)
	if err != nil {
		return fmt.Errorf("read content %s: %w", f.LocalPath, err)
	}

	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image %s: %w", f.ID, err)
	}

	// Keep the source format when the name gives one away, default to PNG.
	format, err := imaging.FormatFromExtension(filepath.Ext(f.Name))
	if err != nil {
		format = imaging.PNG
	}

	for _, width := range thumbnailWidths {
		dst := imaging.Resize(src, width, 0, imaging.Lanczos)

		var buf bytes.Buffer
		if err := imaging.Encode(&buf, dst, format); err != nil {
			return fmt.Errorf("encode %dpx variant of %s: %w", width, f.ID, err)
		}

		key := storage.VariantKey(f.LocalPath, strconv.Itoa(width))
		if err := w.store.Write(ctx, key, buf.Bytes()); err != nil {
			return fmt.Errorf("store %dpx variant of %s: %w", width, f.ID, err)
		}
	}

	w.log.Info("variants generated", "fileId", f.ID, "widths", thumbnailWidths)
	return nil
}
