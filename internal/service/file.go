package service

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"path/filepath"

	"github.com/google/uuid"

	"filesapi/internal/model"
	"filesapi/internal/queue"
	"filesapi/internal/repository"
	"filesapi/internal/storage"
)

var (
	ErrMissingName     = errors.New("name is required")
	ErrMissingType     = errors.New("type is missing or invalid")
	ErrMissingData     = errors.New("data is required for non-folder types")
	ErrParentNotFound  = errors.New("parent not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrNotFound        = errors.New("file not found")
	ErrFolderNoContent = errors.New("folder has no content")
)

// PageSize is the fixed number of records per listing page.
const PageSize = 20

// CreateFileInput carries the caller-supplied fields for a new file.
// Data is the base64-encoded content, empty for folders. An empty ParentID
// means the root.
type CreateFileInput struct {
	Name     string
	Type     model.FileType
	Data     string
	ParentID string
	IsPublic bool
}

// FileService is the core business logic over files: creation, metadata
// reads, listing, visibility and content retrieval. It holds no state of its
// own; every operation is an orchestration over the repositories, the
// content store and the job dispatcher.
type FileService interface {
	// Create validates and persists a new folder, file or image. Content
	// bytes are written to the content store before the metadata row exists,
	// so a successful response always implies readable content. Image
	// creation additionally enqueues a variant-generation job (non-fatal).
	Create(ctx context.Context, userID string, in CreateFileInput) (*model.File, error)

	// Get returns a file's metadata only to its owner; a foreign or unknown
	// id is ErrNotFound either way.
	Get(ctx context.Context, userID, fileID string) (*model.File, error)

	// List returns one page of the user's files. When parentID is set the
	// filter matches on the file's own id together with the owner. An
	// out-of-range page is an empty slice, never an error.
	List(ctx context.Context, userID, parentID string, page int) ([]model.File, error)

	// SetVisibility flips the public flag on an owned file and returns the
	// updated record without its content reference.
	SetVisibility(ctx context.Context, userID, fileID string, public bool) (*model.File, error)

	// ReadContent returns the raw bytes and inferred content type of a file.
	// Anonymous callers pass an empty userID and may only read public files;
	// denied access is indistinguishable from a missing id. A size variant
	// that has not been generated yet is ErrNotFound.
	ReadContent(ctx context.Context, userID, fileID, size string) ([]byte, string, error)
}

type fileService struct {
	files     repository.FileRepository
	store     storage.ContentStore
	jobs      queue.Dispatcher
	fileQueue string
	log       *slog.Logger
}

// NewFileService constructs a new FileService.
func NewFileService(files repository.FileRepository, store storage.ContentStore, jobs queue.Dispatcher, fileQueue string, log *slog.Logger) FileService {
	return &fileService{files: files, store: store, jobs: jobs, fileQueue: fileQueue, log: log}
}

func (s *fileService) Create(ctx context.Context, userID string, in CreateFileInput) (*model.File, error) {
	if in.Name == "" {
		return nil, ErrMissingName
	}
	if !model.ValidType(in.Type) {
		return nil, ErrMissingType
	}
	if in.Data == "" && in.Type != model.TypeFolder {
		return nil, ErrMissingData
	}

	parentID := in.ParentID
	if parentID == "" {
		parentID = model.RootParentID
	}
	if parentID != model.RootParentID {
		parent, err := s.files.FindOwned(ctx, parentID, userID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrParentNotFound
			}
			return nil, fmt.Errorf("find parent: %w", err)
		}
		if !parent.IsFolder() {
			return nil, ErrParentNotFolder
		}
	}

	f := &model.File{
		ID:       uuid.NewString(),
		UserID:   userID,
		Name:     in.Name,
		Type:     in.Type,
		IsPublic: in.IsPublic,
		ParentID: parentID,
	}

	if in.Type != model.TypeFolder {
		content, err := base64.StdEncoding.DecodeString(in.Data)
		if err != nil {
			return nil, fmt.Errorf("decode content: %w", err)
		}
		// The bytes must be durable before the metadata row can reference
		// them: a reader that sees the new id must find its content.
		contentID := uuid.NewString()
		if err := s.store.Write(ctx, contentID, content); err != nil {
			return nil, fmt.Errorf("write content: %w", err)
		}
		f.LocalPath = contentID
	}

	stored, err := s.files.Create(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	if stored.Type == model.TypeImage {
		job := queue.FileJob{UserID: userID, FileID: stored.ID}
		if err := s.jobs.Enqueue(ctx, s.fileQueue, job); err != nil {
			s.log.Warn("enqueue file job failed", "file_id", stored.ID, "error", err)
		}
	}

	return stored, nil
}

func (s *fileService) Get(ctx context.Context, userID, fileID string) (*model.File, error) {
	f, err := s.files.FindOwned(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find file: %w", err)
	}
	return f, nil
}

func (s *fileService) List(ctx context.Context, userID, parentID string, page int) ([]model.File, error) {
	if page < 0 {
		page = 0
	}
	files, err := s.files.FindPage(ctx, repository.FilePageQuery{
		UserID:   userID,
		ParentID: parentID,
		Skip:     page * PageSize,
		Limit:    PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

func (s *fileService) SetVisibility(ctx context.Context, userID, fileID string, public bool) (*model.File, error) {
	if _, err := s.files.FindOwned(ctx, fileID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find file: %w", err)
	}

	updated, err := s.files.SetPublic(ctx, fileID, userID, public)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update visibility: %w", err)
	}
	return updated, nil
}

func (s *fileService) ReadContent(ctx context.Context, userID, fileID, size string) ([]byte, string, error) {
	f, err := s.files.FindByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("find file: %w", err)
	}

	// Denied access reads exactly like a missing id so that private file ids
	// cannot be enumerated.
	if !f.IsPublic && (userID == "" || userID != f.UserID) {
		return nil, "", ErrNotFound
	}

	if f.IsFolder() {
		return nil, "", ErrFolderNoContent
	}

	key := f.LocalPath
	if size != "" {
		key = storage.VariantKey(key, size)
	}

	exists, err := s.store.Exists(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("check content: %w", err)
	}
	if !exists {
		// Covers image variants that the worker has not produced yet.
		return nil, "", ErrNotFound
	}

	data, err := s.store.Read(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("read content: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(f.Name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return data, contentType, nil
}
