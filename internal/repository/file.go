package repository

import (
	"context"

	"filesapi/internal/model"
)

// FileRepository defines data access for files using SQL queries only.
// No business logic here, strictly persistence operations.
type FileRepository interface {
	// Create inserts a new file record and returns the stored row.
	Create(ctx context.Context, f *model.File) (*model.File, error)

	// FindByID returns a file by its ID regardless of owner.
	FindByID(ctx context.Context, id string) (*model.File, error)

	// FindOwned returns a file only when it exists and belongs to userID;
	// otherwise sql.ErrNoRows.
	FindOwned(ctx context.Context, id, userID string) (*model.File, error)

	// FindPage returns one page of files matching the query in insertion order.
	// An out-of-range page yields an empty slice, not an error.
	FindPage(ctx context.Context, q FilePageQuery) ([]model.File, error)

	// SetPublic atomically updates the visibility flag on an owned file and
	// returns the post-update row without its content path.
	SetPublic(ctx context.Context, id, userID string, public bool) (*model.File, error)

	// Count returns the total number of files.
	Count(ctx context.Context) (int, error)
}
