package postgres

import (
	"context"
	"database/sql"

	"filesapi/internal/model"
	"filesapi/internal/repository"
)

// FilePostgres is a PostgreSQL implementation of repository.FileRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type FilePostgres struct {
	db *sql.DB
}

// NewFilePostgres creates a new FilePostgres repository.
func NewFilePostgres(db *sql.DB) *FilePostgres {
	return &FilePostgres{db: db}
}

var _ repository.FileRepository = (*FilePostgres)(nil)

// Create inserts a new file row and returns the stored record.
func (r *FilePostgres) Create(ctx context.Context, f *model.File) (*model.File, error) {
	const q = `
		INSERT INTO files (id, user_id, name, type, is_public, parent_id, local_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, user_id, name, type, is_public, parent_id, local_path, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		f.ID,
		f.UserID,
		f.Name,
		f.Type,
		f.IsPublic,
		f.ParentID,
		f.LocalPath,
	)
	var out model.File
	if err := row.Scan(
		&out.ID,
		&out.UserID,
		&out.Name,
		&out.Type,
		&out.IsPublic,
		&out.ParentID,
		&out.LocalPath,
		&out.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single file by its ID, without an owner filter.
func (r *FilePostgres) FindByID(ctx context.Context, id string) (*model.File, error) {
	const q = `
		SELECT id, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE id = $1
	`
	return scanFile(r.db.QueryRowContext(ctx, q, id))
}

// FindOwned fetches a single file scoped to its owner.
func (r *FilePostgres) FindOwned(ctx context.Context, id, userID string) (*model.File, error) {
	const q = `
		SELECT id, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE id = $1 AND user_id = $2
	`
	return scanFile(r.db.QueryRowContext(ctx, q, id, userID))
}

// FindPage returns files in insertion order using LIMIT/OFFSET pagination.
// When ParentID is set the filter matches the file's own id together with the
// owner, reproducing the listing contract (see repository.FilePageQuery).
func (r *FilePostgres) FindPage(ctx context.Context, pq repository.FilePageQuery) ([]model.File, error) {
	const qByOwner = `
		SELECT id, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	const qByParent = `
		SELECT id, user_id, name, type, is_public, parent_id, local_path, created_at
		FROM files
		WHERE id = $1 AND user_id = $2
		ORDER BY created_at ASC, id ASC
		LIMIT $3 OFFSET $4
	`

	var (
		rows *sql.Rows
		err  error
	)
	if pq.ParentID != "" {
		rows, err = r.db.QueryContext(ctx, qByParent, pq.ParentID, pq.UserID, pq.Limit, pq.Skip)
	} else {
		rows, err = r.db.QueryContext(ctx, qByOwner, pq.UserID, pq.Limit, pq.Skip)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	files := make([]model.File, 0)
	for rows.Next() {
		var f model.File
		if err := rows.Scan(
			&f.ID,
			&f.UserID,
			&f.Name,
			&f.Type,
			&f.IsPublic,
			&f.ParentID,
			&f.LocalPath,
			&f.CreatedAt,
		); err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return files, nil
}

// SetPublic atomically flips the visibility flag on an owned file.
// The returned scan deliberately omits local_path: visibility responses never
// expose the content reference.
func (r *FilePostgres) SetPublic(ctx context.Context, id, userID string, public bool) (*model.File, error) {
	const q = `
		UPDATE files
		SET is_public = $3
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, type, is_public, parent_id
	`
	row := r.db.QueryRowContext(ctx, q, id, userID, public)
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.Type,
		&f.IsPublic,
		&f.ParentID,
	); err != nil {
		return nil, err
	}
	return &f, nil
}

// Count returns the total number of file rows.
func (r *FilePostgres) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM files`
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func scanFile(row *sql.Row) (*model.File, error) {
	var f model.File
	if err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.Name,
		&f.Type,
		&f.IsPublic,
		&f.ParentID,
		&f.LocalPath,
		&f.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &f, nil
}
