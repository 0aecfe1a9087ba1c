package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"filesapi/internal/model"
	"filesapi/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const uniqueViolation = "23505"

// Create inserts a new user row. A unique-constraint violation on the email
// column maps to repository.ErrDuplicateEmail; the constraint, not a prior
// read, is what makes registration race-free.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const q = `
		INSERT INTO users (id, email, password)
		VALUES ($1, $2, $3)
		RETURNING id, email, password
	`
	row := r.db.QueryRowContext(ctx, q, u.ID, u.Email, u.Password)
	var out model.User
	if err := row.Scan(&out.ID, &out.Email, &out.Password); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, repository.ErrDuplicateEmail
		}
		return nil, err
	}
	return &out, nil
}

// FindByEmail fetches a single user by exact email match.
func (r *UserPostgres) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	const q = `SELECT id, email, password FROM users WHERE email = $1`
	row := r.db.QueryRowContext(ctx, q, email)
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password); err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByID fetches a single user by its ID.
func (r *UserPostgres) FindByID(ctx context.Context, id string) (*model.User, error) {
	const q = `SELECT id, email, password FROM users WHERE id = $1`
	row := r.db.QueryRowContext(ctx, q, id)
	var u model.User
	if err := row.Scan(&u.ID, &u.Email, &u.Password); err != nil {
		return nil, err
	}
	return &u, nil
}

// Count returns the total number of user rows.
func (r *UserPostgres) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM users`
	var n int
	if err := r.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
