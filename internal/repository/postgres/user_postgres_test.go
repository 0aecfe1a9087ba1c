package postgres

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"filesapi/internal/model"
	"filesapi/internal/repository"
)

func TestUserPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("inserted", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password"}).
			AddRow("u-1", "bob@dylan.com", "digest")

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("u-1", "bob@dylan.com", "digest").
			WillReturnRows(rows)

		u, err := repo.Create(ctx, &model.User{ID: "u-1", Email: "bob@dylan.com", Password: "digest"})

		assert.NoError(t, err)
		assert.Equal(t, "bob@dylan.com", u.Email)
	})

	t.Run("duplicate email", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WithArgs("u-2", "bob@dylan.com", "digest").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		u, err := repo.Create(ctx, &model.User{ID: "u-2", Email: "bob@dylan.com", Password: "digest"})

		assert.Nil(t, u)
		assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password"}).
			AddRow("u-1", "bob@dylan.com", "digest")

		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("bob@dylan.com").
			WillReturnRows(rows)

		u, err := repo.FindByEmail(ctx, "bob@dylan.com")

		assert.NoError(t, err)
		assert.Equal(t, "u-1", u.ID)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM users WHERE email = ?").
			WithArgs("nobody@dylan.com").
			WillReturnError(sql.ErrNoRows)

		u, err := repo.FindByEmail(ctx, "nobody@dylan.com")

		assert.Nil(t, u)
		assert.ErrorIs(t, err, sql.ErrNoRows)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"id", "email", "password"}).
		AddRow("u-1", "bob@dylan.com", "digest")

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = ?").
		WithArgs("u-1").
		WillReturnRows(rows)

	u, err := repo.FindByID(ctx, "u-1")

	assert.NoError(t, err)
	assert.Equal(t, "bob@dylan.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserPostgres_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewUserPostgres(db)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM users").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	n, err := repo.Count(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
