package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"filesapi/internal/model"
	"filesapi/internal/queue"
	"filesapi/internal/repository"
)

var (
	ErrMissingEmail    = errors.New("missing email")
	ErrMissingPassword = errors.New("missing password")
	ErrAlreadyExists   = errors.New("email already taken")
)

// UserService handles registration and the current-user lookup.
type UserService interface {
	// Register creates a new account. A duplicate email yields
	// ErrAlreadyExists; the unique index on the insert is what decides, so
	// two racing registrations cannot both win.
	Register(ctx context.Context, email, password string) (*model.User, error)

	// Me returns the account behind an authenticated user id, or
	// ErrUnauthorized when the record has gone away.
	Me(ctx context.Context, userID string) (*model.User, error)
}

type userService struct {
	users     repository.UserRepository
	jobs      queue.Dispatcher
	userQueue string
	log       *slog.Logger
}

// NewUserService constructs a new UserService. The dispatcher receives a
// welcome-processing job per successful registration.
func NewUserService(users repository.UserRepository, jobs queue.Dispatcher, userQueue string, log *slog.Logger) UserService {
	return &userService{users: users, jobs: jobs, userQueue: userQueue, log: log}
}

func (s *userService) Register(ctx context.Context, email, password string) (*model.User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	u := &model.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: HashPassword(password),
	}
	stored, err := s.users.Create(ctx, u)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Fire-and-forget: a lost welcome job never fails the registration.
	if err := s.jobs.Enqueue(ctx, s.userQueue, queue.UserJob{UserID: stored.ID}); err != nil {
		s.log.Warn("enqueue user job failed", "user_id", stored.ID, "error", err)
	}

	return stored, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}
