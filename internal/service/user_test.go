package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"filesapi/internal/model"
	"filesapi/internal/queue"
	queueMocks "filesapi/internal/queue/mocks"
	"filesapi/internal/repository"
	repoMocks "filesapi/internal/repository/mocks"
)

func TestUserService_Register(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockDispatcher)
		wantErr    error
	}{
		{
			name:     "happy path",
			email:    "bob@dylan.com",
			password: "toto1234!",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockDispatcher) {
				mUsers.On("Create", ctx, mock.MatchedBy(func(u *model.User) bool {
					return u.ID != "" && u.Email == "bob@dylan.com" && u.Password == HashPassword("toto1234!")
				})).Return(&model.User{ID: "u-1", Email: "bob@dylan.com"}, nil)
				mJobs.On("Enqueue", ctx, "userQueue", queue.UserJob{UserID: "u-1"}).Return(nil)
			},
		},
		{
			name:       "missing email",
			password:   "toto1234!",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockDispatcher) {},
			wantErr:    ErrMissingEmail,
		},
		{
			name:       "missing password",
			email:      "bob@dylan.com",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockDispatcher) {},
			wantErr:    ErrMissingPassword,
		},
		{
			name:     "duplicate email",
			email:    "bob@dylan.com",
			password: "toto1234!",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockDispatcher) {
				mUsers.On("Create", ctx, mock.Anything).Return(nil, repository.ErrDuplicateEmail)
			},
			wantErr: ErrAlreadyExists,
		},
		{
			name:     "enqueue failure does not fail the registration",
			email:    "bob@dylan.com",
			password: "toto1234!",
			setupMocks: func(mUsers *repoMocks.MockUserRepository, mJobs *queueMocks.MockDispatcher) {
				mUsers.On("Create", ctx, mock.Anything).
					Return(&model.User{ID: "u-1", Email: "bob@dylan.com"}, nil)
				mJobs.On("Enqueue", ctx, "userQueue", queue.UserJob{UserID: "u-1"}).
					Return(errors.New("redis down"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mUsers := new(repoMocks.MockUserRepository)
			mJobs := new(queueMocks.MockDispatcher)
			tt.setupMocks(mUsers, mJobs)

			svc := NewUserService(mUsers, mJobs, "userQueue", slog.Default())
			u, err := svc.Register(ctx, tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, u)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "bob@dylan.com", u.Email)
			}
			mUsers.AssertExpectations(t)
			mJobs.AssertExpectations(t)
		})
	}
}

func TestUserService_Me(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", ctx, "u-1").Return(&model.User{ID: "u-1", Email: "bob@dylan.com"}, nil)

		svc := NewUserService(mUsers, new(queueMocks.MockDispatcher), "userQueue", slog.Default())
		u, err := svc.Me(ctx, "u-1")

		assert.NoError(t, err)
		assert.Equal(t, "bob@dylan.com", u.Email)
	})

	t.Run("record gone", func(t *testing.T) {
		mUsers := new(repoMocks.MockUserRepository)
		mUsers.On("FindByID", ctx, "u-1").Return(nil, sql.ErrNoRows)

		svc := NewUserService(mUsers, new(queueMocks.MockDispatcher), "userQueue", slog.Default())
		u, err := svc.Me(ctx, "u-1")

		assert.Nil(t, u)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}
