package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockContentStore struct {
	mock.Mock
}

func (m *MockContentStore) Write(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockContentStore) Read(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockContentStore) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentStore) Ping(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}
