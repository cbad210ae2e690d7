package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/schoolbook/marksdesk/internal/app/models"
)

// UserStore is a testify mock of repositories.UserStore
type UserStore struct {
	mock.Mock
}

func (m *UserStore) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserStore) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

func (m *UserStore) GetActiveByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

// StorePinger is a testify mock of the health check dependency
type StorePinger struct {
	mock.Mock
}

func (m *StorePinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
