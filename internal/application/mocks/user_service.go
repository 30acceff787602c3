package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/go-user-crud/internal/application"
	"github.com/oksasatya/go-user-crud/internal/domain/entity"
)

// UserService is a testify mock of application.UserService.
type UserService struct {
	mock.Mock
}

var _ application.UserService = (*UserService)(nil)

func (m *UserService) Create(ctx context.Context, name, email string, age int) (*entity.User, error) {
	args := m.Called(ctx, name, email, age)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserService) FindAll(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *UserService) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserService) Update(ctx context.Context, id int64, in application.UpdateUserInput) (*entity.User, error) {
	args := m.Called(ctx, id, in)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *UserService) Delete(ctx context.Context, id int64) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}
