package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-crud/internal/application"
	"github.com/oksasatya/go-user-crud/internal/application/mocks"
	"github.com/oksasatya/go-user-crud/internal/domain/entity"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore/sqlstoretest"
)

func TestSeedIsIdempotent(t *testing.T) {
	svc := application.NewService(sqlstore.NewUserRepository(sqlstoretest.NewSession(t)), nil)
	ctx := context.Background()
	var out bytes.Buffer

	n, err := seed(ctx, svc, &out)
	require.NoError(t, err)
	assert.Equal(t, len(demoUsers), n)

	n, err = seed(ctx, svc, &out)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Contains(t, out.String(), "skipped existing user: email=test1@example.com")

	users, err := svc.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, len(demoUsers))
}

func TestSeedStopsOnError(t *testing.T) {
	svc := new(mocks.UserService)
	svc.On("FindAll", mock.Anything).Return([]entity.User{}, nil)
	svc.On("Create", mock.Anything, "Test One", "test1@example.com", 21).Return(nil, errors.New("boom"))

	n, err := seed(context.Background(), svc, &bytes.Buffer{})

	assert.Zero(t, n)
	assert.ErrorContains(t, err, "seed test1@example.com: boom")
	svc.AssertExpectations(t)
}
