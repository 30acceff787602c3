package sqlstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-crud/internal/domain/entity"
	"github.com/oksasatya/go-user-crud/internal/domain/repository"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore"
	"github.com/oksasatya/go-user-crud/internal/infrastructure/sqlstore/sqlstoretest"
)

func newUser(name, email string, age int) *entity.User {
	return &entity.User{Name: name, Email: email, Age: age, CreatedAt: time.Now().UTC()}
}

func setupRepo(t *testing.T) *sqlstore.UserRepository {
	return sqlstore.NewUserRepository(sqlstoretest.NewSession(t))
}

func TestCreateAndFindByID(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	u := newUser("A1", "A1@test.com", 35)

	require.NoError(t, repo.Create(ctx, u))
	assert.NotZero(t, u.ID)

	found, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)
	assert.Equal(t, "A1", found.Name)
	assert.Equal(t, "A1@test.com", found.Email)
	assert.Equal(t, 35, found.Age)
	assert.WithinDuration(t, u.CreatedAt, found.CreatedAt, time.Millisecond)
	assert.Equal(t, time.UTC, found.CreatedAt.Location())
}

func TestCreateAssignsDistinctIDs(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	a := newUser("A1", "a1@test.com", 31)
	b := newUser("A2", "a2@test.com", 32)

	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	assert.NotEqual(t, a.ID, b.ID)
}

func TestFindAll(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.NotNil(t, all)

	require.NoError(t, repo.Create(ctx, newUser("A1", "a1@test.com", 31)))
	require.NoError(t, repo.Create(ctx, newUser("A2", "a2@test.com", 32)))

	all, err = repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFindByIDMissing(t *testing.T) {
	repo := setupRepo(t)

	u, err := repo.FindByID(context.Background(), 99)

	assert.Nil(t, u)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUpdate(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	u := newUser("Old", "old@test.com", 46)
	require.NoError(t, repo.Create(ctx, u))
	created := u.CreatedAt

	u.Name = "New"
	u.CreatedAt = created.Add(time.Hour)
	require.NoError(t, repo.Update(ctx, u))

	updated, err := repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "old@test.com", updated.Email)
	assert.Equal(t, 46, updated.Age)
	assert.WithinDuration(t, created, updated.CreatedAt, time.Millisecond)
}

func TestUpdateMissing(t *testing.T) {
	repo := setupRepo(t)
	u := newUser("Ghost", "ghost@test.com", 20)
	u.ID = 404

	assert.ErrorIs(t, repo.Update(context.Background(), u), repository.ErrNotFound)
}

func TestDelete(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	u := newUser("Del", "del@test.com", 27)
	require.NoError(t, repo.Create(ctx, u))

	deleted, err := repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	_, err = repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err = repo.Delete(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestCreateStorageFailureRollsBack(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, newUser("Ok", "ok@test.com", 20)))

	// The table CHECK constraint rejects ages the service would never let through.
	err := repo.Create(ctx, newUser("Bad", "bad@test.com", 500))

	var storageErr *repository.StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, "create", storageErr.Op)
	assert.NotNil(t, errors.Unwrap(err))

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestOperationsFailAfterClose(t *testing.T) {
	session := sqlstoretest.NewSession(t)
	repo := sqlstore.NewUserRepository(session)
	require.NoError(t, session.Close())

	_, err := repo.FindAll(context.Background())

	var storageErr *repository.StorageError
	assert.True(t, errors.As(err, &storageErr))
}
