package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-user-crud/internal/domain/entity"
)

// ErrNotFound is returned when no user row matches the requested id.
var ErrNotFound = errors.New("not found")

// UserRepository defines the interface for user-related database operations.
// Every method runs as its own unit of work.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	FindAll(ctx context.Context) ([]entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
	// Delete reports whether a row existed and was removed.
	Delete(ctx context.Context, id int64) (bool, error)
}

// StorageError wraps a failure from the persistence layer.
// The original driver error stays reachable through errors.Is / errors.As.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return "storage: " + e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error { return e.Err }
