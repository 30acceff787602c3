package application

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-crud/internal/domain/entity"
	repo "github.com/oksasatya/go-user-crud/internal/domain/repository"
	"github.com/oksasatya/go-user-crud/pkg/validation"
)

// UserService is the use-case surface consumed by the console and HTTP controllers.
type UserService interface {
	Create(ctx context.Context, name, email string, age int) (*entity.User, error)
	FindAll(ctx context.Context) ([]entity.User, error)
	FindByID(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error)
	Delete(ctx context.Context, id int64) (*entity.User, error)
}

type Service struct {
	Repo   repo.UserRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

var _ UserService = (*Service)(nil)

func NewService(repo repo.UserRepository, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Service{Repo: repo, Logger: logger, Now: time.Now}
}

// UpdateUserInput carries the fields to overwrite. Empty strings and a nil Age
// leave the stored value unchanged.
type UpdateUserInput struct {
	Name  string
	Email string
	Age   *int
}

func (s *Service) Create(ctx context.Context, name, email string, age int) (*entity.User, error) {
	s.Logger.WithFields(logrus.Fields{"name": name, "email": email, "age": age}).Debug("create user")
	u := &entity.User{Name: name, Email: email, Age: age, CreatedAt: s.Now().UTC()}
	if err := s.validate(u); err != nil {
		return nil, err
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	s.Logger.WithField("user_id", u.ID).Info("user created")
	return u, nil
}

func (s *Service) FindAll(ctx context.Context) ([]entity.User, error) {
	s.Logger.Debug("find all users")
	return s.Repo.FindAll(ctx)
}

// FindByID returns nil without error when the user does not exist.
func (s *Service) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	s.Logger.WithField("user_id", id).Debug("find user")
	u, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Update merges in into the stored user and re-validates the whole record.
func (s *Service) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	s.Logger.WithFields(logrus.Fields{"user_id": id, "name": in.Name, "email": in.Email, "age_set": in.Age != nil}).Debug("update user")
	u, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, &NotFoundError{ID: id}
	}
	if in.Name != "" {
		u.Name = in.Name
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.Age != nil {
		u.Age = *in.Age
	}
	if err := s.validate(u); err != nil {
		return nil, err
	}
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &NotFoundError{ID: id}
		}
		return nil, err
	}
	s.Logger.WithField("user_id", id).Info("user updated")
	return u, nil
}

// Delete returns the removed user, or nil without error when none existed.
func (s *Service) Delete(ctx context.Context, id int64) (*entity.User, error) {
	s.Logger.WithField("user_id", id).Debug("delete user")
	u, err := s.FindByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, nil
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return u, nil
}

func (s *Service) validate(u *entity.User) error {
	if vs := validation.Struct(u); len(vs) > 0 {
		s.Logger.WithField("violations", vs.Error()).Debug("user rejected")
		return &ValidationError{Violations: vs}
	}
	return nil
}
