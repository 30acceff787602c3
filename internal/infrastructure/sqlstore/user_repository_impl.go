package sqlstore

import (
	"context"
	"database/sql"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/oksasatya/go-user-crud/internal/domain/entity"
	"github.com/oksasatya/go-user-crud/internal/domain/repository"
)

const usersTable = "users"

var userColumns = []string{"id", "name", "email", "age", "created_at"}

type UserRepository struct {
	session *Session
}

func NewUserRepository(session *Session) *UserRepository {
	return &UserRepository{session: session}
}

func (r *UserRepository) stmt() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(r.session.dialect.PlaceholderFormat())
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	err := r.session.Transaction(ctx, "create", func(tx *sqlx.Tx) error {
		query, args, err := r.stmt().
			Insert(usersTable).
			Columns("name", "email", "age", "created_at").
			Values(u.Name, u.Email, u.Age, u.CreatedAt).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		return tx.QueryRowxContext(ctx, query, args...).Scan(&u.ID)
	})
	return storageErr("create", err)
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	users := []entity.User{}
	err := r.session.Transaction(ctx, "find_all", func(tx *sqlx.Tx) error {
		query, args, err := r.stmt().
			Select(userColumns...).
			From(usersTable).
			OrderBy("id").
			ToSql()
		if err != nil {
			return err
		}
		return tx.SelectContext(ctx, &users, query, args...)
	})
	if err != nil {
		return nil, storageErr("find_all", err)
	}
	for i := range users {
		users[i].CreatedAt = users[i].CreatedAt.UTC()
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*entity.User, error) {
	u := &entity.User{}
	err := r.session.Transaction(ctx, "find_by_id", func(tx *sqlx.Tx) error {
		query, args, err := r.stmt().
			Select(userColumns...).
			From(usersTable).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.GetContext(ctx, u, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return repository.ErrNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, storageErr("find_by_id", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

// Update writes name, email and age for u.ID. created_at is never rewritten.
func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	err := r.session.Transaction(ctx, "update", func(tx *sqlx.Tx) error {
		query, args, err := r.stmt().
			Update(usersTable).
			Set("name", u.Name).
			Set("email", u.Email).
			Set("age", u.Age).
			Where(sq.Eq{"id": u.ID}).
			ToSql()
		if err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
	return storageErr("update", err)
}

func (r *UserRepository) Delete(ctx context.Context, id int64) (bool, error) {
	deleted := false
	err := r.session.Transaction(ctx, "delete", func(tx *sqlx.Tx) error {
		query, args, err := r.stmt().
			Select("id").
			From(usersTable).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		var found int64
		if err := tx.GetContext(ctx, &found, query, args...); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil
			}
			return err
		}

		query, args, err = r.stmt().
			Delete(usersTable).
			Where(sq.Eq{"id": id}).
			ToSql()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}
		deleted = true
		return nil
	})
	if err != nil {
		return false, storageErr("delete", err)
	}
	return deleted, nil
}

// storageErr wraps driver failures; ErrNotFound passes through untouched.
func storageErr(op string, err error) error {
	if err == nil || errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return &repository.StorageError{Op: op, Err: err}
}

var _ repository.UserRepository = (*UserRepository)(nil)
