package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"devhub/internal/ports/uow"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements uow.UnitOfWork on top of one shared *gorm.DB.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Repositories() uow.Repositories {
	return repositoriesFor(s.db)
}

// Do runs fn inside a single transaction. fn must use only the repositories it is given.
func (s *Store) Do(ctx context.Context, fn func(ctx context.Context, r uow.Repositories) error, opts ...*sql.TxOptions) error {
	if s.db.Dialector.Name() == "sqlite" {
		// one writer at a time already; the driver has no isolation levels to pick from
		opts = nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, repositoriesFor(tx))
	}, opts...)
}

func repositoriesFor(db *gorm.DB) uow.Repositories {
	return uow.Repositories{
		Users:         NewUserRepositoryDatabase(db),
		Posts:         NewPostRepositoryDatabase(db),
		Comments:      NewCommentRepositoryDatabase(db),
		Likes:         NewLikeRepositoryDatabase(db),
		Notifications: NewNotificationRepositoryDatabase(db),
	}
}

// forUpdate adds SELECT ... FOR UPDATE. SQLite has no row locks; its writers are serialized instead.
func forUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return uow.ErrNotFound
	case isDuplicateKey(err):
		return fmt.Errorf("%w: %v", uow.ErrDuplicate, err)
	}
	return err
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "duplicate entry") ||
		strings.Contains(s, "duplicate key") ||
		strings.Contains(s, "unique constraint") ||
		strings.Contains(s, "sqlstate 23505")
}
