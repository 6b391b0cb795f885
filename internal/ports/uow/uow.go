package uow

import (
	"context"
	"database/sql"
	"errors"

	"devhub/internal/core/apperr"
	commentPort "devhub/internal/ports/comment"
	likePort "devhub/internal/ports/like"
	notificationPort "devhub/internal/ports/notification"
	postPort "devhub/internal/ports/post"
	userPort "devhub/internal/ports/user"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate key")
)

// Repositories is a set of repositories bound to one handle: the shared pool, or a transaction.
type Repositories struct {
	Users         userPort.UserRepository
	Posts         postPort.PostRepository
	Comments      commentPort.CommentRepository
	Likes         likePort.LikeRepository
	Notifications notificationPort.NotificationRepository
}

// UnitOfWork is the transaction boundary. Everything fn does through r commits or rolls back together.
// opts are handed to the driver; backends without isolation levels ignore them.
type UnitOfWork interface {
	Repositories() Repositories
	Do(ctx context.Context, fn func(ctx context.Context, r Repositories) error, opts ...*sql.TxOptions) error
}

// ReadCommitted makes every plain read in the transaction see the latest committed rows
// instead of a snapshot fixed at the first read.
func ReadCommitted() *sql.TxOptions {
	return &sql.TxOptions{Isolation: sql.LevelReadCommitted}
}

// AppError classifies a storage error for the caller. ErrNotFound becomes NotFound with "<what> not found",
// an *apperr.Error passes through, anything else is Internal.
func AppError(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return apperr.New(apperr.NotFound, what+" not found")
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Wrap(apperr.Internal, "storage failure", err)
}
