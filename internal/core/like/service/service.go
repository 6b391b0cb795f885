package likeapp

import (
	"context"

	"devhub/internal/core/apperr"
	"devhub/internal/core/comment"
	"devhub/internal/core/like"
	"devhub/internal/core/notification"
	"devhub/internal/core/post"
	"devhub/internal/core/user"
	likePort "devhub/internal/ports/like"
	notificationPort "devhub/internal/ports/notification"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// LikeService flips like relations and keeps the target's like counter in step with them.
type LikeService struct {
	Store    uow.UnitOfWork
	Notifier notificationPort.Notifier
	Logger   *zap.Logger
}

func NewLikeService(store uow.UnitOfWork, notifier notificationPort.Notifier, logger *zap.Logger) *LikeService {
	return &LikeService{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
	}
}

// target is the locked row a toggle works against.
type target struct {
	authorID uuid.UUID
	count    int64
}

func targetName(kind like.TargetKind) string {
	if kind == like.TargetComment {
		return "comment"
	}
	return "post"
}

func parseTarget(kind like.TargetKind, rawID string) (uuid.UUID, error) {
	if kind != like.TargetPost && kind != like.TargetComment {
		return uuid.Nil, apperr.New(apperr.BadRequest, "unknown like target")
	}
	id, err := uuid.FromString(rawID)
	if err != nil {
		// an id that cannot exist is reported like any other missing target
		return uuid.Nil, apperr.New(apperr.NotFound, targetName(kind)+" not found")
	}
	return id, nil
}

// ToggleLike flips the (actor, target) relation. The relation row and the counter change in one transaction,
// under a row lock on the target, so likeCount always equals the number of relation rows.
func (s *LikeService) ToggleLike(ctx context.Context, actor user.Actor, kind like.TargetKind, rawID string) (*likePort.ToggleResult, error) {
	if actor.IsAnonymous() {
		return nil, apperr.ErrUnauthorized
	}
	targetID, err := parseTarget(kind, rawID)
	if err != nil {
		return nil, err
	}

	var (
		result likePort.ToggleResult
		locked target
	)
	err = s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		var err error
		if locked, err = lockTarget(ctx, r, kind, targetID); err != nil {
			return err
		}

		exists, err := r.Likes.Exists(ctx, kind, actor.ID, targetID)
		if err != nil {
			return err
		}

		delta := int64(1)
		if exists {
			delta = -1
			err = r.Likes.Delete(ctx, kind, actor.ID, targetID)
		} else {
			err = r.Likes.Create(ctx, kind, actor.ID, targetID)
		}
		if err != nil {
			return err
		}

		if kind == like.TargetPost {
			err = r.Posts.IncrementCounter(ctx, targetID, post.CounterLikes, delta)
		} else {
			err = r.Comments.IncrementCounter(ctx, targetID, comment.CounterLikes, delta)
		}
		if err != nil {
			return err
		}

		result = likePort.ToggleResult{Liked: !exists, NewCount: locked.count + delta}
		return nil
	})
	if err != nil {
		return nil, uow.AppError(err, targetName(kind))
	}

	s.Logger.Debug("like toggled",
		zap.String("kind", string(kind)),
		zap.String("targetID", targetID.String()),
		zap.String("actorID", actor.ID.String()),
		zap.Bool("liked", result.Liked))

	// only a new post like notifies; comment likes and unlikes are silent
	if result.Liked && kind == like.TargetPost {
		s.Notifier.Notify(ctx, notification.Event{
			Type:        notification.TypePostLiked,
			RecipientID: locked.authorID,
			ActorID:     actor.ID,
			PostID:      targetID,
		})
	}
	return &result, nil
}

func lockTarget(ctx context.Context, r uow.Repositories, kind like.TargetKind, id uuid.UUID) (target, error) {
	if kind == like.TargetPost {
		p, err := r.Posts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return target{}, err
		}
		return target{authorID: p.AuthorID, count: p.LikeCount}, nil
	}
	c, err := r.Comments.FindByIDForUpdate(ctx, id)
	if err != nil {
		return target{}, err
	}
	return target{authorID: c.AuthorID, count: c.LikeCount}, nil
}

// LikeStatus reports the target's like count and whether actor likes it. Anonymous callers never like anything.
func (s *LikeService) LikeStatus(ctx context.Context, actor user.Actor, kind like.TargetKind, rawID string) (*likePort.LikeStatus, error) {
	targetID, err := parseTarget(kind, rawID)
	if err != nil {
		return nil, err
	}
	r := s.Store.Repositories()

	var status likePort.LikeStatus
	if kind == like.TargetPost {
		p, err := r.Posts.FindByID(ctx, targetID)
		if err != nil {
			return nil, uow.AppError(err, "post")
		}
		status.Count = p.LikeCount
	} else {
		c, err := r.Comments.FindByID(ctx, targetID)
		if err != nil {
			return nil, uow.AppError(err, "comment")
		}
		status.Count = c.LikeCount
	}

	if actor.IsAnonymous() {
		return &status, nil
	}
	if status.Liked, err = r.Likes.Exists(ctx, kind, actor.ID, targetID); err != nil {
		return nil, uow.AppError(err, targetName(kind))
	}
	return &status, nil
}
