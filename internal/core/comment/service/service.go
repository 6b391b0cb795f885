package commentapp

import (
	"context"
	"strings"

	"devhub/internal/core/apperr"
	commentEntity "devhub/internal/core/comment"
	"devhub/internal/core/like"
	"devhub/internal/core/notification"
	"devhub/internal/core/paging"
	"devhub/internal/core/post"
	"devhub/internal/core/user"
	commentPort "devhub/internal/ports/comment"
	notificationPort "devhub/internal/ports/notification"
	"devhub/internal/ports/uow"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// CommentService runs the one-level comment thread of a post and keeps the
// post's commentCount and each parent's replyCount in step with it.
type CommentService struct {
	Store    uow.UnitOfWork
	Notifier notificationPort.Notifier
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewCommentService(store uow.UnitOfWork, notifier notificationPort.Notifier, logger *zap.Logger) *CommentService {
	return &CommentService{
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
		validate: validator.New(),
	}
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.NotFound, what+" not found")
	}
	return id, nil
}

// ListTopLevel returns the post's top-level comments oldest first, tombstones included.
func (s *CommentService) ListTopLevel(ctx context.Context, rawPostID string, page, pageSize int) (*commentPort.CommentPage, error) {
	postID, err := parseID(rawPostID, "post")
	if err != nil {
		return nil, err
	}
	r := s.Store.Repositories()
	if _, err := r.Posts.FindByID(ctx, postID); err != nil {
		return nil, uow.AppError(err, "post")
	}

	page, pageSize, offset := paging.Normalize(page, pageSize)
	comments, total, err := r.Comments.ListTopLevel(ctx, postID, offset, pageSize)
	if err != nil {
		return nil, uow.AppError(err, "comment")
	}
	return toPage(comments, page, pageSize, total), nil
}

// ListReplies returns the replies of one top-level comment oldest first.
func (s *CommentService) ListReplies(ctx context.Context, rawParentID string, page, pageSize int) (*commentPort.CommentPage, error) {
	parentID, err := parseID(rawParentID, "comment")
	if err != nil {
		return nil, err
	}
	r := s.Store.Repositories()
	if _, err := r.Comments.FindByID(ctx, parentID); err != nil {
		return nil, uow.AppError(err, "comment")
	}

	page, pageSize, offset := paging.Normalize(page, pageSize)
	replies, total, err := r.Comments.ListReplies(ctx, parentID, offset, pageSize)
	if err != nil {
		return nil, uow.AppError(err, "comment")
	}
	return toPage(replies, page, pageSize, total), nil
}

func toPage(comments []*commentEntity.Comment, page, pageSize int, total int64) *commentPort.CommentPage {
	dtos := make([]*commentPort.CommentDTO, 0, len(comments))
	for _, c := range comments {
		dtos = append(dtos, commentPort.ToDTO(c))
	}
	return &commentPort.CommentPage{Comments: dtos, Page: page, PageSize: pageSize, Total: total}
}

// CreateComment adds a top-level comment or, with ParentID, a reply.
// Exactly one notification follows: to the parent's author for a reply, else to the post's author.
func (s *CommentService) CreateComment(ctx context.Context, actor user.Actor, in commentPort.CreateCommentInput) (*commentPort.CommentDTO, error) {
	if actor.IsAnonymous() {
		return nil, apperr.ErrUnauthorized
	}
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidation(err)
	}
	postID := uuid.FromStringOrNil(in.PostID)

	var (
		created *commentEntity.Comment
		event   notification.Event
	)
	err := s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		p, err := r.Posts.FindByIDForUpdate(ctx, postID)
		if err != nil {
			return uow.AppError(err, "post")
		}

		c := &commentEntity.Comment{PostID: p.ID, AuthorID: actor.ID, Content: in.Content}
		event = notification.Event{
			Type:        notification.TypeCommentAdded,
			RecipientID: p.AuthorID,
			ActorID:     actor.ID,
			PostID:      p.ID,
		}

		if in.ParentID != "" {
			parent, err := r.Comments.FindByIDForUpdate(ctx, uuid.FromStringOrNil(in.ParentID))
			if err != nil {
				return uow.AppError(err, "parent comment")
			}
			if err := checkParent(parent, p.ID); err != nil {
				return err
			}
			c.ParentID = &parent.ID
			event.Type = notification.TypeCommentReplyAdded
			event.RecipientID = parent.AuthorID
		}

		if created, err = r.Comments.Create(ctx, c); err != nil {
			return err
		}
		if err := r.Posts.IncrementCounter(ctx, p.ID, post.CounterComments, 1); err != nil {
			return err
		}
		if c.IsReply() {
			if err := r.Comments.IncrementCounter(ctx, *c.ParentID, commentEntity.CounterReplies, 1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, uow.AppError(err, "comment")
	}

	event.CommentID = &created.ID
	s.Notifier.Notify(ctx, event)
	return commentPort.ToDTO(created), nil
}

// checkParent enforces the thread shape: same post, one level deep, parent still live.
func checkParent(parent *commentEntity.Comment, postID uuid.UUID) error {
	switch {
	case parent.PostID != postID:
		return apperr.New(apperr.BadRequest, "parent comment belongs to another post")
	case parent.IsReply():
		return apperr.New(apperr.BadRequest, "replies cannot be nested")
	case parent.IsTombstoned():
		return apperr.New(apperr.BadRequest, "cannot reply to a deleted comment")
	}
	return nil
}

type editInput struct {
	Content string `validate:"required,max=2000"`
}

// EditComment replaces the content of a live comment. Only its author may edit it.
func (s *CommentService) EditComment(ctx context.Context, actor user.Actor, rawID, content string) (*commentPort.CommentDTO, error) {
	if actor.IsAnonymous() {
		return nil, apperr.ErrUnauthorized
	}
	id, err := parseID(rawID, "comment")
	if err != nil {
		return nil, err
	}
	in := editInput{Content: strings.TrimSpace(content)}
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidation(err)
	}

	var updated *commentEntity.Comment
	err = s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		c, err := r.Comments.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c.AuthorID != actor.ID {
			return apperr.New(apperr.Forbidden, "only the author can edit this comment")
		}

		switch c.State {
		case commentEntity.StateTombstoned:
			return apperr.New(apperr.BadRequest, "deleted comments cannot be edited")
		case commentEntity.StateLive:
			c.Content = in.Content
		}
		if err := r.Comments.UpdateBody(ctx, c); err != nil {
			return err
		}
		updated, err = r.Comments.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, uow.AppError(err, "comment")
	}
	return commentPort.ToDTO(updated), nil
}

// DeleteComment removes a comment without live replies, and tombstones one that has them.
// The reply count is read under the comment's row lock, the same lock a new reply takes on its parent,
// so a reply cannot slip in between the check and the delete.
func (s *CommentService) DeleteComment(ctx context.Context, actor user.Actor, rawID string) (commentPort.DeleteOutcome, error) {
	if actor.IsAnonymous() {
		return "", apperr.ErrUnauthorized
	}
	id, err := parseID(rawID, "comment")
	if err != nil {
		return "", err
	}

	// locate the post first so locks are always taken post then comment, as CreateComment does
	located, err := s.Store.Repositories().Comments.FindByID(ctx, id)
	if err != nil {
		return "", uow.AppError(err, "comment")
	}

	var outcome commentPort.DeleteOutcome
	err = s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		if _, err := r.Posts.FindByIDForUpdate(ctx, located.PostID); err != nil {
			return err
		}
		c, err := r.Comments.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c.AuthorID != actor.ID {
			return apperr.New(apperr.Forbidden, "only the author can delete this comment")
		}

		live, err := r.Comments.CountLiveReplies(ctx, c.ID)
		if err != nil {
			return err
		}

		switch {
		case live == 0:
			outcome = commentPort.DeleteHard
			return hardDelete(ctx, r, c)
		case c.IsTombstoned():
			outcome = commentPort.DeleteNoop
			return nil
		default:
			outcome = commentPort.DeleteTombstone
			c.Tombstone()
			return r.Comments.UpdateBody(ctx, c)
		}
	})
	if err != nil {
		return "", uow.AppError(err, "comment")
	}

	s.Logger.Info("comment deleted",
		zap.String("commentID", id.String()),
		zap.String("actorID", actor.ID.String()),
		zap.String("outcome", string(outcome)))
	return outcome, nil
}

func hardDelete(ctx context.Context, r uow.Repositories, c *commentEntity.Comment) error {
	if err := r.Likes.DeleteByTarget(ctx, like.TargetComment, c.ID); err != nil {
		return err
	}
	if err := r.Comments.Delete(ctx, c.ID); err != nil {
		return err
	}
	if err := r.Posts.IncrementCounter(ctx, c.PostID, post.CounterComments, -1); err != nil {
		return err
	}
	if c.IsReply() {
		return r.Comments.IncrementCounter(ctx, *c.ParentID, commentEntity.CounterReplies, -1)
	}
	return nil
}
