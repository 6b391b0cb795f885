package postapp

import (
	"context"
	"strings"

	"devhub/internal/core/apperr"
	"devhub/internal/core/like"
	"devhub/internal/core/paging"
	postEntity "devhub/internal/core/post"
	"devhub/internal/core/user"
	postPort "devhub/internal/ports/post"
	"devhub/internal/ports/uow"

	"github.com/go-playground/validator/v10"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// PostService is the thin CRUD around posts. Counters are owned by the engagement services.
type PostService struct {
	Store    uow.UnitOfWork
	Logger   *zap.Logger
	validate *validator.Validate
}

func NewPostService(store uow.UnitOfWork, logger *zap.Logger) *PostService {
	return &PostService{
		Store:    store,
		Logger:   logger,
		validate: validator.New(),
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.FromString(raw)
	if err != nil {
		return uuid.Nil, apperr.New(apperr.NotFound, "post not found")
	}
	return id, nil
}

// normalizeTags trims, lowercases and de-duplicates tags, keeping first-seen order.
func normalizeTags(raw []string) []postEntity.Tag {
	seen := make(map[string]bool, len(raw))
	tags := make([]postEntity.Tag, 0, len(raw))
	for _, t := range raw {
		name := strings.ToLower(strings.TrimSpace(t))
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		tags = append(tags, postEntity.Tag{Name: name})
	}
	return tags
}

// CreatePost publishes a post with zeroed counters.
func (s *PostService) CreatePost(ctx context.Context, actor user.Actor, in postPort.CreatePostInput) (*postPort.PostDTO, error) {
	if actor.IsAnonymous() {
		return nil, apperr.ErrUnauthorized
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidation(err)
	}

	kind := postEntity.Kind(in.Kind)
	if kind == "" {
		kind = postEntity.KindGeneral
	}

	p, err := s.Store.Repositories().Posts.Create(ctx, &postEntity.Post{
		AuthorID: actor.ID,
		Kind:     kind,
		Title:    in.Title,
		Content:  in.Content,
		Tags:     normalizeTags(in.Tags),
	})
	if err != nil {
		return nil, uow.AppError(err, "post")
	}

	s.Logger.Info("post created", zap.String("postID", p.ID.String()), zap.String("authorID", actor.ID.String()))
	return postPort.ToDTO(p), nil
}

func (s *PostService) GetPost(ctx context.Context, rawID string) (*postPort.PostDTO, error) {
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	p, err := s.Store.Repositories().Posts.FindByID(ctx, id)
	if err != nil {
		return nil, uow.AppError(err, "post")
	}
	return postPort.ToDTO(p), nil
}

// ListPosts pages through posts newest first.
func (s *PostService) ListPosts(ctx context.Context, page, pageSize int) (*postPort.PostPage, error) {
	page, pageSize, offset := paging.Normalize(page, pageSize)
	posts, total, err := s.Store.Repositories().Posts.List(ctx, offset, pageSize)
	if err != nil {
		return nil, uow.AppError(err, "post")
	}

	dtos := make([]*postPort.PostDTO, 0, len(posts))
	for _, p := range posts {
		dtos = append(dtos, postPort.ToDTO(p))
	}
	return &postPort.PostPage{Posts: dtos, Page: page, PageSize: pageSize, Total: total}, nil
}

// UpdatePost changes title and content. Only the author may do it.
func (s *PostService) UpdatePost(ctx context.Context, actor user.Actor, rawID string, in postPort.UpdatePostInput) (*postPort.PostDTO, error) {
	if actor.IsAnonymous() {
		return nil, apperr.ErrUnauthorized
	}
	id, err := parseID(rawID)
	if err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
	if err := s.validate.Struct(in); err != nil {
		return nil, apperr.FromValidation(err)
	}

	var updated *postEntity.Post
	err = s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		p, err := r.Posts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.AuthorID != actor.ID {
			return apperr.New(apperr.Forbidden, "only the author can edit this post")
		}
		if err := r.Posts.UpdateContent(ctx, id, in.Title, in.Content); err != nil {
			return err
		}
		updated, err = r.Posts.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, uow.AppError(err, "post")
	}
	return postPort.ToDTO(updated), nil
}

// DeletePost removes the post with everything hanging off it in one transaction:
// comment likes, comments, post likes, the post's notifications, tags and the post row.
func (s *PostService) DeletePost(ctx context.Context, actor user.Actor, rawID string) error {
	if actor.IsAnonymous() {
		return apperr.ErrUnauthorized
	}
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	err = s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		p, err := r.Posts.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.AuthorID != actor.ID {
			return apperr.New(apperr.Forbidden, "only the author can delete this post")
		}

		if err := r.Likes.DeleteCommentLikesByPost(ctx, id); err != nil {
			return err
		}
		if err := r.Comments.DeleteByPost(ctx, id); err != nil {
			return err
		}
		if err := r.Likes.DeleteByTarget(ctx, like.TargetPost, id); err != nil {
			return err
		}
		if err := r.Notifications.DeleteByPost(ctx, id); err != nil {
			return err
		}
		return r.Posts.Delete(ctx, id)
	})
	if err != nil {
		return uow.AppError(err, "post")
	}

	s.Logger.Info("post deleted", zap.String("postID", id.String()), zap.String("actorID", actor.ID.String()))
	return nil
}
