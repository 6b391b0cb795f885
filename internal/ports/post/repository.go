package post

import (
	"context"
	"time"

	"devhub/internal/core/post"

	"github.com/gofrs/uuid"
)

// PostRepository is the port for storing and loading posts.
type PostRepository interface {
	Create(ctx context.Context, post *post.Post) (*post.Post, error)
	FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error)
	// FindByIDForUpdate row-locks the post until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*post.Post, error)
	List(ctx context.Context, offset, limit int) ([]*post.Post, int64, error)
	UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error
	// IncrementCounter atomically adds delta to one counter column.
	IncrementCounter(ctx context.Context, id uuid.UUID, counter post.Counter, delta int64) error
	SetCounters(ctx context.Context, id uuid.UUID, likeCount, commentCount int64) error
	ListIDsAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CreatePostInput struct {
	Kind    string   `json:"kind" validate:"omitempty,oneof=general project study mentoring"`
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required,max=20000"`
	Tags    []string `json:"tags" validate:"max=10,dive,required,max=50"`
}

type UpdatePostInput struct {
	Title   string `json:"title" validate:"required,max=200"`
	Content string `json:"content" validate:"required,max=20000"`
}

// DTOs for the use cases
type PostDTO struct {
	ID           string    `json:"id"`
	AuthorID     string    `json:"authorId"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Tags         []string  `json:"tags"`
	LikeCount    int64     `json:"likeCount"`
	CommentCount int64     `json:"commentCount"`
	ViewCount    int64     `json:"viewCount"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type PostPage struct {
	Posts    []*PostDTO `json:"posts"`
	Page     int        `json:"page"`
	PageSize int        `json:"pageSize"`
	Total    int64      `json:"total"`
}

func ToDTO(p *post.Post) *PostDTO {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}
	return &PostDTO{
		ID:           p.ID.String(),
		AuthorID:     p.AuthorID.String(),
		Kind:         string(p.Kind),
		Title:        p.Title,
		Content:      p.Content,
		Tags:         tags,
		LikeCount:    p.LikeCount,
		CommentCount: p.CommentCount,
		ViewCount:    p.ViewCount,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
