package comment

import (
	"context"
	"time"

	"devhub/internal/core/comment"

	"github.com/gofrs/uuid"
)

// CommentRepository is the port for storing and loading comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *comment.Comment) (*comment.Comment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	// FindByIDForUpdate row-locks the comment until the surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*comment.Comment, error)
	ListTopLevel(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*comment.Comment, int64, error)
	ListReplies(ctx context.Context, parentID uuid.UUID, offset, limit int) ([]*comment.Comment, int64, error)
	CountLiveReplies(ctx context.Context, parentID uuid.UUID) (int64, error)
	CountByPost(ctx context.Context, postID uuid.UUID) (int64, error)
	ListIDsByPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error)
	// UpdateBody persists content and state only; counters are never written from a stale copy.
	UpdateBody(ctx context.Context, comment *comment.Comment) error
	IncrementCounter(ctx context.Context, id uuid.UUID, counter comment.Counter, delta int64) error
	SetCounters(ctx context.Context, id uuid.UUID, replyCount, likeCount int64) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}

type CreateCommentInput struct {
	PostID   string `json:"postId" validate:"required,uuid"`
	Content  string `json:"content" validate:"required,max=2000"`
	ParentID string `json:"parentId" validate:"omitempty,uuid"`
}

// DeleteOutcome says which branch a comment delete took.
type DeleteOutcome string

const (
	DeleteHard      DeleteOutcome = "deleted"
	DeleteTombstone DeleteOutcome = "tombstoned"
	DeleteNoop      DeleteOutcome = "unchanged"
)

// DTOs for the use cases
type CommentDTO struct {
	ID         string    `json:"id"`
	PostID     string    `json:"postId"`
	AuthorID   string    `json:"authorId"`
	ParentID   *string   `json:"parentId"`
	Content    string    `json:"content"`
	Deleted    bool      `json:"deleted"`
	ReplyCount int64     `json:"replyCount"`
	LikeCount  int64     `json:"likeCount"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CommentPage struct {
	Comments []*CommentDTO `json:"comments"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Total    int64         `json:"total"`
}

func ToDTO(c *comment.Comment) *CommentDTO {
	dto := &CommentDTO{
		ID:         c.ID.String(),
		PostID:     c.PostID.String(),
		AuthorID:   c.AuthorID.String(),
		Content:    c.Content,
		ReplyCount: c.ReplyCount,
		LikeCount:  c.LikeCount,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
	if c.IsReply() {
		parent := c.ParentID.String()
		dto.ParentID = &parent
	}
	switch c.State {
	case comment.StateTombstoned:
		dto.Deleted = true
		dto.Content = comment.TombstoneContent
	}
	return dto
}
