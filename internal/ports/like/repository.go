package like

import (
	"context"

	"devhub/internal/core/like"

	"github.com/gofrs/uuid"
)

// LikeRepository stores both post likes and comment likes, selected by kind.
type LikeRepository interface {
	Exists(ctx context.Context, kind like.TargetKind, actorID, targetID uuid.UUID) (bool, error)
	Create(ctx context.Context, kind like.TargetKind, actorID, targetID uuid.UUID) error
	Delete(ctx context.Context, kind like.TargetKind, actorID, targetID uuid.UUID) error
	Count(ctx context.Context, kind like.TargetKind, targetID uuid.UUID) (int64, error)
	DeleteByTarget(ctx context.Context, kind like.TargetKind, targetID uuid.UUID) error
	DeleteCommentLikesByPost(ctx context.Context, postID uuid.UUID) error
}

type ToggleResult struct {
	Liked    bool  `json:"liked"`
	NewCount int64 `json:"newCount"`
}

type LikeStatus struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}
