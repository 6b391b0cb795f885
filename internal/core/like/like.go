package like

import (
	"time"

	"github.com/gofrs/uuid"
)

// TargetKind names what a like points to.
type TargetKind string

const (
	TargetPost    TargetKind = "post"
	TargetComment TargetKind = "comment"
)

// Like is the (actor, post) relation. Existence is the only state.
type Like struct {
	ActorID   uuid.UUID `gorm:"primary_key;type:char(36)"`
	PostID    uuid.UUID `gorm:"primary_key;type:char(36);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (Like) TableName() string { return "post_likes" }

// CommentLike is the (actor, comment) relation.
type CommentLike struct {
	ActorID   uuid.UUID `gorm:"primary_key;type:char(36)"`
	CommentID uuid.UUID `gorm:"primary_key;type:char(36);index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CommentLike) TableName() string { return "comment_likes" }
