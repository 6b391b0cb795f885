package notification

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Type string

const (
	TypePostLiked         Type = "post_liked"
	TypeCommentAdded      Type = "comment_added"
	TypeCommentReplyAdded Type = "comment_reply_added"
	TypeCommentLiked      Type = "comment_liked"
)

type Notification struct {
	ID          uuid.UUID  `gorm:"primary_key;type:char(36)"`
	Type        Type       `gorm:"type:varchar(32);not null"`
	RecipientID uuid.UUID  `gorm:"type:char(36);not null;index:idx_recipient_read,priority:1"`
	ActorID     uuid.UUID  `gorm:"type:char(36);not null"`
	PostID      uuid.UUID  `gorm:"type:char(36);not null;index"`
	CommentID   *uuid.UUID `gorm:"type:char(36)"`
	Read        bool       `gorm:"column:is_read;not null;default:false;index:idx_recipient_read,priority:2"`
	CreatedAt   time.Time  `gorm:"precision:6"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

// Event is one engagement occurrence that may produce a notification.
type Event struct {
	Type        Type
	RecipientID uuid.UUID
	ActorID     uuid.UUID
	PostID      uuid.UUID
	CommentID   *uuid.UUID
}
