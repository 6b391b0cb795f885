package comment

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// State is the lifecycle variant of a comment. A tombstoned comment keeps its row
// (and author) so its replies stay reachable, but its content is gone.
type State string

const (
	StateLive       State = "live"
	StateTombstoned State = "tombstoned"
)

// TombstoneContent replaces the body of a soft-deleted comment.
const TombstoneContent = "[deleted]"

type Comment struct {
	ID         uuid.UUID  `gorm:"primary_key;type:char(36)"`
	PostID     uuid.UUID  `gorm:"type:char(36);not null;index:idx_comment_thread,priority:1"`
	AuthorID   uuid.UUID  `gorm:"type:char(36);not null"`
	ParentID   *uuid.UUID `gorm:"type:char(36);index:idx_comment_thread,priority:2"`
	Content    string     `gorm:"type:text;not null"`
	State      State      `gorm:"type:varchar(16);not null;default:'live'"`
	ReplyCount int64      `gorm:"not null;default:0"`
	LikeCount  int64      `gorm:"not null;default:0"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;precision:6"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime;precision:6"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.Must(uuid.NewV4())
	}
	if c.State == "" {
		c.State = StateLive
	}
	return nil
}

func (c *Comment) IsReply() bool { return c.ParentID != nil && *c.ParentID != uuid.Nil }

func (c *Comment) IsTombstoned() bool { return c.State == StateTombstoned }

// Tombstone switches the comment to the tombstoned variant. Counters are left untouched.
func (c *Comment) Tombstone() {
	c.State = StateTombstoned
	c.Content = TombstoneContent
}

// Counter names one denormalized counter column.
type Counter string

const (
	CounterReplies Counter = "reply_count"
	CounterLikes   Counter = "like_count"
)
