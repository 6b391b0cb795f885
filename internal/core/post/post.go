package post

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type Kind string

const (
	KindGeneral   Kind = "general"
	KindProject   Kind = "project"
	KindStudy     Kind = "study"
	KindMentoring Kind = "mentoring"
)

func (k Kind) Valid() bool {
	switch k {
	case KindGeneral, KindProject, KindStudy, KindMentoring:
		return true
	}
	return false
}

type Post struct {
	ID           uuid.UUID `gorm:"primary_key;type:char(36)"`
	AuthorID     uuid.UUID `gorm:"type:char(36);not null;index"`
	Kind         Kind      `gorm:"type:varchar(20);not null;default:'general'"`
	Title        string    `gorm:"type:varchar(200);not null"`
	Content      string    `gorm:"type:text;not null"`
	LikeCount    int64     `gorm:"not null;default:0"`
	CommentCount int64     `gorm:"not null;default:0"`
	ViewCount    int64     `gorm:"not null;default:0"`
	Tags         []Tag     `gorm:"foreignKey:PostID"`
	CreatedAt    time.Time `gorm:"autoCreateTime;precision:6;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;precision:6"`
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

type Tag struct {
	PostID uuid.UUID `gorm:"primary_key;type:char(36)"`
	Name   string    `gorm:"primary_key;type:varchar(50)"`
}

func (Tag) TableName() string { return "post_tags" }

// Counter names one denormalized counter column.
type Counter string

const (
	CounterLikes    Counter = "like_count"
	CounterComments Counter = "comment_count"
	CounterViews    Counter = "view_count"
)
