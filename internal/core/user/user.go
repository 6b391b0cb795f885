package user

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"primary_key;type:char(36)"`
	Email        string    `gorm:"type:varchar(191);uniqueIndex;not null"`
	DisplayName  string    `gorm:"type:varchar(100);not null"`
	AvatarURL    string    `gorm:"type:varchar(512)"`
	PasswordHash string    `gorm:"type:varchar(100)"` // empty for users materialized from an external identity
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV4())
	}
	return nil
}

// DefaultDisplayName is used when an identity claim carries no name.
const DefaultDisplayName = "Anonymous"

// Actor is the identity behind a request. The zero value is the anonymous visitor.
type Actor struct {
	ID uuid.UUID
}

var Anonymous = Actor{}

func (a Actor) IsAnonymous() bool { return a.ID == uuid.Nil }

// IdentityClaim is what the transport layer knows about the caller before resolution.
type IdentityClaim struct {
	ActorID   string
	Email     string
	Name      string
	AvatarURL string
}
