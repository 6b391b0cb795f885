package database

import (
	"devhub/internal/core/comment"
	"devhub/internal/core/like"
	"devhub/internal/core/notification"
	"devhub/internal/core/post"
	"devhub/internal/core/user"

	"gorm.io/gorm"
)

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&post.Post{},
		&post.Tag{},
		&comment.Comment{},
		&like.Like{},
		&like.CommentLike{},
		&notification.Notification{},
	)
}
