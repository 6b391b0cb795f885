package database

import (
	"context"

	"devhub/internal/core/notification"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// NotificationRepositoryDatabase implements NotificationRepository with gorm
type NotificationRepositoryDatabase struct {
	db *gorm.DB
}

func NewNotificationRepositoryDatabase(db *gorm.DB) *NotificationRepositoryDatabase {
	return &NotificationRepositoryDatabase{db: db}
}

func (repo *NotificationRepositoryDatabase) Create(ctx context.Context, n *notification.Notification) error {
	return translate(repo.db.WithContext(ctx).Create(n).Error)
}

func (repo *NotificationRepositoryDatabase) ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, offset, limit int) ([]*notification.Notification, int64, error) {
	scope := repo.db.WithContext(ctx).Model(&notification.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		scope = scope.Where("is_read = ?", false)
	}

	var total int64
	if err := scope.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []*notification.Notification
	if err := scope.Session(&gorm.Session{}).
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (repo *NotificationRepositoryDatabase) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}

// MarkRead only touches rows owned by recipientID; foreign ids are ignored.
func (repo *NotificationRepositoryDatabase) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := repo.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ? AND id IN ?", recipientID, false, ids).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (repo *NotificationRepositoryDatabase) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res := repo.db.WithContext(ctx).
		Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		UpdateColumn("is_read", true)
	return res.RowsAffected, res.Error
}

func (repo *NotificationRepositoryDatabase) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	return repo.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&notification.Notification{}).Error
}
