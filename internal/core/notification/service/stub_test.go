package notificationapp_test

import (
	"context"

	"devhub/internal/core/notification"

	"github.com/gofrs/uuid"
)

// notificationRepoStub satisfies NotificationRepository with empty results.
type notificationRepoStub struct{}

func (notificationRepoStub) Create(context.Context, *notification.Notification) error { return nil }

func (notificationRepoStub) ListByRecipient(context.Context, uuid.UUID, bool, int, int) ([]*notification.Notification, int64, error) {
	return nil, 0, nil
}

func (notificationRepoStub) CountUnread(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (notificationRepoStub) MarkRead(context.Context, uuid.UUID, []uuid.UUID) (int64, error) {
	return 0, nil
}

func (notificationRepoStub) MarkAllRead(context.Context, uuid.UUID) (int64, error) { return 0, nil }

func (notificationRepoStub) DeleteByPost(context.Context, uuid.UUID) error { return nil }
