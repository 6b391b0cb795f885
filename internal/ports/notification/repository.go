package notification

import (
	"context"
	"time"

	"devhub/internal/core/notification"

	"github.com/gofrs/uuid"
)

// NotificationRepository is the port for notification rows.
type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool, offset, limit int) ([]*notification.Notification, int64, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, ids []uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}

// UnreadCache caches the unread counter per recipient.
type UnreadCache interface {
	Get(ctx context.Context, recipientID uuid.UUID) (count int64, found bool, err error)
	Set(ctx context.Context, recipientID uuid.UUID, count int64) error
	Invalidate(ctx context.Context, recipientID uuid.UUID) error
}

// Notifier is the fan-out side used by the engagement services. Failures are absorbed inside.
type Notifier interface {
	Notify(ctx context.Context, ev notification.Event)
}

// DTOs for the use cases
type NotificationDTO struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actorId"`
	PostID    string    `json:"postId"`
	CommentID *string   `json:"commentId,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

type NotificationPage struct {
	Notifications []*NotificationDTO `json:"notifications"`
	Page          int                `json:"page"`
	PageSize      int                `json:"pageSize"`
	Total         int64              `json:"total"`
}

func ToDTO(n *notification.Notification) *NotificationDTO {
	dto := &NotificationDTO{
		ID:        n.ID.String(),
		Type:      string(n.Type),
		ActorID:   n.ActorID.String(),
		PostID:    n.PostID.String(),
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
	if n.CommentID != nil {
		id := n.CommentID.String()
		dto.CommentID = &id
	}
	return dto
}
