package notificationapp

import (
	"context"
	"time"

	"devhub/internal/core/apperr"
	"devhub/internal/core/notification"
	"devhub/internal/core/paging"
	"devhub/internal/core/user"
	notificationPort "devhub/internal/ports/notification"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// NotificationService creates notification rows for engagement events and serves the recipient side.
type NotificationService struct {
	NotificationRepository notificationPort.NotificationRepository
	Cache                  notificationPort.UnreadCache // optional
	Logger                 *zap.Logger
	now                    func() time.Time
}

func NewNotificationService(repo notificationPort.NotificationRepository, cache notificationPort.UnreadCache, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		NotificationRepository: repo,
		Cache:                  cache,
		Logger:                 logger,
		now:                    time.Now,
	}
}

// WithClock replaces the clock used for created-at stamps.
func (s *NotificationService) WithClock(now func() time.Time) *NotificationService {
	s.now = now
	return s
}

// Notify writes one unread row for ev unless the recipient is the actor.
// It never fails the caller: the engagement action it reports on has already committed.
func (s *NotificationService) Notify(ctx context.Context, ev notification.Event) {
	if ev.RecipientID == uuid.Nil || ev.RecipientID == ev.ActorID {
		return
	}

	n := &notification.Notification{
		Type:        ev.Type,
		RecipientID: ev.RecipientID,
		ActorID:     ev.ActorID,
		PostID:      ev.PostID,
		CommentID:   ev.CommentID,
		CreatedAt:   s.now(),
	}
	if err := s.NotificationRepository.Create(ctx, n); err != nil {
		s.Logger.Warn("notification dropped",
			zap.String("type", string(ev.Type)),
			zap.String("recipientID", ev.RecipientID.String()),
			zap.String("postID", ev.PostID.String()),
			zap.Error(err))
		return
	}
	s.invalidate(ctx, ev.RecipientID)
}

func (s *NotificationService) ListNotifications(ctx context.Context, actor user.Actor, page, pageSize int, unreadOnly bool) (*notificationPort.NotificationPage, error) {
	if actor.IsAnonymous() {
		return nil, apperr.ErrUnauthorized
	}
	page, pageSize, offset := paging.Normalize(page, pageSize)

	items, total, err := s.NotificationRepository.ListByRecipient(ctx, actor.ID, unreadOnly, offset, pageSize)
	if err != nil {
		return nil, uow.AppError(err, "notification")
	}

	dtos := make([]*notificationPort.NotificationDTO, 0, len(items))
	for _, n := range items {
		dtos = append(dtos, notificationPort.ToDTO(n))
	}
	return &notificationPort.NotificationPage{Notifications: dtos, Page: page, PageSize: pageSize, Total: total}, nil
}

// UnreadCount serves from the cache when it can. A cache outage falls back to the database.
func (s *NotificationService) UnreadCount(ctx context.Context, actor user.Actor) (int64, error) {
	if actor.IsAnonymous() {
		return 0, apperr.ErrUnauthorized
	}

	if s.Cache != nil {
		count, found, err := s.Cache.Get(ctx, actor.ID)
		switch {
		case err != nil:
			s.Logger.Warn("unread cache read failed", zap.String("recipientID", actor.ID.String()), zap.Error(err))
		case found:
			return count, nil
		}
	}

	count, err := s.NotificationRepository.CountUnread(ctx, actor.ID)
	if err != nil {
		return 0, uow.AppError(err, "notification")
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, actor.ID, count); err != nil {
			s.Logger.Warn("unread cache write failed", zap.String("recipientID", actor.ID.String()), zap.Error(err))
		}
	}
	return count, nil
}

// MarkRead flags the given notifications of actor as read and returns how many changed.
func (s *NotificationService) MarkRead(ctx context.Context, actor user.Actor, ids []string) (int64, error) {
	if actor.IsAnonymous() {
		return 0, apperr.ErrUnauthorized
	}

	parsed := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.FromString(raw)
		if err != nil {
			return 0, apperr.Wrap(apperr.BadRequest, "invalid notification id", err)
		}
		parsed = append(parsed, id)
	}

	changed, err := s.NotificationRepository.MarkRead(ctx, actor.ID, parsed)
	if err != nil {
		return 0, uow.AppError(err, "notification")
	}
	if changed > 0 {
		s.invalidate(ctx, actor.ID)
	}
	return changed, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, actor user.Actor) (int64, error) {
	if actor.IsAnonymous() {
		return 0, apperr.ErrUnauthorized
	}

	changed, err := s.NotificationRepository.MarkAllRead(ctx, actor.ID)
	if err != nil {
		return 0, uow.AppError(err, "notification")
	}
	if changed > 0 {
		s.invalidate(ctx, actor.ID)
	}
	return changed, nil
}

func (s *NotificationService) invalidate(ctx context.Context, recipientID uuid.UUID) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Invalidate(ctx, recipientID); err != nil {
		s.Logger.Warn("unread cache invalidate failed", zap.String("recipientID", recipientID.String()), zap.Error(err))
	}
}
