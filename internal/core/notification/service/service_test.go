package notificationapp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"devhub/internal/adapters/database/databasetest"
	redisadapter "devhub/internal/adapters/redis"
	"devhub/internal/core/apperr"
	"devhub/internal/core/notification"
	notificationapp "devhub/internal/core/notification/service"
	"devhub/internal/core/user"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fixture struct {
	svc   *notificationapp.NotificationService
	cache *redisadapter.UnreadCacheRedis
	mr    *miniredis.Miniredis
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store, _ := databasetest.Store(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cache := redisadapter.NewUnreadCacheRedis(client, time.Minute)
	svc := notificationapp.NewNotificationService(store.Repositories().Notifications, cache, zap.NewNop())
	return fixture{svc: svc, cache: cache, mr: mr}
}

func newID() uuid.UUID { return uuid.Must(uuid.NewV4()) }

func TestNotify_SkipsSelf(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	me := newID()

	f.svc.Notify(ctx, notification.Event{Type: notification.TypePostLiked, RecipientID: me, ActorID: me, PostID: newID()})

	count, err := f.svc.UnreadCount(ctx, user.Actor{ID: me})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNotify_CreatesUnreadRowAndInvalidatesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipient := user.Actor{ID: newID()}

	count, err := f.svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, count)
	_, found, err := f.cache.Get(ctx, recipient.ID)
	require.NoError(t, err)
	assert.True(t, found, "count should be cached after a read")

	f.svc.Notify(ctx, notification.Event{Type: notification.TypeCommentAdded, RecipientID: recipient.ID, ActorID: newID(), PostID: newID()})

	_, found, err = f.cache.Get(ctx, recipient.ID)
	require.NoError(t, err)
	assert.False(t, found, "create must drop the cached count")

	count, err = f.svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	page, err := f.svc.ListNotifications(ctx, recipient, 1, 10, true)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	assert.Equal(t, string(notification.TypeCommentAdded), page.Notifications[0].Type)
	assert.False(t, page.Notifications[0].Read)
}

func TestMarkReadAndMarkAllRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipient := user.Actor{ID: newID()}
	for i := 0; i < 3; i++ {
		f.svc.Notify(ctx, notification.Event{Type: notification.TypePostLiked, RecipientID: recipient.ID, ActorID: newID(), PostID: newID()})
	}

	page, err := f.svc.ListNotifications(ctx, recipient, 1, 10, false)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 3)

	changed, err := f.svc.MarkRead(ctx, recipient, []string{page.Notifications[0].ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	count, err := f.svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	changed, err = f.svc.MarkAllRead(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(2), changed)

	count, err = f.svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = f.svc.MarkRead(ctx, recipient, []string{"nope"})
	assert.True(t, errors.Is(err, apperr.ErrBadRequest))
}

func TestUnreadCount_FallsBackWhenCacheIsDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	recipient := user.Actor{ID: newID()}
	f.svc.Notify(ctx, notification.Event{Type: notification.TypePostLiked, RecipientID: recipient.ID, ActorID: newID(), PostID: newID()})

	f.mr.Close()

	count, err := f.svc.UnreadCount(ctx, recipient)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRecipientEndpointsRequireActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.ListNotifications(ctx, user.Anonymous, 1, 10, false)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	_, err = f.svc.UnreadCount(ctx, user.Anonymous)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	_, err = f.svc.MarkAllRead(ctx, user.Anonymous)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

type failingRepo struct{ notificationRepoStub }

func (failingRepo) Create(context.Context, *notification.Notification) error {
	return errors.New("insert failed")
}

func TestNotify_FailureIsLoggedAndSwallowed(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	svc := notificationapp.NewNotificationService(failingRepo{}, nil, zap.New(core))

	assert.NotPanics(t, func() {
		svc.Notify(context.Background(), notification.Event{Type: notification.TypePostLiked, RecipientID: newID(), ActorID: newID(), PostID: newID()})
	})
	assert.Equal(t, 1, logs.FilterMessage("notification dropped").Len())
}
