package viewapp_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"devhub/internal/adapters/database/databasetest"
	"devhub/internal/adapters/viewtoken"
	"devhub/internal/config"
	"devhub/internal/core/apperr"
	viewapp "devhub/internal/core/view/service"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newService(t *testing.T, maxEntries int) (*viewapp.ViewService, uow.Repositories, *clock) {
	t.Helper()
	store, _ := databasetest.Store(t)
	clk := &clock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	svc := viewapp.NewViewService(store, viewtoken.NewCodecJWT([]byte("views")), 24*time.Hour, maxEntries, zap.NewNop()).
		WithClock(clk.Now)
	return svc, store.Repositories(), clk
}

func viewCount(t *testing.T, r uow.Repositories, id uuid.UUID) int64 {
	t.Helper()
	p, err := r.Posts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p.ViewCount
}

func TestRecordView_DedupWithinWindow(t *testing.T) {
	svc, r, clk := newService(t, config.DefaultViewMaxEntries)
	ctx := context.Background()
	p := databasetest.SeedPost(t, r, databasetest.SeedUser(t, r, "author"))

	first, err := svc.RecordView(ctx, "", p.ID.String())
	require.NoError(t, err)
	assert.True(t, first.Counted)

	clk.t = clk.t.Add(23 * time.Hour)
	second, err := svc.RecordView(ctx, first.Token, p.ID.String())
	require.NoError(t, err)
	assert.False(t, second.Counted)
	assert.Equal(t, int64(1), viewCount(t, r, p.ID))

	clk.t = clk.t.Add(2 * time.Hour)
	third, err := svc.RecordView(ctx, second.Token, p.ID.String())
	require.NoError(t, err)
	assert.True(t, third.Counted)
	assert.Equal(t, int64(2), viewCount(t, r, p.ID))
}

func TestRecordView_CorruptTokenCountsAsFirstView(t *testing.T) {
	svc, r, _ := newService(t, config.DefaultViewMaxEntries)
	p := databasetest.SeedPost(t, r, databasetest.SeedUser(t, r, "author"))

	res, err := svc.RecordView(context.Background(), "definitely-not-a-token", p.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Counted)
	assert.NotEqual(t, "definitely-not-a-token", res.Token)
	assert.Equal(t, int64(1), viewCount(t, r, p.ID))
}

func TestRecordView_IndependentPosts(t *testing.T) {
	svc, r, _ := newService(t, config.DefaultViewMaxEntries)
	ctx := context.Background()
	author := databasetest.SeedUser(t, r, "author")
	a := databasetest.SeedPost(t, r, author)
	b := databasetest.SeedPost(t, r, author)

	res, err := svc.RecordView(ctx, "", a.ID.String())
	require.NoError(t, err)
	res, err = svc.RecordView(ctx, res.Token, b.ID.String())
	require.NoError(t, err)
	assert.True(t, res.Counted)
	res, err = svc.RecordView(ctx, res.Token, a.ID.String())
	require.NoError(t, err)
	assert.False(t, res.Counted)

	assert.Equal(t, int64(1), viewCount(t, r, a.ID))
	assert.Equal(t, int64(1), viewCount(t, r, b.ID))
}

func TestRecordView_EntryCapDropsOldest(t *testing.T) {
	svc, r, clk := newService(t, 2)
	ctx := context.Background()
	author := databasetest.SeedUser(t, r, "author")
	posts := []uuid.UUID{
		databasetest.SeedPost(t, r, author).ID,
		databasetest.SeedPost(t, r, author).ID,
		databasetest.SeedPost(t, r, author).ID,
	}

	token := ""
	for _, id := range posts {
		clk.t = clk.t.Add(time.Minute)
		res, err := svc.RecordView(ctx, token, id.String())
		require.NoError(t, err)
		token = res.Token
	}

	// the first post fell off the capped ledger, so it counts again
	res, err := svc.RecordView(ctx, token, posts[0].String())
	require.NoError(t, err)
	assert.True(t, res.Counted)
	assert.Equal(t, int64(2), viewCount(t, r, posts[0]))
}

func TestRecordView_UnknownPost(t *testing.T) {
	svc, _, _ := newService(t, config.DefaultViewMaxEntries)

	_, err := svc.RecordView(context.Background(), "", uuid.Must(uuid.NewV4()).String())
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	_, err = svc.RecordView(context.Background(), "", "7")
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}
