package viewapp

import (
	"context"
	"time"

	"devhub/internal/core/apperr"
	"devhub/internal/core/post"
	"devhub/internal/ports/uow"
	viewPort "devhub/internal/ports/view"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// ViewService counts a post view at most once per visitor per window.
// The visitor's ledger travels in a client-held token; nothing about visitors is stored server side.
type ViewService struct {
	Store      uow.UnitOfWork
	Codec      viewPort.TokenCodec
	Window     time.Duration
	MaxEntries int
	Logger     *zap.Logger
	now        func() time.Time
}

func NewViewService(store uow.UnitOfWork, codec viewPort.TokenCodec, window time.Duration, maxEntries int, logger *zap.Logger) *ViewService {
	return &ViewService{
		Store:      store,
		Codec:      codec,
		Window:     window,
		MaxEntries: maxEntries,
		Logger:     logger,
		now:        time.Now,
	}
}

// WithClock replaces the clock that drives the window.
func (s *ViewService) WithClock(now func() time.Time) *ViewService {
	s.now = now
	return s
}

// RecordView decodes token, prunes it and increments viewCount when postID is not in it.
// An unreadable token is treated as an empty ledger, never as an error.
func (s *ViewService) RecordView(ctx context.Context, token, rawPostID string) (*viewPort.ViewResult, error) {
	postID, err := uuid.FromString(rawPostID)
	if err != nil {
		return nil, apperr.New(apperr.NotFound, "post not found")
	}
	key := postID.String()
	now := s.now()

	ledger := s.Codec.Decode(token).Prune(now, s.Window)
	counted := !ledger.Contains(key)

	if counted {
		err := s.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
			return r.Posts.IncrementCounter(ctx, postID, post.CounterViews, 1)
		})
		if err != nil {
			return nil, uow.AppError(err, "post")
		}
		ledger = ledger.Append(key, now, s.MaxEntries)
	}

	reissued, err := s.Codec.Encode(ledger)
	if err != nil {
		// the view is already counted; the visitor just keeps the old token
		s.Logger.Warn("view token encode failed", zap.String("postID", key), zap.Error(err))
		reissued = token
	}
	return &viewPort.ViewResult{Counted: counted, Token: reissued}, nil
}
