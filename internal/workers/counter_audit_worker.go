package workers

import (
	"context"
	"time"

	"devhub/internal/core/comment"
	"devhub/internal/core/like"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

// AuditReport summarizes one full pass over the posts table.
type AuditReport struct {
	PostsScanned     int
	PostsRepaired    int
	CommentsRepaired int
}

// CounterAuditWorker recomputes the denormalized like/comment/reply counters from
// membership rows and repairs any drift. viewCount has no membership rows and is never touched.
type CounterAuditWorker struct {
	Store     uow.UnitOfWork
	Interval  time.Duration
	BatchSize int
	Logger    *zap.Logger
}

func NewCounterAuditWorker(store uow.UnitOfWork, interval time.Duration, batchSize int, logger *zap.Logger) *CounterAuditWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &CounterAuditWorker{
		Store:     store,
		Interval:  interval,
		BatchSize: batchSize,
		Logger:    logger,
	}
}

// Run audits once per Interval until ctx is cancelled.
func (w *CounterAuditWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 CounterAuditWorker started", zap.Duration("interval", w.Interval))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 Counter audit worker stopped")
			return
		case <-ticker.C:
			report, err := w.RunOnce(ctx)
			if err != nil {
				w.Logger.Error("❌ Counter audit pass failed", zap.Error(err))
				continue
			}
			if report.PostsRepaired > 0 || report.CommentsRepaired > 0 {
				w.Logger.Warn("⚠️ Counter drift repaired",
					zap.Int("postsScanned", report.PostsScanned),
					zap.Int("postsRepaired", report.PostsRepaired),
					zap.Int("commentsRepaired", report.CommentsRepaired))
			}
		}
	}
}

// RunOnce walks every post in id order, BatchSize ids at a time.
func (w *CounterAuditWorker) RunOnce(ctx context.Context) (AuditReport, error) {
	var report AuditReport
	after := uuid.Nil
	for {
		ids, err := w.Store.Repositories().Posts.ListIDsAfter(ctx, after, w.BatchSize)
		if err != nil {
			return report, err
		}
		if len(ids) == 0 {
			return report, nil
		}

		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			postFixed, commentsFixed, err := w.auditPost(ctx, id)
			if err != nil {
				// a post deleted mid-pass is not a failure
				w.Logger.Warn("⚠️ Could not audit post", zap.String("postID", id.String()), zap.Error(err))
				continue
			}
			report.PostsScanned++
			if postFixed {
				report.PostsRepaired++
			}
			report.CommentsRepaired += commentsFixed
		}
		after = ids[len(ids)-1]
	}
}

// auditPost checks one post and its comments under the post's row lock, the same lock toggles and comment writes take.
// Comment likes are toggled under the comment lock alone, so the pass runs at READ COMMITTED: a snapshot taken
// at the first count would miss toggles that commit before auditComment locks their comment.
func (w *CounterAuditWorker) auditPost(ctx context.Context, postID uuid.UUID) (bool, int, error) {
	var (
		postFixed     bool
		commentsFixed int
	)
	err := w.Store.Do(ctx, func(ctx context.Context, r uow.Repositories) error {
		p, err := r.Posts.FindByIDForUpdate(ctx, postID)
		if err != nil {
			return err
		}

		likes, err := r.Likes.Count(ctx, like.TargetPost, postID)
		if err != nil {
			return err
		}
		comments, err := r.Comments.CountByPost(ctx, postID)
		if err != nil {
			return err
		}
		if likes != p.LikeCount || comments != p.CommentCount {
			w.Logger.Warn("⚠️ Post counter drift",
				zap.String("postID", postID.String()),
				zap.Int64("likeCount", p.LikeCount), zap.Int64("likes", likes),
				zap.Int64("commentCount", p.CommentCount), zap.Int64("comments", comments))
			if err := r.Posts.SetCounters(ctx, postID, likes, comments); err != nil {
				return err
			}
			postFixed = true
		}

		commentIDs, err := r.Comments.ListIDsByPost(ctx, postID)
		if err != nil {
			return err
		}
		for _, id := range commentIDs {
			fixed, err := auditComment(ctx, r, w.Logger, id)
			if err != nil {
				return err
			}
			if fixed {
				commentsFixed++
			}
		}
		return nil
	}, uow.ReadCommitted())
	return postFixed, commentsFixed, err
}

// auditComment locks the comment before counting its rows.
func auditComment(ctx context.Context, r uow.Repositories, logger *zap.Logger, id uuid.UUID) (bool, error) {
	c, err := r.Comments.FindByIDForUpdate(ctx, id)
	if err != nil {
		return false, err
	}

	var replies int64
	if !c.IsReply() {
		if replies, err = r.Comments.CountLiveReplies(ctx, id); err != nil {
			return false, err
		}
	}
	likes, err := r.Likes.Count(ctx, like.TargetComment, id)
	if err != nil {
		return false, err
	}
	if replies == c.ReplyCount && likes == c.LikeCount {
		return false, nil
	}

	logger.Warn("⚠️ Comment counter drift",
		zap.String("commentID", id.String()),
		zap.Int64(string(comment.CounterReplies), c.ReplyCount), zap.Int64("replies", replies),
		zap.Int64(string(comment.CounterLikes), c.LikeCount), zap.Int64("likes", likes))
	return true, r.Comments.SetCounters(ctx, id, replies, likes)
}
