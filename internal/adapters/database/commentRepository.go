package database

import (
	"context"

	"devhub/internal/core/comment"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// CommentRepositoryDatabase implements CommentRepository with gorm
type CommentRepositoryDatabase struct {
	db *gorm.DB
}

func NewCommentRepositoryDatabase(db *gorm.DB) *CommentRepositoryDatabase {
	return &CommentRepositoryDatabase{db: db}
}

func (repo *CommentRepositoryDatabase) Create(ctx context.Context, c *comment.Comment) (*comment.Comment, error) {
	if err := repo.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, translate(err)
	}
	return c, nil
}

func (repo *CommentRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var c comment.Comment
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*comment.Comment, error) {
	var c comment.Comment
	if err := forUpdate(repo.db.WithContext(ctx)).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (repo *CommentRepositoryDatabase) ListTopLevel(ctx context.Context, postID uuid.UUID, offset, limit int) ([]*comment.Comment, int64, error) {
	return repo.page(repo.db.WithContext(ctx).Where("post_id = ? AND parent_id IS NULL", postID), offset, limit)
}

func (repo *CommentRepositoryDatabase) ListReplies(ctx context.Context, parentID uuid.UUID, offset, limit int) ([]*comment.Comment, int64, error) {
	return repo.page(repo.db.WithContext(ctx).Where("parent_id = ?", parentID), offset, limit)
}

// page returns one oldest-first page of the scoped comments plus the scope's total.
func (repo *CommentRepositoryDatabase) page(scope *gorm.DB, offset, limit int) ([]*comment.Comment, int64, error) {
	var total int64
	if err := scope.Session(&gorm.Session{}).Model(&comment.Comment{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []*comment.Comment
	if err := scope.Session(&gorm.Session{}).
		Order("created_at ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (repo *CommentRepositoryDatabase) CountLiveReplies(ctx context.Context, parentID uuid.UUID) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).
		Model(&comment.Comment{}).
		Where("parent_id = ? AND state = ?", parentID, comment.StateLive).
		Count(&n).Error
	return n, err
}

func (repo *CommentRepositoryDatabase) CountByPost(ctx context.Context, postID uuid.UUID) (int64, error) {
	var n int64
	err := repo.db.WithContext(ctx).Model(&comment.Comment{}).Where("post_id = ?", postID).Count(&n).Error
	return n, err
}

func (repo *CommentRepositoryDatabase) ListIDsByPost(ctx context.Context, postID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := repo.db.WithContext(ctx).
		Model(&comment.Comment{}).
		Where("post_id = ?", postID).
		Order("id").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (repo *CommentRepositoryDatabase) UpdateBody(ctx context.Context, c *comment.Comment) error {
	res := repo.db.WithContext(ctx).
		Model(&comment.Comment{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{"content": c.Content, "state": c.State})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return uow.ErrNotFound
	}
	return nil
}

func (repo *CommentRepositoryDatabase) IncrementCounter(ctx context.Context, id uuid.UUID, counter comment.Counter, delta int64) error {
	column := string(counter)
	res := repo.db.WithContext(ctx).
		Model(&comment.Comment{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return uow.ErrNotFound
	}
	return nil
}

func (repo *CommentRepositoryDatabase) SetCounters(ctx context.Context, id uuid.UUID, replyCount, likeCount int64) error {
	return repo.db.WithContext(ctx).
		Model(&comment.Comment{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			string(comment.CounterReplies): replyCount,
			string(comment.CounterLikes):   likeCount,
		}).Error
}

func (repo *CommentRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).Where("id = ?", id).Delete(&comment.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return uow.ErrNotFound
	}
	return nil
}

// DeleteByPost removes replies before top-level comments so a parent_id foreign key never blocks.
func (repo *CommentRepositoryDatabase) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("post_id = ? AND parent_id IS NOT NULL", postID).Delete(&comment.Comment{}).Error; err != nil {
		return err
	}
	return db.Where("post_id = ?", postID).Delete(&comment.Comment{}).Error
}
