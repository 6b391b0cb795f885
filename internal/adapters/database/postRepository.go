package database

import (
	"context"

	"devhub/internal/core/post"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// PostRepositoryDatabase implements PostRepository with gorm
type PostRepositoryDatabase struct {
	db *gorm.DB
}

func NewPostRepositoryDatabase(db *gorm.DB) *PostRepositoryDatabase {
	return &PostRepositoryDatabase{db: db}
}

func (repo *PostRepositoryDatabase) Create(ctx context.Context, p *post.Post) (*post.Post, error) {
	if err := repo.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, translate(err)
	}
	return p, nil
}

func (repo *PostRepositoryDatabase) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := repo.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var p post.Post
	if err := forUpdate(repo.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (repo *PostRepositoryDatabase) List(ctx context.Context, offset, limit int) ([]*post.Post, int64, error) {
	var total int64
	if err := repo.db.WithContext(ctx).Model(&post.Post{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var posts []*post.Post
	if err := repo.db.WithContext(ctx).
		Preload("Tags").
		Order("created_at DESC").
		Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (repo *PostRepositoryDatabase) UpdateContent(ctx context.Context, id uuid.UUID, title, content string) error {
	return repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"title": title, "content": content}).Error
}

// IncrementCounter is a single UPDATE ... SET col = col + ?, so concurrent writers never lose an update.
func (repo *PostRepositoryDatabase) IncrementCounter(ctx context.Context, id uuid.UUID, counter post.Counter, delta int64) error {
	column := string(counter)
	res := repo.db.WithContext(ctx).
		Model(&post.Post{}).
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

func (repo *PostRepositoryDatabase) SetCounters(ctx context.Context, id uuid.UUID, likeCount, commentCount int64) error {
	return repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id = ?", id).
		UpdateColumns(map[string]interface{}{
			string(post.CounterLikes):    likeCount,
			string(post.CounterComments): commentCount,
		}).Error
}

// ListIDsAfter pages through posts by id, for batch jobs.
func (repo *PostRepositoryDatabase) ListIDsAfter(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := repo.db.WithContext(ctx).
		Model(&post.Post{}).
		Where("id > ?", after).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// Delete removes the post and its tags.
func (repo *PostRepositoryDatabase) Delete(ctx context.Context, id uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	if err := db.Where("post_id = ?", id).Delete(&post.Tag{}).Error; err != nil {
		return err
	}
	res := db.Where("id = ?", id).Delete(&post.Post{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return uow.ErrNotFound
	}
	return nil
}
