package database

import (
	"context"
	"fmt"

	"devhub/internal/core/comment"
	"devhub/internal/core/like"
	"devhub/internal/ports/uow"

	"github.com/gofrs/uuid"
	"gorm.io/gorm"
)

// LikeRepositoryDatabase keeps post likes and comment likes in two relation tables.
type LikeRepositoryDatabase struct {
	db *gorm.DB
}

func NewLikeRepositoryDatabase(db *gorm.DB) *LikeRepositoryDatabase {
	return &LikeRepositoryDatabase{db: db}
}

// relation returns the model of the relation table for kind plus the name of its target column.
func relation(kind like.TargetKind) (interface{}, string, error) {
	switch kind {
	case like.TargetPost:
		return &like.Like{}, "post_id", nil
	case like.TargetComment:
		return &like.CommentLike{}, "comment_id", nil
	}
	return nil, "", fmt.Errorf("unknown like target %q", kind)
}

func (repo *LikeRepositoryDatabase) Exists(ctx context.Context, kind like.TargetKind, actorID, targetID uuid.UUID) (bool, error) {
	model, column, err := relation(kind)
	if err != nil {
		return false, err
	}
	var n int64
	if err := repo.db.WithContext(ctx).Model(model).Where("actor_id = ? AND "+column+" = ?", actorID, targetID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (repo *LikeRepositoryDatabase) Create(ctx context.Context, kind like.TargetKind, actorID, targetID uuid.UUID) error {
	var row interface{}
	switch kind {
	case like.TargetPost:
		row = &like.Like{ActorID: actorID, PostID: targetID}
	case like.TargetComment:
		row = &like.CommentLike{ActorID: actorID, CommentID: targetID}
	default:
		return fmt.Errorf("unknown like target %q", kind)
	}
	return translate(repo.db.WithContext(ctx).Create(row).Error)
}

func (repo *LikeRepositoryDatabase) Delete(ctx context.Context, kind like.TargetKind, actorID, targetID uuid.UUID) error {
	model, column, err := relation(kind)
	if err != nil {
		return err
	}
	res := repo.db.WithContext(ctx).Where("actor_id = ? AND "+column+" = ?", actorID, targetID).Delete(model)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return uow.ErrNotFound
	}
	return nil
}

func (repo *LikeRepositoryDatabase) Count(ctx context.Context, kind like.TargetKind, targetID uuid.UUID) (int64, error) {
	model, column, err := relation(kind)
	if err != nil {
		return 0, err
	}
	var n int64
	err = repo.db.WithContext(ctx).Model(model).Where(column+" = ?", targetID).Count(&n).Error
	return n, err
}

func (repo *LikeRepositoryDatabase) DeleteByTarget(ctx context.Context, kind like.TargetKind, targetID uuid.UUID) error {
	model, column, err := relation(kind)
	if err != nil {
		return err
	}
	return repo.db.WithContext(ctx).Where(column+" = ?", targetID).Delete(model).Error
}

func (repo *LikeRepositoryDatabase) DeleteCommentLikesByPost(ctx context.Context, postID uuid.UUID) error {
	db := repo.db.WithContext(ctx)
	comments := db.Session(&gorm.Session{NewDB: true}).Model(&comment.Comment{}).Select("id").Where("post_id = ?", postID)
	return db.Where("comment_id IN (?)", comments).Delete(&like.CommentLike{}).Error
}
