package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"devhub/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/gofrs/uuid"
	"go.uber.org/zap"
)

const unreadKeyPrefix = "notifications:unread:"

// UnreadCacheRedis keeps one counter key per recipient with a TTL.
type UnreadCacheRedis struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewUnreadCacheRedis(client *redis.Client, ttl time.Duration) *UnreadCacheRedis {
	return &UnreadCacheRedis{
		Client: client,
		TTL:    ttl,
	}
}

func unreadKey(recipientID uuid.UUID) string {
	return unreadKeyPrefix + recipientID.String()
}

func (r *UnreadCacheRedis) Get(ctx context.Context, recipientID uuid.UUID) (int64, bool, error) {
	raw, err := r.Client.Get(ctx, unreadKey(recipientID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	count, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		// a garbled value is a miss; the caller recounts and overwrites it
		config.Logger.Warn("unread cache: bad value", zap.String("key", unreadKey(recipientID)), zap.String("value", raw))
		return 0, false, nil
	}
	return count, true, nil
}

func (r *UnreadCacheRedis) Set(ctx context.Context, recipientID uuid.UUID, count int64) error {
	return r.Client.Set(ctx, unreadKey(recipientID), count, r.TTL).Err()
}

func (r *UnreadCacheRedis) Invalidate(ctx context.Context, recipientID uuid.UUID) error {
	config.Logger.Debug("unread cache: invalidate", zap.String("recipientID", recipientID.String()))
	return r.Client.Del(ctx, unreadKey(recipientID)).Err()
}
