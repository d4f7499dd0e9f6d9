package profile

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/models"
)

const cacheKeyPrefix = "visa:profile:"

func CacheKey(userID string) string {
	return cacheKeyPrefix + userID
}

// CachedStore reads through Redis in front of another Store. Cache failures
// are logged and never fail the call.
type CachedStore struct {
	next   Store
	redis  *redis.Client
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedStore(next Store, rdb *redis.Client, ttl time.Duration, log logger.Logger) *CachedStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &CachedStore{next: next, redis: rdb, ttl: ttl, logger: log}
}

func (s *CachedStore) Load(ctx context.Context, userID string) (*models.UserProfile, error) {
	key := CacheKey(userID)

	val, err := s.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		var p models.UserProfile
		if jsonErr := json.Unmarshal([]byte(val), &p); jsonErr == nil {
			return &p, nil
		}
		s.logger.Warn("discarding unreadable cached profile", map[string]interface{}{"userId": userID})
	case !errors.Is(err, redis.Nil):
		s.logger.Warn("profile cache read failed", map[string]interface{}{"userId": userID, "error": err.Error()})
	}

	p, err := s.next.Load(ctx, userID)
	if err != nil {
		return nil, err
	}

	data, _ := json.Marshal(p)
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		s.logger.Warn("profile cache write failed", map[string]interface{}{"userId": userID, "error": err.Error()})
	}
	return p, nil
}

func (s *CachedStore) Save(ctx context.Context, userID string, p *models.UserProfile) error {
	if err := s.next.Save(ctx, userID, p); err != nil {
		return err
	}
	if err := s.redis.Del(ctx, CacheKey(userID)).Err(); err != nil {
		s.logger.Warn("profile cache invalidation failed", map[string]interface{}{"userId": userID, "error": err.Error()})
	}
	return nil
}
