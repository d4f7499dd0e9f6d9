package profile

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"visa-pathway-workers/internal/common/logger"
	"visa-pathway-workers/internal/models"
)

type memoryStore struct {
	profiles map[string]models.UserProfile
	loads    int
	saveErr  error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{profiles: map[string]models.UserProfile{}}
}

func (m *memoryStore) Load(_ context.Context, userID string) (*models.UserProfile, error) {
	m.loads++
	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}

func (m *memoryStore) Save(_ context.Context, userID string, p *models.UserProfile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	p.ID = userID
	m.profiles[userID] = *p
	return nil
}

func TestCachedStore_MissThenHit(t *testing.T) {
	backing := newMemoryStore()
	backing.profiles["u1"] = models.UserProfile{ID: "u1", EducationLevel: models.EducationPhD, EnglishProficiency: 5}

	rdb, mock := redismock.NewClientMock()
	store := NewCachedStore(backing, rdb, 5*time.Minute, logger.NewTestLogger(t))

	data, _ := json.Marshal(backing.profiles["u1"])
	mock.ExpectGet("visa:profile:u1").RedisNil()
	mock.ExpectSet("visa:profile:u1", data, 5*time.Minute).SetVal("OK")
	mock.ExpectGet("visa:profile:u1").SetVal(string(data))

	p, err := store.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.EducationPhD, p.EducationLevel)

	p, err = store.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 5, p.EnglishProficiency)

	assert.Equal(t, 1, backing.loads)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_NotFoundIsNotCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewCachedStore(newMemoryStore(), rdb, time.Minute, nil)

	mock.ExpectGet("visa:profile:ghost").RedisNil()

	_, err := store.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedStore_RedisDownFallsThrough(t *testing.T) {
	backing := newMemoryStore()
	backing.profiles["u2"] = models.UserProfile{ID: "u2", YearsOfExperience: 7}

	rdb, mock := redismock.NewClientMock()
	log, logs := logger.NewObservedLogger(zapcore.DebugLevel)
	store := NewCachedStore(backing, rdb, time.Minute, log)

	data, _ := json.Marshal(backing.profiles["u2"])
	mock.ExpectGet("visa:profile:u2").SetErr(errors.New("i/o timeout"))
	mock.ExpectSet("visa:profile:u2", data, time.Minute).SetErr(errors.New("i/o timeout"))

	p, err := store.Load(context.Background(), "u2")
	require.NoError(t, err)
	assert.Equal(t, 7, p.YearsOfExperience)
	assert.Equal(t, 2, logs.FilterMessageSnippet("profile cache").Len())
}

func TestCachedStore_SaveInvalidates(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	backing := newMemoryStore()
	backing.profiles["u3"] = models.UserProfile{ID: "u3", FieldOfWork: "finance"}
	store := NewCachedStore(backing, rdb, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	_, err := store.Load(ctx, "u3")
	require.NoError(t, err)
	assert.True(t, mr.Exists(CacheKey("u3")))
	mr.FastForward(30 * time.Second)
	assert.True(t, mr.Exists(CacheKey("u3")))

	require.NoError(t, store.Save(ctx, "u3", &models.UserProfile{FieldOfWork: "medicine"}))
	assert.False(t, mr.Exists(CacheKey("u3")))

	p, err := store.Load(ctx, "u3")
	require.NoError(t, err)
	assert.Equal(t, "medicine", p.FieldOfWork)
	assert.Equal(t, 2, backing.loads)
}

func TestCachedStore_SaveFailureKeepsCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	require.NoError(t, mr.Set(CacheKey("u4"), `{"id":"u4"}`))

	backing := newMemoryStore()
	backing.saveErr = errors.New("db down")
	store := NewCachedStore(backing, rdb, time.Minute, nil)

	err := store.Save(context.Background(), "u4", &models.UserProfile{})
	assert.EqualError(t, err, "db down")
	assert.True(t, mr.Exists(CacheKey("u4")))
}
