// Package lock guards report submissions so the same batch cannot be sent
// to the report store twice at once.
package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"posrecon-backend/internal/domain"
	"posrecon-backend/internal/logger"
)

// ReleaseFunc gives the lock back. It is safe to call more than once.
type ReleaseFunc func()

// Locker hands out exclusive, TTL-bounded submission locks. Acquire returns
// domain.ErrSubmissionInFlight when the key is already held.
type Locker interface {
	Acquire(ctx context.Context, key string) (ReleaseFunc, error)
}

// SubmissionKey names the lock for one POS/kind pair, e.g. "POS-1:bank".
func SubmissionKey(posID, kind string) string {
	return fmt.Sprintf("submit:%s:%s", posID, kind)
}

type memoryLocker struct {
	mu   sync.Mutex
	ttl  time.Duration
	held map[string]time.Time
	now  func() time.Time
}

// NewMemoryLocker is the single-process locker.
func NewMemoryLocker(ttl time.Duration) Locker {
	return &memoryLocker{ttl: ttl, held: make(map[string]time.Time), now: time.Now}
}

func (l *memoryLocker) Acquire(_ context.Context, key string) (ReleaseFunc, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, domain.ErrSubmissionInFlight
	}
	exp := now.Add(l.ttl)
	l.held[key] = exp

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			if l.held[key].Equal(exp) {
				delete(l.held, key)
			}
			l.mu.Unlock()
		})
	}, nil
}

type redisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisLocker shares submission locks across server instances.
func NewRedisLocker(rdb *redis.Client, ttl time.Duration) Locker {
	return &redisLocker{client: redislock.New(rdb), ttl: ttl}
}

func (l *redisLocker) Acquire(ctx context.Context, key string) (ReleaseFunc, error) {
	lk, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domain.ErrSubmissionInFlight
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// The caller's context may already be cancelled by the time we release.
			if err := lk.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				logger.Warn("Failed to release submission lock", "key", key, "error", err)
			}
		})
	}, nil
}

// Connect dials Redis and verifies the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	logger.Info("Connected to redis", "addr", addr, "db", db)
	return rdb, nil
}
