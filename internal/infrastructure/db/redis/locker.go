package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("identity lock not acquired")

// unlockScript deletes the key only if it still holds our token, so a lock
// that expired and was taken by another instance is left alone.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockerConfig tunes Locker. Zero values select the defaults.
type LockerConfig struct {
	TTL           time.Duration
	RetryInterval time.Duration
	MaxRetries    int
}

// Locker serializes money movements per identity across service instances.
// Key format: lock:identity:<identity_id>
type Locker struct {
	client        *redis.Client
	ttl           time.Duration
	retryInterval time.Duration
	maxRetries    int
}

func NewLocker(client *redis.Client, cfg LockerConfig) *Locker {
	l := &Locker{
		client:        client,
		ttl:           cfg.TTL,
		retryInterval: cfg.RetryInterval,
		maxRetries:    cfg.MaxRetries,
	}
	if l.ttl <= 0 {
		l.ttl = 30 * time.Second
	}
	if l.retryInterval <= 0 {
		l.retryInterval = 50 * time.Millisecond
	}
	if l.maxRetries <= 0 {
		l.maxRetries = 40
	}
	return l
}

// Lock polls SETNX until it wins, ctx is done, or the retry budget runs out.
func (l *Locker) Lock(ctx context.Context, identityID string) (func(), error) {
	key := lockKey(identityID)
	token := uuid.NewString()

	for attempt := 0; attempt <= l.maxRetries; attempt++ {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}
	return nil, ErrLockNotAcquired
}

// release runs on its own context; the request context may already be done.
func (l *Locker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	_ = unlockScript.Run(ctx, l.client, []string{key}, token).Err()
}

func lockKey(identityID string) string {
	return "lock:identity:" + identityID
}
