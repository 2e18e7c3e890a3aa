package applicantinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/Abraxas-365/intake/recruitment/applicant"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

const lockRetryInterval = 25 * time.Millisecond

// RedisLocker implements applicant.Locker with SET NX PX
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	wait   time.Duration
}

var _ applicant.Locker = (*RedisLocker)(nil)

// NewRedisLocker creates a locker. ttl bounds how long a crashed holder can
// block others; wait bounds how long Acquire retries.
func NewRedisLocker(client *redis.Client, prefix string, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		wait:   wait,
	}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (applicant.Unlock, error) {
	lockKey := l.prefix + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, lockKey, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock %s: %w", lockKey, err)
		}
		if ok {
			return func(ctx context.Context) error {
				if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil {
					return fmt.Errorf("release lock %s: %w", lockKey, err)
				}
				return nil
			}, nil
		}

		if time.Now().After(deadline) {
			return nil, applicant.ErrAllocationBusy().WithDetail("lock", key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
