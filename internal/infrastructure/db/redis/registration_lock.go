package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultLockTTL = 30 * time.Second

// releaseScript deletes the lock only while it still holds the caller's token,
// so an expired holder cannot drop a lock taken over by another request.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RegistrationLock is a short-lived per-email lock held while a registration
// is in flight.
// Key format: register:lock:<normalized_email>
type RegistrationLock struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRegistrationLock wraps client. A non-positive ttl falls back to defaultLockTTL.
func NewRegistrationLock(client redis.Cmdable, ttl time.Duration) *RegistrationLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &RegistrationLock{client: client, ttl: ttl}
}

// Acquire reports whether the lock for email was free and is now held. The
// returned token must be passed to Release.
func (l *RegistrationLock) Acquire(ctx context.Context, email string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, lockKey(email), token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("registration lock: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release drops the lock if it still carries token. It expires on its own
// after ttl if never released.
func (l *RegistrationLock) Release(ctx context.Context, email, token string) error {
	if err := releaseScript.Run(ctx, l.client, []string{lockKey(email)}, token).Err(); err != nil {
		return fmt.Errorf("registration unlock: %w", err)
	}
	return nil
}

func lockKey(email string) string {
	return "register:lock:" + email
}
