package lease

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrHeld is returned by Acquire when another holder owns the key.
var ErrHeld = errors.New("lease: already held")

// ErrLost is returned by Refresh/Release when the key no longer carries
// this holder's token.
var ErrLost = errors.New("lease: not held anymore")

// Lease is a redis-backed TTL mutex. The value stored under the key is a
// random token so a holder never refreshes or releases a lease that expired
// and was re-acquired by someone else.
type Lease struct {
	client *redis.Client
	key    string
	token  string
	ttl    time.Duration
}

// Acquire takes the lease or returns ErrHeld.
func Acquire(ctx context.Context, client *redis.Client, key string, ttl time.Duration) (*Lease, error) {
	token := uuid.NewString()
	ok, err := client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrHeld
	}
	return &Lease{client: client, key: key, token: token, ttl: ttl}, nil
}

// Refresh extends the lease by its original TTL.
func (l *Lease) Refresh(ctx context.Context) error {
	if err := l.check(ctx); err != nil {
		return err
	}
	return l.client.Expire(ctx, l.key, l.ttl).Err()
}

// Release frees the lease. Safe to call after expiry.
func (l *Lease) Release(ctx context.Context) error {
	err := l.check(ctx)
	if errors.Is(err, ErrLost) {
		return nil
	}
	if err != nil {
		return err
	}
	return l.client.Del(ctx, l.key).Err()
}

func (l *Lease) check(ctx context.Context) error {
	val, err := l.client.Get(ctx, l.key).Result()
	if errors.Is(err, redis.Nil) {
		return ErrLost
	}
	if err != nil {
		return err
	}
	if val != l.token {
		return ErrLost
	}
	return nil
}
