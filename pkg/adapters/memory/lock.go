package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/sysml/pkg/ports"
)

// Locker implements ports.DistributedLocker within a single process.
// Locks expire after their TTL like their Redis counterparts.
type Locker struct {
	mu    sync.Mutex
	held  map[string]lease
	seq   uint64
	retry time.Duration
}

type lease struct {
	token   uint64
	expires time.Time
}

// NewLocker creates an empty locker.
func NewLocker() *Locker {
	return &Locker{
		held:  make(map[string]lease),
		retry: 10 * time.Millisecond,
	}
}

// Lock blocks until key is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	for {
		if token, ok := l.tryLock(key, ttl); ok {
			return func(context.Context) error {
				l.mu.Lock()
				defer l.mu.Unlock()
				if cur, ok := l.held[key]; ok && cur.token == token {
					delete(l.held, key)
				}
				return nil
			}, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}
}

func (l *Locker) tryLock(key string, ttl time.Duration) (uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if cur, ok := l.held[key]; ok && now.Before(cur.expires) {
		return 0, false
	}
	l.seq++
	l.held[key] = lease{token: l.seq, expires: now.Add(ttl)}
	return l.seq, true
}
