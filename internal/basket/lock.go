package basket

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	pkgredis "github.com/lukefryer1234/Oak-Structures-website-sub001/pkg/redis"
)

const defaultMergeLockTTL = 30 * time.Second

var errMergeLockLost = errors.New("merge lock lost to another owner")

// mergeLock guards one account against overlapping merges using SETNX with
// an owner token and TTL.
type mergeLock struct {
	client redisStore
	key    string
	ttl    time.Duration
	owner  string
}

func newMergeLock(client redisStore, accountID uuid.UUID, ttl time.Duration) *mergeLock {
	if ttl <= 0 {
		ttl = defaultMergeLockTTL
	}
	return &mergeLock{
		client: client,
		key:    client.LockKey("merge", accountID.String()),
		ttl:    ttl,
	}
}

// Acquire tries to own the lock for the configured TTL.
func (l *mergeLock) Acquire(ctx context.Context) (bool, error) {
	owner := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key, owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("setnx: %w", err)
	}
	if ok {
		l.owner = owner
	}
	return ok, nil
}

// Release frees the lock only if the owner value still matches.
func (l *mergeLock) Release(ctx context.Context) error {
	if l.owner == "" {
		return nil
	}
	value, err := l.client.Get(ctx, l.key)
	if err != nil {
		if errors.Is(err, pkgredis.Nil) {
			return nil
		}
		return fmt.Errorf("read lock owner: %w", err)
	}
	if value != l.owner {
		return nil
	}
	if err := l.client.Del(ctx, l.key); err != nil {
		return fmt.Errorf("delete lock: %w", err)
	}
	l.owner = ""
	return nil
}

// Refresh extends the TTL while this owner still holds the lock.
func (l *mergeLock) Refresh(ctx context.Context) (bool, error) {
	if l.owner == "" {
		return false, nil
	}
	ok, err := l.client.ExpireIfValue(ctx, l.key, l.owner, l.ttl)
	if err != nil {
		return false, fmt.Errorf("refresh lock: %w", err)
	}
	return ok, nil
}

// keepAlive refreshes the lock every third of its TTL until the returned
// stop func is called or ownership is lost. stop waits for the refresher to
// exit and must run before Release.
func (l *mergeLock) keepAlive(ctx context.Context, onErr func(error)) (stop func()) {
	interval := l.ttl / 3
	if interval <= 0 {
		interval = l.ttl
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				ok, err := l.Refresh(ctx)
				if err != nil {
					onErr(err)
					continue
				}
				if !ok {
					onErr(errMergeLockLost)
					return
				}
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
