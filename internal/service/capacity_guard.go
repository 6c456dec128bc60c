package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prohmpiriya/handiq-workshops/pkg/config"
	"github.com/prohmpiriya/handiq-workshops/pkg/logger"
	"go.uber.org/zap"
)

// CapacityGuard serialises the availability check and the insert of a booking per session
type CapacityGuard interface {
	// Lock blocks until the session is held and returns the release function
	Lock(ctx context.Context, sessionID string) (func(), error)
}

// NewCapacityGuard picks the guard for a capacity mode. Locked mode uses Redis when a
// locker is given and an in-process keyed mutex otherwise.
func NewCapacityGuard(mode string, locker Locker, ttl time.Duration) CapacityGuard {
	if mode != config.CapacityModeLocked {
		return UnguardedCapacity{}
	}
	if locker != nil {
		return NewRedisCapacityGuard(locker, ttl)
	}
	return NewKeyedMutexGuard()
}

// UnguardedCapacity performs no locking; concurrent bookings may overbook a session
type UnguardedCapacity struct{}

func (UnguardedCapacity) Lock(ctx context.Context, sessionID string) (func(), error) {
	return func() {}, nil
}

// KeyedMutexGuard holds one mutex per session inside this process
type KeyedMutexGuard struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	ch   chan struct{}
	refs int
}

// NewKeyedMutexGuard creates an in-process guard
func NewKeyedMutexGuard() *KeyedMutexGuard {
	return &KeyedMutexGuard{locks: make(map[string]*keyedLock)}
}

func (g *KeyedMutexGuard) Lock(ctx context.Context, sessionID string) (func(), error) {
	g.mu.Lock()
	l, ok := g.locks[sessionID]
	if !ok {
		l = &keyedLock{ch: make(chan struct{}, 1)}
		g.locks[sessionID] = l
	}
	l.refs++
	g.mu.Unlock()

	select {
	case l.ch <- struct{}{}:
	case <-ctx.Done():
		g.drop(sessionID, l)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-l.ch
			g.drop(sessionID, l)
		})
	}, nil
}

func (g *KeyedMutexGuard) drop(sessionID string, l *keyedLock) {
	g.mu.Lock()
	defer g.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(g.locks, sessionID)
	}
}

// Locker is the distributed lock primitive of pkg/redis
type Locker interface {
	AcquireLock(ctx context.Context, key, token string, ttl, wait time.Duration) error
	ReleaseLock(ctx context.Context, key, token string) error
}

// RedisCapacityGuard holds a SET NX PX lock per session so that several instances share it
type RedisCapacityGuard struct {
	locker Locker
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisCapacityGuard creates a Redis backed guard
func NewRedisCapacityGuard(locker Locker, ttl time.Duration) *RedisCapacityGuard {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisCapacityGuard{
		locker: locker,
		ttl:    ttl,
		wait:   ttl,
	}
}

func (g *RedisCapacityGuard) Lock(ctx context.Context, sessionID string) (func(), error) {
	key := fmt.Sprintf("handiq:capacity:%s", sessionID)
	token := uuid.New().String()

	if err := g.locker.AcquireLock(ctx, key, token, g.ttl, g.wait); err != nil {
		return nil, fmt.Errorf("failed to lock session %s: %w", sessionID, err)
	}

	return func() {
		// the request context may already be cancelled
		if err := g.locker.ReleaseLock(context.Background(), key, token); err != nil {
			logger.Get().Warn("failed to release capacity lock",
				zap.String("session_id", sessionID),
				zap.Error(err),
			)
		}
	}, nil
}
