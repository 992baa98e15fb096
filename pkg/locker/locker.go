package locker

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrLockNotAcquired is returned when another transition already holds the
// lock for the same appointment and the implementation does not wait.
var ErrLockNotAcquired = errors.New("appointment lock not acquired")

// Locker serializes status mutations per appointment id. At most one fn runs
// for a given id at a time; different ids are independent.
type Locker interface {
	WithLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context) error) error
}

type lockEntry struct {
	sem  chan struct{}
	refs int
}

// KeyedLocker is the in-process implementation, one semaphore per live id.
// Entries are dropped as soon as the last waiter releases them.
type KeyedLocker struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*lockEntry
}

func NewKeyedLocker() *KeyedLocker {
	return &KeyedLocker{locks: make(map[uuid.UUID]*lockEntry)}
}

func (l *KeyedLocker) WithLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context) error) error {
	entry := l.acquireEntry(id)

	select {
	case entry.sem <- struct{}{}:
	case <-ctx.Done():
		l.releaseEntry(id)
		return ctx.Err()
	}

	defer func() {
		<-entry.sem
		l.releaseEntry(id)
	}()

	return fn(ctx)
}

func (l *KeyedLocker) acquireEntry(id uuid.UUID) *lockEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[id]
	if !ok {
		entry = &lockEntry{sem: make(chan struct{}, 1)}
		l.locks[id] = entry
	}
	entry.refs++
	return entry
}

func (l *KeyedLocker) releaseEntry(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.locks[id]
	if !ok {
		return
	}
	entry.refs--
	if entry.refs == 0 {
		delete(l.locks, id)
	}
}
