package locker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyedLockerSerializesSameID(t *testing.T) {
	l := NewKeyedLocker()
	id := uuid.New()

	var mu sync.Mutex
	inFlight := 0
	maxInFlight := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := l.WithLock(context.Background(), id, func(ctx context.Context) error {
				mu.Lock()
				inFlight++
				if inFlight > maxInFlight {
					maxInFlight = inFlight
				}
				mu.Unlock()

				time.Sleep(time.Millisecond)

				mu.Lock()
				inFlight--
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxInFlight, "only one holder at a time for the same id")
}

func TestKeyedLockerDifferentIDsIndependent(t *testing.T) {
	l := NewKeyedLocker()

	first := make(chan struct{})
	release := make(chan struct{})

	go func() {
		_ = l.WithLock(context.Background(), uuid.New(), func(ctx context.Context) error {
			close(first)
			<-release
			return nil
		})
	}()

	<-first

	done := make(chan error, 1)
	go func() {
		done <- l.WithLock(context.Background(), uuid.New(), func(ctx context.Context) error {
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("lock on a different id should not block")
	}
	close(release)
}

func TestKeyedLockerContextCancelled(t *testing.T) {
	l := NewKeyedLocker()
	id := uuid.New()

	held := make(chan struct{})
	release := make(chan struct{})
	go func() {
		_ = l.WithLock(context.Background(), id, func(ctx context.Context) error {
			close(held)
			<-release
			return nil
		})
	}()
	<-held

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := l.WithLock(ctx, id, func(ctx context.Context) error {
		t.Fatal("fn must not run after cancellation")
		return nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)

	// entry map must not leak once everything is released
	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.locks) == 0
	}, time.Second, 10*time.Millisecond)
}
