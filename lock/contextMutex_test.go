package lock

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestCtxMutex(t *testing.T) {
	mu := NewCtxMutex()
	if mu.Locked() {
		t.Fatalf("New mutex is locked")
	}
	if err := mu.Lock(context.Background()); err != nil {
		t.Fatalf("Failed to lock: %v", err)
	}
	if !mu.Locked() {
		t.Errorf("Expected the mutex to be locked")
	}
	if mu.TryLock() {
		t.Errorf("Expected TryLock to fail on a locked mutex")
	}
	mu.Unlock()
	if !mu.TryLock() {
		t.Errorf("Expected TryLock to succeed on an unlocked mutex")
	}
	mu.Unlock()
}

func TestCtxMutexTimeout(t *testing.T) {
	mu := NewCtxMutex()
	mu.TryLock()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := mu.Lock(ctx)
	if err == nil {
		t.Fatalf("Expected the lock to time out")
	}
	if !errors.Is(err, context.DeadlineExceeded) && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("Expected a deadline error, got %v", err)
	}
	if !mu.Locked() {
		t.Errorf("Expected the original holder to keep the lock")
	}
}

func TestCtxMutexPrefersFreeLock(t *testing.T) {
	mu := NewCtxMutex()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := mu.Lock(ctx); err != nil {
		t.Errorf("Expected a free mutex to lock with a cancelled context, got %v", err)
	}
}

func TestCtxMutexHandoff(t *testing.T) {
	mu := NewCtxMutex()
	mu.TryLock()
	acquired := make(chan struct{})
	go func() {
		if err := mu.Lock(context.Background()); err == nil {
			close(acquired)
		}
	}()
	select {
	case <-acquired:
		t.Fatalf("Acquired a held lock")
	case <-time.After(10 * time.Millisecond):
	}
	mu.Unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatalf("Waiter did not acquire the released lock")
	}
}

func TestCtxMutexDo(t *testing.T) {
	mu := NewCtxMutex()
	ran := false
	if err := mu.Do(context.Background(), func() {
		if !mu.Locked() {
			t.Errorf("Expected the mutex to be held inside Do")
		}
		ran = true
	}); err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if !ran || mu.Locked() {
		t.Errorf("Expected f to run and the mutex to be released")
	}

	func() {
		defer func() {
			if recover() == nil {
				t.Errorf("Expected the panic to propagate")
			}
		}()
		mu.Do(context.Background(), func() { panic("boom") })
	}()
	if mu.Locked() {
		t.Errorf("Expected the mutex to be released after a panic")
	}
}

func TestUnlockOfUnlocked(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("Expected Unlock of an unlocked mutex to panic")
		}
	}()
	NewCtxMutex().Unlock()
}
