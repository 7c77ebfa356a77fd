package gensync

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Invicton-Labs/go-hashtable/hashtable"
	"github.com/Invicton-Labs/go-hashtable/keys"
	"github.com/Invicton-Labs/go-stackerr"
	"golang.org/x/sync/errgroup"
)

func TestConcurrentInserts(t *testing.T) {
	var released int64
	st, err := NewTable(hashtable.NewInput[string, int]{
		Policy:          keys.String(),
		ValueDestructor: func(int) { atomic.AddInt64(&released, 1) },
	})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	ctx := context.Background()
	const routines = 8
	const perRoutine = 250
	eg, egCtx := errgroup.WithContext(ctx)
	for r := 0; r < routines; r++ {
		r := r
		eg.Go(func() error {
			for i := 0; i < perRoutine; i++ {
				// Every routine writes the shared keys, and its own keys
				if err := st.Insert(egCtx, fmt.Sprintf("shared-%d", i), r); err != nil {
					return err
				}
				if err := st.Insert(egCtx, fmt.Sprintf("own-%d-%d", r, i), i); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatalf("Concurrent inserts failed: %v", err)
	}

	size, err := st.Len(ctx)
	if err != nil {
		t.Fatalf("Len failed: %v", err)
	}
	if want := perRoutine + routines*perRoutine; size != want {
		t.Errorf("Expected %d entries, got %d", want, size)
	}
	if want := int64((routines - 1) * perRoutine); atomic.LoadInt64(&released) != want {
		t.Errorf("Expected %d replaced values to be released, got %d", want, released)
	}

	stats, err := st.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.LoadFactor > hashtable.LoadFactorThreshold {
		t.Errorf("Load factor %f above threshold", stats.LoadFactor)
	}

	if err := st.Destroy(ctx); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if want := int64((routines-1)*perRoutine + perRoutine + routines*perRoutine); atomic.LoadInt64(&released) != want {
		t.Errorf("Expected %d values released in total, got %d", want, released)
	}
}

func TestLockTimeout(t *testing.T) {
	st, err := NewTable(hashtable.NewInput[int, int]{
		Policy: keys.Int(),
	})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	holding := make(chan struct{})
	release := make(chan struct{})
	done := make(chan stackerr.Error)
	go func() {
		done <- st.Update(context.Background(), func(inner hashtable.Table[int, int]) stackerr.Error {
			close(holding)
			<-release
			return inner.Insert(1, 1)
		})
	}()
	<-holding

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := st.Insert(ctx, 2, 2); err == nil || !strings.Contains(err.Error(), "deadline exceeded") {
		t.Errorf("Expected a deadline error while the lock is held, got %v", err)
	}
	if _, _, err := st.Get(ctx, 1); err == nil {
		t.Errorf("Expected Get to fail with an expired context")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	value, found, err := st.Get(context.Background(), 1)
	if err != nil || !found || value != 1 {
		t.Errorf("Get(1) = %d, %t, %v", value, found, err)
	}
	if found, _ := st.Contains(context.Background(), 2); found {
		t.Errorf("Expected the timed out insert not to be applied")
	}
}

func TestWrappedOperations(t *testing.T) {
	ctx := context.Background()
	inner, err := hashtable.New(hashtable.NewInput[string, string]{
		Policy: keys.FastString(),
	})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	st := WrapTable(inner)

	if err := st.Insert(ctx, "a", "1"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	superseded, replaced, err := st.Swap(ctx, "a", "2")
	if err != nil || !replaced || superseded.Value != "1" {
		t.Errorf("Swap = %v, %t, %v", superseded, replaced, err)
	}
	removed, found, err := st.Take(ctx, "a")
	if err != nil || !found || removed.Value != "2" {
		t.Errorf("Take = %v, %t, %v", removed, found, err)
	}
	if err := st.Delete(ctx, "a"); !hashtable.IsKeyNotFound(err) {
		t.Errorf("Expected key not found, got %v", err)
	}

	for _, k := range []string{"x", "y", "z"} {
		st.Insert(ctx, k, strings.ToUpper(k))
	}
	visited := 0
	traversal, err := st.Range(ctx, func(key string, value string) hashtable.Signal {
		visited++
		return hashtable.Continue
	})
	if err != nil || traversal != hashtable.Completed || visited != 3 {
		t.Errorf("Range = %v, %v after %d visits", traversal, err, visited)
	}
}
