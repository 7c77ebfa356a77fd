package gensync

import (
	"context"

	"github.com/Invicton-Labs/go-hashtable/hashtable"
	"github.com/Invicton-Labs/go-hashtable/lock"
	"github.com/Invicton-Labs/go-hashtable/log"
	"github.com/Invicton-Labs/go-stackerr"
)

// Table serializes every call to a hashtable.Table through one mutex, so
// that a single table can be shared between routines. Each call waits for
// the mutex until its context is done, in which case the context's error is
// returned and the table is not touched.
type Table[K any, V any] interface {
	Insert(ctx context.Context, key K, value V) stackerr.Error
	Swap(ctx context.Context, key K, value V) (superseded hashtable.Pair[K, V], replaced bool, err stackerr.Error)
	Get(ctx context.Context, key K) (value V, found bool, err stackerr.Error)
	Contains(ctx context.Context, key K) (found bool, err stackerr.Error)
	Delete(ctx context.Context, key K) stackerr.Error
	Take(ctx context.Context, key K) (removed hashtable.Pair[K, V], found bool, err stackerr.Error)
	Len(ctx context.Context) (length int, err stackerr.Error)
	Stats(ctx context.Context) (stats hashtable.Stats, err stackerr.Error)

	// Range holds the mutex for the whole traversal. The visitor must not
	// call back into this Table, or it will wait on its own lock.
	Range(ctx context.Context, visit hashtable.Visitor[K, V]) (hashtable.Traversal, stackerr.Error)

	// Update runs f with exclusive access to the underlying table, for
	// read-modify-write sequences that must not interleave with other calls.
	Update(ctx context.Context, f func(t hashtable.Table[K, V]) stackerr.Error) stackerr.Error

	Destroy(ctx context.Context) stackerr.Error
}

type table[K any, V any] struct {
	mu lock.CtxMutex
	t  hashtable.Table[K, V]
}

// NewTable creates a new table with the given input and wraps it.
func NewTable[K any, V any](input hashtable.NewInput[K, V]) (Table[K, V], stackerr.Error) {
	t, err := hashtable.New(input)
	if err != nil {
		return nil, err
	}
	return WrapTable(t), nil
}

// WrapTable wraps an existing table. The caller must not use t directly
// afterwards.
func WrapTable[K any, V any](t hashtable.Table[K, V]) Table[K, V] {
	return &table[K, V]{
		mu: lock.NewCtxMutex(),
		t:  t,
	}
}

func (st *table[K, V]) do(ctx context.Context, op string, f func()) stackerr.Error {
	if err := st.mu.Do(ctx, f); err != nil {
		log.FromContext(ctx).Debugw("Gave up waiting for the table lock", "operation", op, "error", err.Error())
		return err
	}
	return nil
}

func (st *table[K, V]) Insert(ctx context.Context, key K, value V) (err stackerr.Error) {
	if lockErr := st.do(ctx, "Insert", func() {
		err = st.t.Insert(key, value)
	}); lockErr != nil {
		return lockErr
	}
	return err
}

func (st *table[K, V]) Swap(ctx context.Context, key K, value V) (superseded hashtable.Pair[K, V], replaced bool, err stackerr.Error) {
	if lockErr := st.do(ctx, "Swap", func() {
		superseded, replaced, err = st.t.Swap(key, value)
	}); lockErr != nil {
		return superseded, false, lockErr
	}
	return superseded, replaced, err
}

func (st *table[K, V]) Get(ctx context.Context, key K) (value V, found bool, err stackerr.Error) {
	err = st.do(ctx, "Get", func() {
		value, found = st.t.Get(key)
	})
	return value, found, err
}

func (st *table[K, V]) Contains(ctx context.Context, key K) (found bool, err stackerr.Error) {
	err = st.do(ctx, "Contains", func() {
		found = st.t.Contains(key)
	})
	return found, err
}

func (st *table[K, V]) Delete(ctx context.Context, key K) (err stackerr.Error) {
	if lockErr := st.do(ctx, "Delete", func() {
		err = st.t.Delete(key)
	}); lockErr != nil {
		return lockErr
	}
	return err
}

func (st *table[K, V]) Take(ctx context.Context, key K) (removed hashtable.Pair[K, V], found bool, err stackerr.Error) {
	err = st.do(ctx, "Take", func() {
		removed, found = st.t.Take(key)
	})
	return removed, found, err
}

func (st *table[K, V]) Len(ctx context.Context) (length int, err stackerr.Error) {
	err = st.do(ctx, "Len", func() {
		length = st.t.Len()
	})
	return length, err
}

func (st *table[K, V]) Stats(ctx context.Context) (stats hashtable.Stats, err stackerr.Error) {
	err = st.do(ctx, "Stats", func() {
		stats = st.t.Stats()
	})
	return stats, err
}

func (st *table[K, V]) Range(ctx context.Context, visit hashtable.Visitor[K, V]) (traversal hashtable.Traversal, err stackerr.Error) {
	if lockErr := st.do(ctx, "Range", func() {
		traversal, err = st.t.Range(visit)
	}); lockErr != nil {
		return hashtable.Completed, lockErr
	}
	return traversal, err
}

func (st *table[K, V]) Update(ctx context.Context, f func(t hashtable.Table[K, V]) stackerr.Error) (err stackerr.Error) {
	if lockErr := st.do(ctx, "Update", func() {
		err = f(st.t)
	}); lockErr != nil {
		return lockErr
	}
	return err
}

func (st *table[K, V]) Destroy(ctx context.Context) stackerr.Error {
	return st.do(ctx, "Destroy", st.t.Destroy)
}
