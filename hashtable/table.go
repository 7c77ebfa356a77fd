package hashtable

import (
	"fmt"
	"math"

	"github.com/Invicton-Labs/go-hashtable/keys"
	"github.com/Invicton-Labs/go-hashtable/log"
	"github.com/Invicton-Labs/go-hashtable/numbers"
	"github.com/Invicton-Labs/go-stackerr"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

const (
	// DefaultCapacity is the bucket count used when NewInput.InitialCapacity is 0.
	DefaultCapacity = 16
	// LoadFactorThreshold is the highest size/capacity ratio a table allows
	// once an insert has completed.
	LoadFactorThreshold = 0.75
	// GrowthFactor is the multiplier applied to the capacity on each resize.
	GrowthFactor = 2
)

// Table is a hash table with separate chaining over caller-defined key and
// value types.
//
// A Table is not safe for concurrent use. Callers that share one between
// goroutines must serialize every call, for example with gensync.Table.
type Table[K any, V any] interface {
	// Insert stores the value under the key. If an equal key is already
	// present, its value is replaced: the old value is released if values
	// are owned, and the old key is released if keys are owned and the new
	// key is a different handle. The stored key becomes the new key.
	Insert(key K, value V) stackerr.Error

	// Swap is Insert with an explicit transfer of ownership: when an equal
	// key is present, the superseded key and value are returned to the
	// caller instead of being released, and replaced is true.
	Swap(key K, value V) (superseded Pair[K, V], replaced bool, err stackerr.Error)

	// Get returns the value stored under the key. Absence is reported by
	// found being false.
	Get(key K) (value V, found bool)

	// Contains reports whether the key is present.
	Contains(key K) bool

	// Delete removes the key and releases its owned key and value. It returns
	// a key-not-found error if the key is absent. The capacity never shrinks.
	Delete(key K) stackerr.Error

	// Take removes the key without releasing anything and hands the stored
	// key and value back to the caller.
	Take(key K) (removed Pair[K, V], found bool)

	// Len returns the number of stored entries.
	Len() int

	// Capacity returns the number of buckets.
	Capacity() int

	// LoadFactor returns Len()/Capacity().
	LoadFactor() float64

	// Stats returns a snapshot of the table's shape.
	Stats() Stats

	// KeyOwnership and ValueOwnership report whether the table releases
	// stored keys and values.
	KeyOwnership() Ownership
	ValueOwnership() Ownership

	// Range calls visit for every entry, bucket by bucket, until visit
	// returns Stop. The visitor must not modify the table.
	Range(visit Visitor[K, V]) (Traversal, stackerr.Error)

	// Iterator returns a closure that yields the entries in the same order
	// as Range, one per call, then the zero values and false. The table
	// must not be modified while the iterator is in use.
	Iterator() func() (key K, value V, ok bool)

	// Keys and Values return the stored keys and values in traversal order.
	Keys() []K
	Values() []V

	// Clear releases every entry as Destroy does, but keeps the table usable
	// with its current capacity.
	Clear()

	// Destroy releases every owned key and value and drops all entries. The
	// table cannot be used afterwards; further calls fail with an invalid
	// argument error and a second Destroy does nothing.
	Destroy()
}

// Stats describes the shape of a table.
type Stats struct {
	Size           int
	Capacity       int
	UsedBuckets    int
	LongestChain   int
	LoadFactor     float64
	KeyOwnership   Ownership
	ValueOwnership Ownership
	Destroyed      bool
}

// NewInput configures a new Table.
type NewInput[K any, V any] struct {
	// InitialCapacity is the initial number of buckets. 0 selects
	// DefaultCapacity.
	InitialCapacity int

	// Hash and Compare are required, either directly or through Policy.
	// Compare returns 0 for equal keys. Equal keys must hash identically.
	Hash    func(key K) uint64
	Compare func(a K, b K) int

	// Policy supplies Hash and/or Compare when they are not set directly.
	Policy keys.Policy[K]

	// KeyDestructor and ValueDestructor make the table the owner of the
	// stored keys and values respectively. Leave them nil to keep ownership
	// with the caller.
	//
	// On Insert over an equal key, the old key and old value are released
	// only when they are different handles from the new ones. Pointers, maps,
	// channels, funcs, slices and strings are the same handle when they share
	// storage, so re-inserting the stored value (or an equal string literal,
	// which the compiler interns) releases nothing. Every other type, structs
	// included, is always a different handle: re-inserting a struct key that
	// holds a resource releases the stored copy, and the new copy is released
	// again later. Use Swap to take back the superseded key and value without
	// running any destructor.
	KeyDestructor   func(key K)
	ValueDestructor func(value V)

	// MaxCapacity caps the number of buckets. A resize that would exceed it
	// fails with an allocation error. 0 means no limit beyond memory.
	MaxCapacity int

	// Logger receives resize and release diagnostics. It defaults to the
	// package logger, which follows the process default logger.
	Logger log.Logger
}

type entry[K any, V any] struct {
	key   K
	value V
	next  *entry[K, V]
}

type table[K any, V any] struct {
	buckets      []*entry[K, V]
	size         int
	hash         func(key K) uint64
	compare      func(a K, b K) int
	releaseKey   func(key K)
	releaseValue func(value V)
	maxCapacity  int
	logger       func() log.Logger
	destroyed    bool
}

// New creates a table.
func New[K any, V any](input NewInput[K, V]) (Table[K, V], stackerr.Error) {
	hash, compare := input.Hash, input.Compare
	if input.Policy != nil {
		if hash == nil {
			hash = input.Policy.Hash
		}
		if compare == nil {
			compare = input.Policy.Compare
		}
	}
	if hash == nil {
		return nil, newError(CodeMissingCallback, nil, "a hash function is required")
	}
	if compare == nil {
		return nil, newError(CodeMissingCallback, nil, "a compare function is required")
	}
	if input.InitialCapacity < 0 {
		return nil, newError(CodeInvalidArgument, map[string]any{"capacity": input.InitialCapacity}, "initial capacity %d is negative", input.InitialCapacity)
	}
	if input.MaxCapacity < 0 {
		return nil, newError(CodeInvalidArgument, map[string]any{"max_capacity": input.MaxCapacity}, "max capacity %d is negative", input.MaxCapacity)
	}

	capacity := input.InitialCapacity
	if capacity == 0 {
		capacity = DefaultCapacity
	}

	t := &table[K, V]{
		size:         0,
		hash:         hash,
		compare:      compare,
		releaseKey:   input.KeyDestructor,
		releaseValue: input.ValueDestructor,
		maxCapacity:  input.MaxCapacity,
	}
	if input.Logger != nil {
		t.logger = func() log.Logger { return input.Logger }
	} else {
		t.logger = packageLogger().Logger
	}

	buckets, err := t.allocateBuckets(capacity)
	if err != nil {
		return nil, err
	}
	t.buckets = buckets
	return t, nil
}

// allocateBuckets returns a zeroed bucket array, converting a refused or
// failed allocation into an allocation error.
func (t *table[K, V]) allocateBuckets(capacity int) (buckets []*entry[K, V], err stackerr.Error) {
	if t.maxCapacity > 0 && capacity > t.maxCapacity {
		return nil, newError(CodeAllocationError, map[string]any{
			"capacity":     capacity,
			"max_capacity": t.maxCapacity,
		}, "capacity %d exceeds the maximum of %d buckets", capacity, t.maxCapacity)
	}
	defer func() {
		if r := recover(); r != nil {
			buckets = nil
			err = newError(CodeAllocationError, map[string]any{"capacity": capacity}, "failed to allocate %d buckets: %v", capacity, r)
		}
	}()
	return make([]*entry[K, V], capacity), nil
}

func (t *table[K, V]) bucketIndex(key K) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

func (t *table[K, V]) check(op string) stackerr.Error {
	if t == nil {
		return newError(CodeInvalidArgument, map[string]any{"operation": op}, "%s called on a nil table", op)
	}
	if t.destroyed {
		return newError(CodeInvalidArgument, map[string]any{"operation": op}, "%s called on a destroyed table", op)
	}
	return nil
}

func (t *table[K, V]) checkKey(op string, key K) stackerr.Error {
	if err := t.check(op); err != nil {
		return err
	}
	if isNilKey(key) {
		return newError(CodeInvalidArgument, map[string]any{"operation": op}, "%s called with a nil key", op)
	}
	return nil
}

// find returns the entry holding the key and its predecessor in the chain,
// or a nil entry if the key is absent.
func (t *table[K, V]) find(key K) (index int, prev *entry[K, V], e *entry[K, V]) {
	index = t.bucketIndex(key)
	for e = t.buckets[index]; e != nil; prev, e = e, e.next {
		if t.compare(e.key, key) == 0 {
			return index, prev, e
		}
	}
	return index, nil, nil
}

// grow resizes the table first if one more entry would push the load
// factor over the threshold.
func (t *table[K, V]) grow() stackerr.Error {
	capacity := len(t.buckets)
	if float64(t.size+1)/float64(capacity) <= LoadFactorThreshold {
		return nil
	}
	if capacity > math.MaxInt/GrowthFactor {
		return newError(CodeAllocationError, map[string]any{"capacity": capacity}, "capacity %d cannot grow any further", capacity)
	}
	return t.resize(capacity * GrowthFactor)
}

// upsert links a new entry or locates the existing one for the key. It
// returns the existing entry, if any, without modifying it.
func (t *table[K, V]) upsert(op string, key K, value V) (*entry[K, V], stackerr.Error) {
	if err := t.checkKey(op, key); err != nil {
		return nil, err
	}
	if err := t.grow(); err != nil {
		return nil, err
	}
	index, _, e := t.find(key)
	if e != nil {
		return e, nil
	}
	t.buckets[index] = &entry[K, V]{
		key:   key,
		value: value,
		next:  t.buckets[index],
	}
	t.size++
	return nil, nil
}

func (t *table[K, V]) Insert(key K, value V) stackerr.Error {
	e, err := t.upsert("Insert", key, value)
	if err != nil || e == nil {
		return err
	}
	if t.releaseValue != nil && !sameHandle(e.value, value) {
		t.releaseValue(e.value)
	}
	if t.releaseKey != nil && !sameHandle(e.key, key) {
		t.releaseKey(e.key)
	}
	e.key = key
	e.value = value
	return nil
}

func (t *table[K, V]) Swap(key K, value V) (superseded Pair[K, V], replaced bool, err stackerr.Error) {
	e, err := t.upsert("Swap", key, value)
	if err != nil || e == nil {
		return superseded, false, err
	}
	superseded = Pair[K, V]{
		Key:   e.key,
		Value: e.value,
	}
	e.key = key
	e.value = value
	return superseded, true, nil
}

func (t *table[K, V]) Get(key K) (value V, found bool) {
	if t.check("Get") != nil || isNilKey(key) {
		return value, false
	}
	if _, _, e := t.find(key); e != nil {
		return e.value, true
	}
	return value, false
}

func (t *table[K, V]) Contains(key K) bool {
	_, found := t.Get(key)
	return found
}

// unlink removes the entry for the key from its chain.
func (t *table[K, V]) unlink(key K) *entry[K, V] {
	index, prev, e := t.find(key)
	if e == nil {
		return nil
	}
	if prev == nil {
		t.buckets[index] = e.next
	} else {
		prev.next = e.next
	}
	e.next = nil
	t.size--
	return e
}

func (t *table[K, V]) Delete(key K) stackerr.Error {
	if err := t.checkKey("Delete", key); err != nil {
		return err
	}
	e := t.unlink(key)
	if e == nil {
		return newError(CodeKeyNotFound, nil, "key not found")
	}
	t.release(e)
	return nil
}

func (t *table[K, V]) Take(key K) (removed Pair[K, V], found bool) {
	if t.checkKey("Take", key) != nil {
		return removed, false
	}
	e := t.unlink(key)
	if e == nil {
		return removed, false
	}
	return Pair[K, V]{Key: e.key, Value: e.value}, true
}

func (t *table[K, V]) release(e *entry[K, V]) {
	if t.releaseKey != nil {
		t.releaseKey(e.key)
	}
	if t.releaseValue != nil {
		t.releaseValue(e.value)
	}
}

// releaseSafely is release for bulk teardown: a panicking destructor is
// recovered and reported instead of aborting the teardown.
func (t *table[K, V]) releaseSafely(e *entry[K, V]) (err error) {
	if t.releaseKey != nil {
		err = multierr.Append(err, recoverRelease("key", func() { t.releaseKey(e.key) }))
	}
	if t.releaseValue != nil {
		err = multierr.Append(err, recoverRelease("value", func() { t.releaseValue(e.value) }))
	}
	return err
}

func recoverRelease(slot string, release func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s destructor panicked: %v", slot, r)
		}
	}()
	release()
	return nil
}

func (t *table[K, V]) Len() int {
	if t.check("Len") != nil {
		return 0
	}
	return t.size
}

func (t *table[K, V]) Capacity() int {
	if t.check("Capacity") != nil {
		return 0
	}
	return len(t.buckets)
}

func (t *table[K, V]) LoadFactor() float64 {
	if t.check("LoadFactor") != nil {
		return 0
	}
	return float64(t.size) / float64(len(t.buckets))
}

func (t *table[K, V]) KeyOwnership() Ownership {
	if t != nil && t.releaseKey != nil {
		return Owned
	}
	return Borrowed
}

func (t *table[K, V]) ValueOwnership() Ownership {
	if t != nil && t.releaseValue != nil {
		return Owned
	}
	return Borrowed
}

func (t *table[K, V]) Stats() Stats {
	if t == nil {
		return Stats{}
	}
	stats := Stats{
		Size:           t.size,
		Capacity:       len(t.buckets),
		KeyOwnership:   t.KeyOwnership(),
		ValueOwnership: t.ValueOwnership(),
		Destroyed:      t.destroyed,
	}
	if stats.Capacity > 0 {
		stats.LoadFactor = float64(t.size) / float64(stats.Capacity)
	}
	for _, head := range t.buckets {
		chain := 0
		for e := head; e != nil; e = e.next {
			chain++
		}
		if chain > 0 {
			stats.UsedBuckets++
		}
		stats.LongestChain = numbers.Max(stats.LongestChain, chain)
	}
	return stats
}

// resize relinks every entry into a new bucket array of the given capacity.
// Entries are moved, not copied, and no destructor runs. If the new array
// cannot be allocated the table is left untouched.
func (t *table[K, V]) resize(capacity int) stackerr.Error {
	if capacity < t.size || capacity <= 0 {
		return newError(CodeInvalidArgument, map[string]any{
			"capacity": capacity,
			"size":     t.size,
		}, "cannot resize %d entries into %d buckets", t.size, capacity)
	}
	buckets, err := t.allocateBuckets(capacity)
	if err != nil {
		t.logger().Warnw("Failed to grow hash table",
			"from_capacity", len(t.buckets),
			"to_capacity", capacity,
			"size", t.size,
			"error", err.Error(),
		)
		return err
	}

	if logger := t.logger(); logger.Enabled(zapcore.DebugLevel) {
		logger.Debugw("Resizing hash table",
			"from_capacity", len(t.buckets),
			"to_capacity", capacity,
			"size", t.size,
		)
	}

	for i, e := range t.buckets {
		for e != nil {
			next := e.next
			index := int(t.hash(e.key) % uint64(capacity))
			e.next = buckets[index]
			buckets[index] = e
			e = next
		}
		t.buckets[i] = nil
	}
	t.buckets = buckets
	return nil
}

// drain unlinks and releases every entry, returning the combined errors of
// any destructors that panicked.
func (t *table[K, V]) drain() error {
	var errs error
	for i, e := range t.buckets {
		for e != nil {
			next := e.next
			e.next = nil
			errs = multierr.Append(errs, t.releaseSafely(e))
			e = next
		}
		t.buckets[i] = nil
	}
	t.size = 0
	return errs
}

func (t *table[K, V]) logReleaseErrors(op string, errs error) {
	if errs == nil {
		return
	}
	t.logger().Errorw("Hash table destructors panicked",
		"operation", op,
		"failures", len(multierr.Errors(errs)),
		"error", errs.Error(),
	)
}

func (t *table[K, V]) Clear() {
	if t.check("Clear") != nil {
		return
	}
	t.logReleaseErrors("Clear", t.drain())
}

func (t *table[K, V]) Destroy() {
	if t == nil || t.destroyed {
		return
	}
	errs := t.drain()
	t.buckets = nil
	t.destroyed = true
	t.logReleaseErrors("Destroy", errs)
}
