package keys

import (
	"bytes"
	"cmp"

	"github.com/Invicton-Labs/go-hashtable/constraints"
	"github.com/cespare/xxhash/v2"
	"github.com/dolthub/maphash"
)

type bytesPolicy struct{}

func (bytesPolicy) Hash(key []byte) uint64 {
	return xxhash.Sum64(key)
}

func (bytesPolicy) Compare(a []byte, b []byte) int {
	return bytes.Compare(a, b)
}

// Bytes returns the policy for byte slice keys, hashed with xxHash64.
// Keys are compared by content, so a table never needs the same slice twice.
func Bytes() Policy[[]byte] {
	return bytesPolicy{}
}

type comparablePolicy[K comparable] struct {
	hasher maphash.Hasher[K]
}

func (p comparablePolicy[K]) Hash(key K) uint64 {
	return p.hasher.Hash(key)
}

func (p comparablePolicy[K]) Compare(a K, b K) int {
	if a == b {
		return 0
	}
	return 1
}

// Comparable returns a policy for any comparable key type, using the runtime's
// own map hasher with a random seed. Compare only reports equality (0) or
// inequality (1). Hashes are stable for the lifetime of the returned policy,
// not across policies or processes.
func Comparable[K comparable]() Policy[K] {
	return comparablePolicy[K]{
		hasher: maphash.NewHasher[K](),
	}
}

type orderedPolicy[K constraints.Ordered] struct {
	hasher maphash.Hasher[K]
}

// nanHash is the hash of every NaN key. The runtime hasher gives each NaN a
// random hash, but Compare treats all NaNs as one key.
const nanHash uint64 = 0x7ff8000000000001

func (p orderedPolicy[K]) Hash(key K) uint64 {
	if key != key {
		return nanHash
	}
	return p.hasher.Hash(key)
}

func (p orderedPolicy[K]) Compare(a K, b K) int {
	return cmp.Compare(a, b)
}

// Ordered is like Comparable, but Compare is a full three-way comparison.
// For floating-point keys every NaN is the same key, ordered before all
// other values, and -0 and +0 are the same key.
func Ordered[K constraints.Ordered]() Policy[K] {
	return orderedPolicy[K]{
		hasher: maphash.NewHasher[K](),
	}
}
