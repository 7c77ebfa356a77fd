// Package keys provides key policies for hashtable.Table: a hash function and a
// three-way comparison for one concrete key type. Any policy must hash keys
// that compare equal to the same value.
package keys

// Policy is the capability a key type needs to be stored in a table.
type Policy[K any] interface {
	// Hash returns the hash of the key. Keys for which Compare returns 0
	// must have the same hash.
	Hash(key K) uint64
	// Compare returns 0 if the keys are equal, and a non-zero value otherwise.
	// Policies over ordered keys return a negative value if a < b and a
	// positive value if a > b.
	Compare(a K, b K) int
}

type funcPolicy[K any] struct {
	hash    func(K) uint64
	compare func(a K, b K) int
}

func (p funcPolicy[K]) Hash(key K) uint64 {
	return p.hash(key)
}

func (p funcPolicy[K]) Compare(a K, b K) int {
	return p.compare(a, b)
}

// Funcs creates a Policy from a hash function and a comparison function.
// It returns nil if either function is nil.
func Funcs[K any](hash func(K) uint64, compare func(a K, b K) int) Policy[K] {
	if hash == nil || compare == nil {
		return nil
	}
	return funcPolicy[K]{
		hash:    hash,
		compare: compare,
	}
}
