package hashtable

import (
	"github.com/Invicton-Labs/go-stackerr"
)

// Signal is returned by a Visitor to continue or stop a traversal.
type Signal int

const (
	Continue Signal = iota
	Stop
)

// Traversal is the outcome of Range.
type Traversal int

const (
	// Completed means every entry was visited.
	Completed Traversal = iota
	// Stopped means the visitor returned Stop.
	Stopped
)

func (t Traversal) String() string {
	switch t {
	case Completed:
		return "completed"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Visitor is called once per entry by Range. Inserting into or deleting from
// the table being traversed is not allowed and has undefined results.
type Visitor[K any, V any] func(key K, value V) Signal

func (t *table[K, V]) Range(visit Visitor[K, V]) (Traversal, stackerr.Error) {
	if err := t.check("Range"); err != nil {
		return Completed, err
	}
	if visit == nil {
		return Completed, newError(CodeInvalidArgument, map[string]any{"operation": "Range"}, "Range called with a nil visitor")
	}
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			if visit(e.key, e.value) == Stop {
				return Stopped, nil
			}
		}
	}
	return Completed, nil
}

func (t *table[K, V]) Iterator() func() (key K, value V, ok bool) {
	if t.check("Iterator") != nil {
		return func() (key K, value V, ok bool) {
			return key, value, false
		}
	}
	bucket := 0
	var current *entry[K, V]
	return func() (key K, value V, ok bool) {
		for current == nil {
			if bucket >= len(t.buckets) {
				return key, value, false
			}
			current = t.buckets[bucket]
			bucket++
		}
		e := current
		current = e.next
		return e.key, e.value, true
	}
}

func (t *table[K, V]) Keys() []K {
	if t.check("Keys") != nil {
		return nil
	}
	keys := make([]K, 0, t.size)
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			keys = append(keys, e.key)
		}
	}
	return keys
}

func (t *table[K, V]) Values() []V {
	if t.check("Values") != nil {
		return nil
	}
	values := make([]V, 0, t.size)
	for _, head := range t.buckets {
		for e := head; e != nil; e = e.next {
			values = append(values, e.value)
		}
	}
	return values
}
