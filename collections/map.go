package collections

import (
	"github.com/Invicton-Labs/go-hashtable/constraints"
)

// CopyMap creates a copy of the input map
func CopyMap[Key comparable, Value any](in map[Key]Value) map[Key]Value {
	m := make(map[Key]Value, len(in))
	for k, v := range in {
		m[k] = v
	}
	return m
}

// MergeMaps will merge multiple maps together, with values for keys in later maps
// overwriting values with the same keys in previous maps. If no maps are passed
// in, it returns nil.
func MergeMaps[Key comparable, Value any](maps ...map[Key]Value) map[Key]Value {
	if len(maps) == 0 {
		return nil
	}
	out := make(map[Key]Value, len(maps[0]))
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// MapKeys gets all keys of the input map as a slice.
func MapKeys[Key comparable, Value any](in map[Key]Value) []Key {
	r := make([]Key, 0, len(in))
	for k := range in {
		r = append(r, k)
	}
	return r
}

// MapValues gets all values of the input map as a slice.
func MapValues[Key comparable, Value any](in map[Key]Value) []Value {
	r := make([]Value, 0, len(in))
	for _, v := range in {
		r = append(r, v)
	}
	return r
}

// MapAscending will return a closure (iterator) that will return the next element of the map (in ascending
// order by key) each time it's called. After the last element has been returned, the closure will return
// zero-values and false for 'ok'.
func MapAscending[Key constraints.Ordered, Value any](in map[Key]Value) func() (k Key, v Value, ok bool) {
	keys := SortSliceAscendingCopy(MapKeys(in))
	i := 0
	return func() (k Key, v Value, ok bool) {
		if i == len(keys) {
			return k, v, false
		}
		k = keys[i]
		i++
		return k, in[k], true
	}
}
