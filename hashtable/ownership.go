package hashtable

import (
	"reflect"
	"unsafe"
)

// Ownership tells whether the table releases the handles stored in a slot
// (the key or the value).
type Ownership int

const (
	// Borrowed handles stay owned by the caller; the table never releases them.
	Borrowed Ownership = iota
	// Owned handles are released by the table's destructor when they are
	// replaced, deleted, cleared, or destroyed.
	Owned
)

func (o Ownership) String() string {
	switch o {
	case Borrowed:
		return "borrowed"
	case Owned:
		return "owned"
	default:
		return "unknown"
	}
}

// Pair is a key and value whose ownership has been handed back to the caller.
type Pair[K any, V any] struct {
	Key   K
	Value V
}

// sameHandle reports whether a and b refer to the same underlying storage.
// Only reference kinds (pointers, maps, channels, functions, slices, strings)
// can share a handle; two plain values are always distinct handles.
func sameHandle[T any](a T, b T) bool {
	va := reflect.ValueOf(&a).Elem()
	vb := reflect.ValueOf(&b).Elem()
	if va.Kind() == reflect.Interface {
		if va.IsNil() || vb.IsNil() {
			return va.IsNil() && vb.IsNil()
		}
		va = va.Elem()
		vb = vb.Elem()
		if va.Type() != vb.Type() {
			return false
		}
	}
	switch va.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	case reflect.String:
		sa, sb := va.String(), vb.String()
		return len(sa) == len(sb) && unsafe.StringData(sa) == unsafe.StringData(sb)
	default:
		return false
	}
}

// isNilKey reports whether the key is a nil reference, which no table accepts.
func isNilKey[K any](key K) bool {
	v := reflect.ValueOf(&key).Elem()
	switch v.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Slice, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
