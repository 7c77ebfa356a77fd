package numbers

import (
	"github.com/Invicton-Labs/go-hashtable/constraints"
)

func Max[T constraints.Ordered](val1 T, vals ...T) T {
	m := val1
	for _, v := range vals {
		if v > m {
			m = v
		}
	}
	return m
}

// Compare returns -1 if a < b, 1 if a > b, and 0 otherwise. Unlike a
// subtraction it cannot overflow.
func Compare[T constraints.Integer](a T, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
