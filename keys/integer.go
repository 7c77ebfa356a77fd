package keys

import (
	"github.com/Invicton-Labs/go-hashtable/constraints"
	"github.com/Invicton-Labs/go-hashtable/numbers"
)

type integerPolicy[T constraints.Integer] struct{}

// Hash is the identity on the key's bit pattern. Signed keys are sign-extended
// to 64 bits.
func (integerPolicy[T]) Hash(key T) uint64 {
	return uint64(key)
}

func (integerPolicy[T]) Compare(a T, b T) int {
	return numbers.Compare(a, b)
}

// Integer returns the policy for keys of any integer type.
func Integer[T constraints.Integer]() Policy[T] {
	return integerPolicy[T]{}
}

// Int returns the policy for int keys.
func Int() Policy[int] {
	return Integer[int]()
}
