package keys

import (
	"strings"

	"github.com/zeebo/xxh3"
)

const djb2Seed uint64 = 5381

// Djb2 hashes a string with the djb2 algorithm (hash*33 + byte, seeded with 5381).
// Every byte of the string is hashed, including any zero bytes.
func Djb2(s string) uint64 {
	hash := djb2Seed
	for i := 0; i < len(s); i++ {
		hash = (hash << 5) + hash + uint64(s[i])
	}
	return hash
}

type stringPolicy struct{}

func (stringPolicy) Hash(key string) uint64 {
	return Djb2(key)
}

func (stringPolicy) Compare(a string, b string) int {
	return strings.Compare(a, b)
}

// String returns the policy for string keys: djb2 hashing and byte-wise
// lexicographic comparison.
func String() Policy[string] {
	return stringPolicy{}
}

type fastStringPolicy struct{}

func (fastStringPolicy) Hash(key string) uint64 {
	return xxh3.HashString(key)
}

func (fastStringPolicy) Compare(a string, b string) int {
	return strings.Compare(a, b)
}

// FastString returns a policy for string keys that hashes with XXH3, which
// distributes long or similar keys much better than djb2.
func FastString() Policy[string] {
	return fastStringPolicy{}
}
