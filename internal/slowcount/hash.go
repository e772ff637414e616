package slowcount

import (
	"fmt"
	"math/bits"

	"github.com/cespare/xxhash/v2"
)

// maxRank is the largest rank a 32-bit value can produce. An all-ones value
// would count 32 set bits; it is clamped so that ranks stay in [0, 32).
const maxRank = 31

// HashFamily selects how the per-register observations of an item are derived.
type HashFamily uint8

const (
	// Chained derives register i+1's value by mixing register i's value.
	Chained HashFamily = iota
	// Keyed derives every register's value from one xxhash digest, keyed by
	// the register index.
	Keyed
)

func (f HashFamily) String() string {
	switch f {
	case Chained:
		return "chained"
	case Keyed:
		return "keyed"
	default:
		return fmt.Sprintf("HashFamily(%d)", uint8(f))
	}
}

// ParseHashFamily maps a family name ("chained" or "keyed") to its HashFamily.
func ParseHashFamily(name string) (HashFamily, error) {
	switch name {
	case "chained":
		return Chained, nil
	case "keyed":
		return Keyed, nil
	default:
		return 0, fmt.Errorf("%w: unknown hash family %q", ErrInvalidConfiguration, name)
	}
}

// Digest is the djb2 string hash (h = h*33 + c, seeded at 5381) with 32-bit
// wrapping arithmetic. Every byte takes part, including NULs and line
// terminators.
func Digest(data []byte) uint32 {
	hash := uint32(5381)
	for _, c := range data {
		hash = (hash << 5) + hash + uint32(c)
	}

	return hash
}

// Mix is an integer avalanche: a fixed sequence of add, shift and xor steps
// after which every input bit affects every output bit.
func Mix(a uint32) uint32 {
	a = a + 0x7ed55d16 + (a << 12)
	a = a ^ 0xc761c23c ^ (a >> 19)
	a = a + 0x165667b1 + (a << 5)
	a = (a + 0xd3a2646c) ^ (a << 9)
	a = a + 0xfd7046c5 + (a << 3)
	a = a ^ 0xb55a4f09 ^ (a >> 16)

	return a
}

// Seed returns the value that the Chained family feeds to the first register
// for an item.
func Seed(data []byte) uint32 {
	return Mix(Digest(data))
}

// rank counts the consecutive set bits of v starting at the least
// significant bit.
func rank(v uint32) uint8 {
	k := bits.TrailingZeros32(^v)
	if k > maxRank {
		k = maxRank
	}

	return uint8(k)
}

// keyedBase is the 64-bit digest the Keyed family derives register values from.
func keyedBase(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// golden is 2^64 divided by the golden ratio, the splitmix64 increment.
const golden = 0x9e3779b97f4a7c15

// keyedValue derives the observation for register i from an item's base
// digest. It is the splitmix64 finalizer applied to base + (i+1)*golden,
// truncated to 32 bits.
func keyedValue(base uint64, i int) uint32 {
	z := base + uint64(i+1)*golden
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	z ^= z >> 31

	return uint32(z)
}
