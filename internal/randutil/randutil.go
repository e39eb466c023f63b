// Package randutil builds deterministic math/rand/v2 generators from the
// int64 seeds that flags and config files carry.
package randutil

import (
	rand "math/rand/v2"
	"time"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a PCG-backed *rand.Rand for seed. Equal seeds give equal
// sequences.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Seed returns *explicit when set, otherwise a seed from the current time.
// The second result reports whether the seed was given.
func Seed(explicit *int64) (int64, bool) {
	if explicit != nil {
		return *explicit, true
	}
	return time.Now().UnixNano(), false
}

// Derive returns an independent seed for worker i of a run seeded with
// base, so that parallel workers never share a sequence.
func Derive(base int64, i int) int64 {
	return int64(mix(uint64(base) + uint64(i+1)*goldenRatio64))
}

// mix is the splitmix64 finalizer
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
