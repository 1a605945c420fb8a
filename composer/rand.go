package composer

import (
	"encoding/binary"
	"math/rand/v2"

	"github.com/zeebo/xxh3"
)

// hashU64s combines a sequence of uint64 values into one via xxh3,
// matching the original implementation's use of xxhash-64 for
// deterministic hierarchical seeding: the same sequence of inputs always
// hashes to the same output, on any platform, across runs.
func hashU64s(vals ...uint64) uint64 {
	h := xxh3.New()
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

// hashSeedName combines a parent seed with a child's name, used to derive
// a named child's seed independent of sibling order.
func hashSeedName(seed uint64, name string) uint64 {
	h := xxh3.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(name)
	return h.Sum64()
}

// newRand builds a deterministic RNG from a single uint64 seed. The
// original implementation seeds a ChaCha12Rng directly from one u64; no
// library in this module's dependency set offers a seedable ChaCha
// generator, so math/rand/v2's PCG (also a modern, non-cryptographic,
// seed-reproducible generator) stands in. Reproducibility across runs is
// what the composition's determinism guarantee actually requires, not
// the specific algorithm.
func newRand(seed uint64) *rand.Rand {
	hi := hashU64s(seed, 0x9e3779b97f4a7c15)
	return rand.New(rand.NewPCG(seed, hi))
}

// Rand is the deterministic generator type returned by Context.Rng and
// Context.RngWithSeed, aliased so callers never need to import
// math/rand/v2 themselves.
type Rand = rand.Rand
