package randutil

const (
	fnvOffset32 = 2166136261
	fnvPrime32  = 16777619
)

// HashSeed hashes an arbitrary seed string with FNV-1a (32 bit). The result
// feeds the xorshift stream so that identical seed strings always produce
// identical shuffles.
func HashSeed(s string) uint32 {
	h := uint32(fnvOffset32)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= fnvPrime32
	}
	return h
}

// Stream is a xorshift32 generator. It is deliberately tiny: the shuffle
// contract requires a documented, reproducible stream, not cryptographic
// quality.
type Stream struct {
	state uint32
}

// NewStream returns a stream seeded from the given hash. A zero seed would
// lock xorshift at zero forever, so it is remapped.
func NewStream(seed uint32) *Stream {
	if seed == 0 {
		seed = fnvOffset32
	}
	return &Stream{state: seed}
}

// Next advances the stream and returns the next raw 32-bit value.
func (s *Stream) Next() uint32 {
	x := s.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	s.state = x
	return x
}

// Intn returns a value in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	if n <= 0 {
		panic("randutil: Intn called with non-positive n")
	}
	return int(s.Next() % uint32(n))
}
