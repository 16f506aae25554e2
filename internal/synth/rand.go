package synth

// Deterministic value source: an FNV-1a hash of the key parts seeds a
// splitmix64 stream. Same key parts give the same stream on every call, which
// the engine relies on for reproducible synthetic data with no stored state.

const (
	fnvOffset = 14695981039346656037
	fnvPrime  = 1099511628211
)

type source struct {
	state uint64
}

// newSource derives a seeded stream from the given key parts.
func newSource(parts ...string) *source {
	var h uint64 = fnvOffset
	for i, p := range parts {
		if i > 0 {
			h ^= '|'
			h *= fnvPrime
		}
		for j := 0; j < len(p); j++ {
			h ^= uint64(p[j])
			h *= fnvPrime
		}
	}
	return &source{state: h}
}

// next advances the splitmix64 stream.
func (s *source) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// float64 returns a uniform value in [0, 1).
func (s *source) float64() float64 {
	return float64(s.next()>>11) / (1 << 53)
}

// inRange returns a uniform value in [lo, hi).
func (s *source) inRange(lo, hi float64) float64 {
	return lo + (hi-lo)*s.float64()
}

// Uniform returns the first uniform [0,1) draw for the given key parts.
// Exposed for callers that need keyed per-point noise, such as the
// time-series reconstructor.
func Uniform(parts ...string) float64 {
	return newSource(parts...).float64()
}

// UniformIn returns a uniform draw in [lo, hi) for the given key parts.
func UniformIn(lo, hi float64, parts ...string) float64 {
	return newSource(parts...).inRange(lo, hi)
}
