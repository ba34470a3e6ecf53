package daily

// LCG constants (Numerical Recipes). Every executable that renders daily content
// must use exactly these values, otherwise the bot and gkctl disagree on the day.
const (
	lcgMultiplier uint32 = 1664525
	lcgIncrement  uint32 = 1013904223
	lcgModulus           = 4294967296.0 // 2^32
)

// Generator is a 32-bit linear congruential generator. Arithmetic wraps at 2^32 so
// the sequence for a seed is identical on every platform.
type Generator struct {
	state uint32
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint32) *Generator {
	return &Generator{state: seed}
}

// Next advances the state and returns it.
func (g *Generator) Next() uint32 {
	g.state = g.state*lcgMultiplier + lcgIncrement
	return g.state
}

// Float64 returns the next value in [0, 1).
func (g *Generator) Float64() float64 {
	return float64(g.Next()) / lcgModulus
}

// Shuffle returns a permuted copy of items. The input slice is not modified.
// The permutation is a Fisher-Yates walk from the last index down to 1 driven by
// NewGenerator(seed).
func Shuffle[T any](items []T, seed uint32) []T {
	out := make([]T, len(items))
	copy(out, items)

	rng := NewGenerator(seed)
	for i := len(out) - 1; i > 0; i-- {
		j := int(rng.Float64() * float64(i+1))
		out[i], out[j] = out[j], out[i]
	}
	return out
}
