package robot

import (
	"math/rand/v2"
	"slices"
)

// Repertoire is the fixed, ordered set of gesture names a body can play.
type Repertoire []string

// Select maps a selector to a gesture name. It is pure: the same selector
// always yields the same name. An empty repertoire yields "".
func (r Repertoire) Select(selector uint64) string {
	if len(r) == 0 {
		return ""
	}
	return r[selector%uint64(len(r))]
}

// Contains reports whether name is in the repertoire.
func (r Repertoire) Contains(name string) bool {
	return slices.Contains(r, name)
}

// Selector produces the next selector value for Repertoire.Select.
type Selector func() uint64

// SequentialSelector walks the repertoire in order, starting at 0.
func SequentialSelector() Selector {
	var next uint64
	return func() uint64 {
		v := next
		next++
		return v
	}
}

// RandomSelector returns a seeded pseudo-random selector. The same seed
// replays the same sequence.
func RandomSelector(seed uint64) Selector {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return rng.Uint64
}

// FixedSelector always selects the same value.
func FixedSelector(v uint64) Selector {
	return func() uint64 { return v }
}
