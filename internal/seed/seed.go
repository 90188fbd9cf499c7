// Package seed produces reproducible pseudo-random test data. Generators are
// passed explicitly; there is no package-level source.
package seed

import (
	"fmt"
	"math/rand/v2"
)

var (
	adjectives = []string{"flooded", "blocked", "broken", "noisy", "damaged", "unlit", "overgrown", "leaking"}
	subjects   = []string{"street", "crossing", "park", "bridge", "lamp", "drain", "sidewalk", "bus stop"}
)

// Generator is a seedable source of sample values. Two generators built from
// the same value yield the same sequence.
type Generator struct {
	rng *rand.Rand
}

func New(value uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(value, value^0x9e3779b97f4a7c15))}
}

// Title returns a short incident-style title.
func (g *Generator) Title() string {
	return fmt.Sprintf("%s %s", pick(g, adjectives), pick(g, subjects))
}

// Sentence returns a description built from n titles.
func (g *Generator) Sentence(n int) string {
	s := ""
	for i := range n {
		if i > 0 {
			s += ", "
		}
		s += g.Title()
	}
	return s
}

// Amount returns a value in [min, max].
func (g *Generator) Amount(min, max int64) int64 {
	if max <= min {
		return min
	}
	return min + g.rng.Int64N(max-min+1)
}

// Intn returns a value in [0, n).
func (g *Generator) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.rng.IntN(n)
}

func pick(g *Generator, from []string) string {
	return from[g.rng.IntN(len(from))]
}
