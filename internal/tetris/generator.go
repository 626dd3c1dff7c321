package tetris

import (
	"math/rand"
	"time"
)

// Generator deals shapes from a shuffled bag of the full catalog.
// Every run of NumShapes draws starting at a reshuffle contains each shape once.
type Generator struct {
	rng    *rand.Rand
	bag    [NumShapes]Shape
	cursor int
}

// NewGenerator creates a generator seeded with seed.
// A zero seed uses the current time.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Generator{
		rng: rand.New(rand.NewSource(seed)),
		bag: catalog,
	}
	g.shuffle()
	return g
}

func (g *Generator) shuffle() {
	g.rng.Shuffle(len(g.bag), func(i, j int) {
		g.bag[i], g.bag[j] = g.bag[j], g.bag[i]
	})
	g.cursor = 0
}

// MakeRandom draws the next shape, reshuffling when the bag is exhausted.
func (g *Generator) MakeRandom() Shape {
	if g.cursor >= len(g.bag) {
		g.shuffle()
	}
	s := g.bag[g.cursor]
	g.cursor++
	return s
}

// Make looks up a shape by name. It never consumes the bag.
func (g *Generator) Make(name rune) (Shape, error) {
	return MakeShape(name)
}

// Remaining returns how many shapes are left before the next reshuffle.
func (g *Generator) Remaining() int {
	return len(g.bag) - g.cursor
}
