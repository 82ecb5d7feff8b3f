package board

import (
	"math/rand"
	"slices"
)

// Layout is an immutable mine placement with its derived master grid.
// The zero value is not a usable layout.
type Layout struct {
	dimension int
	mines     []bool  // row-major
	master    []Value // row-major
	mineCount int
}

// MineCount returns ceil(0.15 * dimension²), the number of mines on a
// generated board.
func MineCount(dimension int) int {
	if dimension <= 0 {
		return 0
	}
	return (15*dimension*dimension + 99) / 100
}

// Generate places MineCount(dimension) mines uniformly without replacement
// using a PRNG seeded with seed. Equal seeds give equal layouts.
func Generate(dimension int, seed int64) (Layout, error) {
	if dimension <= 0 {
		return Layout{}, ErrInvalidDimension
	}
	total := dimension * dimension
	want := MineCount(dimension)

	rng := rand.New(rand.NewSource(seed))
	mines := make([]bool, total)
	for placed := 0; placed < want; {
		idx := rng.Intn(total)
		if mines[idx] {
			continue
		}
		mines[idx] = true
		placed++
	}
	return newLayout(dimension, mines, want), nil
}

// LayoutFromMines builds a layout with mines at the given row-major linear
// indices. Any mine count is accepted, including none.
func LayoutFromMines(dimension int, indices []int) (Layout, error) {
	if dimension <= 0 {
		return Layout{}, ErrInvalidDimension
	}
	total := dimension * dimension
	mines := make([]bool, total)
	for _, idx := range indices {
		if idx < 0 || idx >= total {
			return Layout{}, invalidLayout("mine index %d outside [0, %d)", idx, total)
		}
		if mines[idx] {
			return Layout{}, invalidLayout("duplicate mine index %d", idx)
		}
		mines[idx] = true
	}
	return newLayout(dimension, mines, len(indices)), nil
}

func newLayout(dimension int, mines []bool, mineCount int) Layout {
	master := make([]Value, len(mines))
	for idx, mine := range mines {
		if mine {
			master[idx] = Mine
			continue
		}
		count := Value(0)
		neighbours(dimension, Position{Row: idx / dimension, Col: idx % dimension}, func(n Position) {
			if mines[n.Row*dimension+n.Col] {
				count++
			}
		})
		master[idx] = count
	}
	return Layout{dimension: dimension, mines: mines, master: master, mineCount: mineCount}
}

// Dimension returns the side length of the board.
func (l Layout) Dimension() int { return l.dimension }

// MineCount returns the number of mines in this layout.
func (l Layout) MineCount() int { return l.mineCount }

// Contains reports whether p lies on the board.
func (l Layout) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < l.dimension && p.Col >= 0 && p.Col < l.dimension
}

// Value returns the master grid entry at p. p must be on the board.
func (l Layout) Value(p Position) Value {
	return l.master[l.index(p)]
}

// IsMine reports whether p holds a mine. p must be on the board.
func (l Layout) IsMine(p Position) bool {
	return l.mines[l.index(p)]
}

// MineIndices returns the row-major indices of every mine, ascending.
func (l Layout) MineIndices() []int {
	out := make([]int, 0, l.mineCount)
	for idx, mine := range l.mines {
		if mine {
			out = append(out, idx)
		}
	}
	return slices.Clip(out)
}

func (l Layout) index(p Position) int {
	return p.Row*l.dimension + p.Col
}
