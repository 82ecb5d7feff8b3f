package board

import (
	"errors"
	"slices"
	"testing"
)

func TestMineCount(t *testing.T) {
	tests := []struct {
		dimension int
		want      int
	}{
		{dimension: 0, want: 0},
		{dimension: 1, want: 1},
		{dimension: 2, want: 1},
		{dimension: 3, want: 2},
		{dimension: 9, want: 13},
		{dimension: 10, want: 15},
		{dimension: 16, want: 39},
		{dimension: 20, want: 60},
	}
	for _, tt := range tests {
		if got := MineCount(tt.dimension); got != tt.want {
			t.Fatalf("MineCount(%d) = %d, want %d", tt.dimension, got, tt.want)
		}
	}
}

func TestGenerateRejectsNonPositiveDimension(t *testing.T) {
	for _, dimension := range []int{0, -1} {
		_, err := Generate(dimension, 1)
		if !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("Generate(%d) error = %v, want ErrInvalidDimension", dimension, err)
		}
	}
}

// TestGeneratePlacesExactMineCount checks mine totals and master grid
// counts across many sizes and seeds.
func TestGeneratePlacesExactMineCount(t *testing.T) {
	for dimension := 1; dimension <= 16; dimension++ {
		for seed := int64(0); seed < 8; seed++ {
			layout, err := Generate(dimension, seed)
			if err != nil {
				t.Fatalf("generate %d/%d: %v", dimension, seed, err)
			}
			mines := 0
			for _, mine := range layout.mines {
				if mine {
					mines++
				}
			}
			if mines != MineCount(dimension) || layout.MineCount() != mines {
				t.Fatalf("dimension %d seed %d: %d mines, want %d", dimension, seed, mines, MineCount(dimension))
			}
			if got := layout.MineIndices(); len(got) != mines || !slices.IsSorted(got) {
				t.Fatalf("dimension %d seed %d: unexpected mine indices %v", dimension, seed, got)
			}
			assertMasterGrid(t, layout)
		}
	}
}

func TestGenerateIsDeterministicPerSeed(t *testing.T) {
	first, err := Generate(12, 99)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := Generate(12, 99)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !slices.Equal(first.MineIndices(), second.MineIndices()) {
		t.Fatalf("same seed produced different layouts: %v vs %v", first.MineIndices(), second.MineIndices())
	}
}

func TestLayoutFromMinesMasterGrid(t *testing.T) {
	layout, err := LayoutFromMines(3, []int{0})
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	want := [][]Value{
		{Mine, 1, 0},
		{1, 1, 0},
		{0, 0, 0},
	}
	for row := range want {
		for col := range want[row] {
			if got := layout.Value(Position{Row: row, Col: col}); got != want[row][col] {
				t.Fatalf("value at (%d, %d) = %d, want %d", row, col, got, want[row][col])
			}
		}
	}
	if !layout.IsMine(Position{Row: 0, Col: 0}) {
		t.Fatal("expected mine at (0, 0)")
	}
	assertMasterGrid(t, layout)
}

func TestLayoutFromMinesRejectsBadIndices(t *testing.T) {
	tests := []struct {
		name      string
		dimension int
		indices   []int
		want      error
	}{
		{name: "zero dimension", dimension: 0, indices: nil, want: ErrInvalidDimension},
		{name: "negative index", dimension: 3, indices: []int{-1}, want: ErrInvalidLayout},
		{name: "index past end", dimension: 3, indices: []int{9}, want: ErrInvalidLayout},
		{name: "duplicate", dimension: 3, indices: []int{4, 4}, want: ErrInvalidLayout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LayoutFromMines(tt.dimension, tt.indices)
			if !errors.Is(err, tt.want) {
				t.Fatalf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLayoutFromMinesAllowsEmptyBoard(t *testing.T) {
	layout, err := LayoutFromMines(4, nil)
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if layout.MineCount() != 0 {
		t.Fatalf("mine count = %d, want 0", layout.MineCount())
	}
	for _, value := range layout.master {
		if value != 0 {
			t.Fatalf("expected all-zero master grid, got %v", layout.master)
		}
	}
}

// assertMasterGrid recomputes every count by brute force and cross-checks
// the total against mine/safe adjacency.
func assertMasterGrid(t *testing.T, layout Layout) {
	t.Helper()
	n := layout.Dimension()
	safeTotal := 0
	adjacentPairs := 0
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			p := Position{Row: row, Col: col}
			mines := 0
			safe := 0
			for dr := -1; dr <= 1; dr++ {
				for dc := -1; dc <= 1; dc++ {
					r, c := row+dr, col+dc
					if (dr == 0 && dc == 0) || r < 0 || c < 0 || r >= n || c >= n {
						continue
					}
					if layout.IsMine(Position{Row: r, Col: c}) {
						mines++
					} else {
						safe++
					}
				}
			}
			if layout.IsMine(p) {
				if layout.Value(p) != Mine {
					t.Fatalf("mine at %s has value %d", p, layout.Value(p))
				}
				adjacentPairs += safe
				continue
			}
			if int(layout.Value(p)) != mines {
				t.Fatalf("value at %s = %d, want %d", p, layout.Value(p), mines)
			}
			safeTotal += mines
		}
	}
	if safeTotal != adjacentPairs {
		t.Fatalf("sum of counts %d != mine/safe adjacencies %d", safeTotal, adjacentPairs)
	}
}
