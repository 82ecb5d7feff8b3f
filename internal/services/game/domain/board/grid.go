package board

import "fmt"

// Position addresses one cell by zero-based row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// String renders the position as "(row, col)".
func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Value is a master grid entry: the number of adjacent mines, or Mine.
type Value int8

// Mine marks a master grid cell that holds a mine.
const Mine Value = -1

// IsMine reports whether v is the mine marker.
func (v Value) IsMine() bool { return v == Mine }

// CellState is what the player can see of a cell.
type CellState uint8

const (
	// Hidden cells show nothing.
	Hidden CellState = iota
	// Flagged cells carry a player flag.
	Flagged
	// Revealed cells show their master value.
	Revealed
)

// String returns a lowercase label for the state.
func (s CellState) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Flagged:
		return "flagged"
	case Revealed:
		return "revealed"
	default:
		return fmt.Sprintf("CellState(%d)", uint8(s))
	}
}

// Cell is one entry of the visible grid. Value is meaningful only when the
// cell is Revealed.
type Cell struct {
	State CellState
	Value Value
}

// Grid is a square visible grid indexed [row][col].
type Grid [][]Cell

func newHiddenGrid(dimension int) Grid {
	cells := make([]Cell, dimension*dimension)
	grid := make(Grid, dimension)
	for row := range grid {
		grid[row] = cells[row*dimension : (row+1)*dimension : (row+1)*dimension]
	}
	return grid
}

// Clone returns a deep copy of the grid.
func (g Grid) Clone() Grid {
	out := newHiddenGrid(len(g))
	for row := range g {
		copy(out[row], g[row])
	}
	return out
}

func (g Grid) at(p Position) *Cell {
	return &g[p.Row][p.Col]
}

// Phase is the lifecycle state of a game.
type Phase uint8

const (
	// PhasePlaying accepts commands.
	PhasePlaying Phase = iota
	// PhaseWon is terminal: every mine is flagged.
	PhaseWon
	// PhaseLost is terminal: a mine was opened or the board was given up.
	PhaseLost
)

// String returns the uppercase phase label.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "PLAYING"
	case PhaseWon:
		return "WON"
	case PhaseLost:
		return "LOST"
	default:
		return fmt.Sprintf("Phase(%d)", uint8(p))
	}
}

// Terminal reports whether no further moves are accepted.
func (p Phase) Terminal() bool {
	switch p {
	case PhasePlaying:
		return false
	case PhaseWon, PhaseLost:
		return true
	default:
		panic(fmt.Sprintf("board: unknown phase %d", uint8(p)))
	}
}

// neighbours calls fn for each in-bounds cell adjacent to p.
func neighbours(dimension int, p Position, fn func(Position)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Position{Row: p.Row + dr, Col: p.Col + dc}
			if n.Row < 0 || n.Row >= dimension || n.Col < 0 || n.Col >= dimension {
				continue
			}
			fn(n)
		}
	}
}
