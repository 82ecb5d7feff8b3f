package board

// Snapshot is a consistent copy of an engine's observable state.
type Snapshot struct {
	Dimension      int
	MineCount      int
	RemainingFlags int
	Phase          Phase
	Cells          Grid
}

// Engine owns the state of one game: the layout, the visible grid, the flag
// budget, and the phase. Commands on a finished game leave it unchanged.
type Engine struct {
	layout         Layout
	visible        Grid
	remainingFlags int
	phase          Phase
}

// New starts a game on a freshly generated layout.
func New(dimension int, seed int64) (*Engine, error) {
	layout, err := Generate(dimension, seed)
	if err != nil {
		return nil, err
	}
	return NewWithLayout(layout)
}

// NewWithLayout starts a game on a fixed layout.
func NewWithLayout(layout Layout) (*Engine, error) {
	if layout.dimension <= 0 {
		return nil, ErrInvalidLayout
	}
	return &Engine{
		layout:         layout,
		visible:        newHiddenGrid(layout.dimension),
		remainingFlags: layout.mineCount,
		phase:          PhasePlaying,
	}, nil
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase { return e.phase }

// RemainingFlags returns how many flags may still be placed.
func (e *Engine) RemainingFlags() int { return e.remainingFlags }

// VisibleGrid returns a copy of what the player can see.
func (e *Engine) VisibleGrid() Grid { return e.visible.Clone() }

// Snapshot copies the observable state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Dimension:      e.layout.Dimension(),
		MineCount:      e.layout.MineCount(),
		RemainingFlags: e.RemainingFlags(),
		Phase:          e.Phase(),
		Cells:          e.VisibleGrid(),
	}
}

// Open reveals the cell at p. Opening a flagged cell returns its flag to the
// budget before anything else. A mine loses the game and reveals the board;
// a zero cell opens its whole zero component and the numbers around it.
func (e *Engine) Open(p Position) (Snapshot, error) {
	if !e.layout.Contains(p) {
		return Snapshot{}, outOfBounds(p, e.layout.dimension)
	}
	if e.phase.Terminal() {
		return e.Snapshot(), nil
	}

	cell := e.visible.at(p)
	if cell.State == Flagged {
		e.remainingFlags++
		cell.State = Hidden
	}

	switch {
	case e.layout.IsMine(p):
		e.phase = PhaseLost
		e.revealAll()
	case e.layout.Value(p) == 0:
		for _, n := range Propagate(e.layout, e.visible, p) {
			e.reveal(n)
		}
		e.reveal(p)
	default:
		e.reveal(p)
	}
	return e.Snapshot(), nil
}

// ToggleFlag flags a hidden cell while the budget allows, or unflags a
// flagged one. Revealed cells are left alone. Flagging every mine wins.
func (e *Engine) ToggleFlag(p Position) (Snapshot, error) {
	if !e.layout.Contains(p) {
		return Snapshot{}, outOfBounds(p, e.layout.dimension)
	}
	if e.phase.Terminal() {
		return e.Snapshot(), nil
	}

	cell := e.visible.at(p)
	switch cell.State {
	case Hidden:
		if e.remainingFlags > 0 {
			cell.State = Flagged
			e.remainingFlags--
		}
	case Flagged:
		cell.State = Hidden
		e.remainingFlags++
	case Revealed:
	}

	if HasWon(e.layout, e.visible) {
		e.phase = PhaseWon
		e.revealAll()
	}
	return e.Snapshot(), nil
}

// ForceReveal gives up: the whole board is revealed and the game is lost,
// whatever phase it was in.
func (e *Engine) ForceReveal() Snapshot {
	e.phase = PhaseLost
	e.revealAll()
	return e.Snapshot()
}

func (e *Engine) reveal(p Position) {
	*e.visible.at(p) = Cell{State: Revealed, Value: e.layout.Value(p)}
}

// revealAll maps every master value onto the visible grid, replacing flags.
func (e *Engine) revealAll() {
	for idx, value := range e.layout.master {
		e.visible[idx/e.layout.dimension][idx%e.layout.dimension] = Cell{State: Revealed, Value: value}
	}
}
