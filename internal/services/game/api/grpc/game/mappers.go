package game

import (
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/louisbranch/minefield/internal/services/game/domain/board"
	gamei18n "github.com/louisbranch/minefield/internal/services/game/i18n"
	"github.com/louisbranch/minefield/internal/services/game/storage"
)

// Row glyphs used by RenderRows.
const (
	glyphHidden  = '#'
	glyphFlagged = 'F'
	glyphZero    = '.'
	glyphMine    = '*'
)

func gameToResponse(id string, createdAt time.Time, snap board.Snapshot, printer *message.Printer) *Game {
	cells := make([][]CellView, len(snap.Cells))
	for row, line := range snap.Cells {
		cells[row] = make([]CellView, len(line))
		for col, cell := range line {
			cells[row][col] = cellToView(cell)
		}
	}
	return &Game{
		GameID:         id,
		Dimension:      int32(snap.Dimension),
		MineCount:      int32(snap.MineCount),
		RemainingFlags: int32(snap.RemainingFlags),
		Phase:          snap.Phase.String(),
		Status:         gamei18n.StatusLine(printer, snap.Phase, snap.RemainingFlags),
		Cells:          cells,
		Rows:           RenderRows(snap.Cells),
		CreatedAt:      createdAt,
	}
}

func gameToSummary(id string, createdAt time.Time, snap board.Snapshot) *GameSummary {
	return &GameSummary{
		GameID:         id,
		Dimension:      int32(snap.Dimension),
		MineCount:      int32(snap.MineCount),
		RemainingFlags: int32(snap.RemainingFlags),
		Phase:          snap.Phase.String(),
		CreatedAt:      createdAt,
	}
}

func cellToView(cell board.Cell) CellView {
	view := CellView{State: cell.State.String()}
	if cell.State != board.Revealed {
		return view
	}
	if cell.Value.IsMine() {
		view.Mine = true
		return view
	}
	view.Value = int32(cell.Value)
	return view
}

// RenderRows draws the visible grid as one string per row: '#' hidden,
// 'F' flagged, '.' an empty revealed cell, '1'-'8' a revealed count, and
// '*' a revealed mine.
func RenderRows(grid board.Grid) []string {
	rows := make([]string, len(grid))
	var b strings.Builder
	for r, line := range grid {
		b.Reset()
		for _, cell := range line {
			b.WriteRune(cellGlyph(cell))
		}
		rows[r] = b.String()
	}
	return rows
}

func cellGlyph(cell board.Cell) rune {
	switch cell.State {
	case board.Hidden:
		return glyphHidden
	case board.Flagged:
		return glyphFlagged
	}
	switch {
	case cell.Value.IsMine():
		return glyphMine
	case cell.Value == 0:
		return glyphZero
	default:
		return rune('0' + cell.Value)
	}
}

func auditEventToResponse(evt storage.AuditEvent) *AuditEvent {
	return &AuditEvent{
		Seq:        evt.Seq,
		Timestamp:  evt.Timestamp,
		EventName:  evt.EventName,
		Severity:   evt.Severity,
		GameID:     evt.GameID,
		Method:     evt.Method,
		Code:       evt.Code,
		TraceID:    evt.TraceID,
		SpanID:     evt.SpanID,
		Attributes: evt.Attributes,
	}
}
