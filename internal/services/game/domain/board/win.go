package board

// HasWon reports whether every mine cell is flagged. Flags on safe cells and
// safe cells left hidden do not matter.
func HasWon(layout Layout, visible Grid) bool {
	n := layout.Dimension()
	for _, idx := range layout.MineIndices() {
		if visible[idx/n][idx%n].State != Flagged {
			return false
		}
	}
	return true
}
