package board

// Propagate returns the cells, excluding origin, that open together with
// origin when its master value is 0. It walks the zero-valued component
// around origin and collects the numbered cells on its border. Only Hidden
// cells take part; flagged and revealed cells are neither returned nor
// expanded, and mines are never returned. Each cell is visited at most once.
//
// When origin is off the board or is not a zero cell the result is empty.
func Propagate(layout Layout, visible Grid, origin Position) []Position {
	if !layout.Contains(origin) || layout.Value(origin) != 0 {
		return nil
	}

	visited := make([]bool, layout.dimension*layout.dimension)
	visited[layout.index(origin)] = true
	stack := []Position{origin}
	var out []Position

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		neighbours(layout.dimension, current, func(n Position) {
			idx := layout.index(n)
			if visited[idx] {
				return
			}
			visited[idx] = true
			if visible.at(n).State != Hidden {
				return
			}
			switch value := layout.master[idx]; {
			case value == Mine:
			case value == 0:
				out = append(out, n)
				stack = append(stack, n)
			default:
				out = append(out, n)
			}
		})
	}
	return out
}
