package solver

// Grid is a dense periods x states table indexed by (t, x).
// Each cell is written once by the solver and read-only afterwards.
type Grid[T int | float64] struct {
	periods int
	states  int
	cells   []T
}

func newGrid[T int | float64](periods, states int) *Grid[T] {
	return &Grid[T]{
		periods: periods,
		states:  states,
		cells:   make([]T, periods*states),
	}
}

func (g *Grid[T]) Periods() int { return g.periods }

// States is X_total + 1 (inventory 0..X_total).
func (g *Grid[T]) States() int { return g.states }

func (g *Grid[T]) At(t, x int) T {
	return g.cells[t*g.states+x]
}

func (g *Grid[T]) set(t, x int, v T) {
	g.cells[t*g.states+x] = v
}

// row returns the live backing slice for period t.
func (g *Grid[T]) row(t int) []T {
	return g.cells[t*g.states : (t+1)*g.states]
}

// Row returns a copy of period t.
func (g *Grid[T]) Row(t int) []T {
	out := make([]T, g.states)
	copy(out, g.row(t))
	return out
}

// Rows copies the grid into a [][]T, one slice per period.
func (g *Grid[T]) Rows() [][]T {
	out := make([][]T, g.periods)
	for t := range out {
		out[t] = g.Row(t)
	}
	return out
}
