package render

import (
	"fmt"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
)

// Grid lays out the glyph of each state of a table on a grid of Rows
// rows and Cols columns, with states enumerated row by row
type Grid struct {
	Rows, Cols int
	cells      []byte
}

// NewGrid returns the Grid of table. Holes and goals of task are
// marked, every other state shows the glyph of its greedy action.
func NewGrid(table agent.Greedy, task environment.Task, rows,
	cols int) (*Grid, error) {
	states, _ := table.Dims()
	if rows <= 0 || cols <= 0 || rows*cols != states {
		return nil, fmt.Errorf("newGrid: grid of shape (%d, %d) for %d "+
			"states", rows, cols, states)
	}

	cells := make([]byte, states)
	for s := range cells {
		switch {
		case task.AtGoal(s):
			cells[s] = GoalGlyph
		case task.Terminal(s):
			cells[s] = HoleGlyph
		default:
			glyph, err := Glyph(table.Greedy(s))
			if err != nil {
				return nil, fmt.Errorf("newGrid: state %d: %v", s, err)
			}
			cells[s] = glyph
		}
	}

	return &Grid{Rows: rows, Cols: cols, cells: cells}, nil
}

// At returns the glyph at row r and column c
func (g *Grid) At(r, c int) byte {
	return g.cells[r*g.Cols+c]
}

// Actions returns the action of each state, or -1 for holes and goals
func (g *Grid) Actions() []int {
	actions := make([]int, len(g.cells))
	for s, glyph := range g.cells {
		a, err := Action(glyph)
		if err != nil {
			a = -1
		}
		actions[s] = a
	}
	return actions
}
