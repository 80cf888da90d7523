package gridworld

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/tabular/environment"
)

// Cell types of a Lake
const (
	Start  byte = 'S'
	Frozen byte = 'F'
	Hole   byte = 'H'
	Goal   byte = 'G'
)

// FrozenLake4x4 is the default 4x4 frozen lake map
var FrozenLake4x4 = []string{
	"SFFF",
	"FHFH",
	"FFFH",
	"HFFG",
}

// FrozenLake10x10 is an extended 10x10 map with 25 holes and a single goal
var FrozenLake10x10 = []string{
	"SFFFFHFFFF",
	"FFHFFFHFFF",
	"FHFFHFFFFF",
	"FFFFHFFHFF",
	"HFFFFHFFFH",
	"FFHHFFHHFF",
	"FHFFFFHFHF",
	"FFHFFHFHFF",
	"HFFFFHFFHF",
	"HFFHFFFFFG",
}

// Lake is a rectangular map of cells. Cell (row, col) is state
// row*cols + col, so that row 0 is the top of the map.
type Lake struct {
	cells []byte
	r, c  int
}

// NewLake parses a Lake from its rows. Each row must have the same
// length and only contain the cells 'S', 'F', 'H', and 'G'. A Lake
// needs at least one starting cell.
func NewLake(rows []string) (*Lake, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("newLake: %w: map has no rows",
			environment.ErrInvalidConfig)
	}

	c := len(rows[0])
	if c == 0 {
		return nil, fmt.Errorf("newLake: %w: map has no columns",
			environment.ErrInvalidConfig)
	}

	cells := make([]byte, 0, len(rows)*c)
	starts := 0
	for i, row := range rows {
		row = strings.ToUpper(strings.TrimSpace(row))
		if len(row) != c {
			return nil, fmt.Errorf("newLake: %w: row %d has length %d, "+
				"want %d", environment.ErrInvalidConfig, i, len(row), c)
		}

		for j := 0; j < len(row); j++ {
			switch row[j] {
			case Start:
				starts++
			case Frozen, Hole, Goal:
			default:
				return nil, fmt.Errorf("newLake: %w: unknown cell %q at "+
					"(%d, %d)", environment.ErrInvalidConfig, row[j], i, j)
			}
			cells = append(cells, row[j])
		}
	}

	if starts == 0 {
		return nil, fmt.Errorf("newLake: %w: map has no starting cell",
			environment.ErrInvalidConfig)
	}

	return &Lake{cells, len(rows), c}, nil
}

// Dims gets the rows and columns of the Lake
func (l *Lake) Dims() (r, c int) {
	return l.r, l.c
}

// States returns the number of cells in the Lake
func (l *Lake) States() int {
	return len(l.cells)
}

// At returns the cell type of state
func (l *Lake) At(state int) byte {
	return l.cells[state]
}

// Starts returns the starting states of the Lake
func (l *Lake) Starts() []int {
	return l.find(Start)
}

// Holes returns the hole states of the Lake
func (l *Lake) Holes() []int {
	return l.find(Hole)
}

// Goals returns the goal states of the Lake
func (l *Lake) Goals() []int {
	return l.find(Goal)
}

// Task returns the TerminalSet made up of the Lake's holes and goals
func (l *Lake) Task() *environment.TerminalSet {
	// Holes and goals are disjoint and non-negative by construction
	t, _ := environment.NewTerminalSet(l.Holes(), l.Goals())
	return t
}

func (l *Lake) String() string {
	var b strings.Builder
	for i := 0; i < l.r; i++ {
		b.Write(l.cells[i*l.c : (i+1)*l.c])
		if i < l.r-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (l *Lake) find(cell byte) []int {
	var states []int
	for i, c := range l.cells {
		if c == cell {
			states = append(states, i)
		}
	}
	return states
}
