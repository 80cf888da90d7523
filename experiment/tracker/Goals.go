package tracker

import (
	"github.com/samuelfneumann/tabular/timestep"
)

// Goals tracks whether each episode ended at a goal, recording 1 for
// episodes that did and 0 for episodes that did not
type Goals struct {
	reached  []float64
	count    int
	filename string
}

// NewGoals returns a new Goals tracker which will save its data at the
// specified location filename
func NewGoals(filename string) *Goals {
	return &Goals{filename: filename}
}

// Track records the outcome of an episode on its last timestep
func (g *Goals) Track(t timestep.TimeStep) {
	if !t.Last() {
		return
	}

	if t.EndType() == timestep.Goal {
		g.reached = append(g.reached, 1)
		g.count++
	} else {
		g.reached = append(g.reached, 0)
	}
}

// Count returns the number of episodes which ended at a goal
func (g *Goals) Count() int {
	return g.count
}

// Data returns 1 for each finished episode that ended at a goal and 0
// otherwise
func (g *Goals) Data() []float64 {
	data := make([]float64, len(g.reached))
	copy(data, g.reached)
	return data
}

// Name returns the name of the tracked data
func (g *Goals) Name() string {
	return "goal"
}

// Save saves the data tracked by the Goals Tracker to disk.
func (g *Goals) Save() error {
	return save(g.filename, g.reached)
}
