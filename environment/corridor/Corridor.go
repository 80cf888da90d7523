// Package corridor implements a deterministic corridor environment.
//
// The agent starts at the left end of a corridor of cells 0, 1, ...,
// Length. Taking the Forward action moves the agent one cell to the
// right. Every other action drops the agent into a pit, which ends the
// episode. Reaching cell Length also ends the episode. The optimal
// policy is therefore to always take Forward.
package corridor

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/timestep"
)

// Forward is the only action which does not end the episode in the pit
const Forward int = 1

// Corridor implements a corridor environment
type Corridor struct {
	length  int
	actions int
	pos     int
	steps   int
	rng     *rand.Rand
}

// New returns a new Corridor of the given length with the given number
// of actions
func New(length, actions int, seed uint64) (*Corridor, error) {
	if length < 1 {
		return nil, fmt.Errorf("new: %w: corridor length %d < 1",
			environment.ErrInvalidConfig, length)
	}
	if actions <= Forward {
		return nil, fmt.Errorf("new: %w: corridor needs more than %d "+
			"actions", environment.ErrInvalidConfig, Forward)
	}

	return &Corridor{
		length:  length,
		actions: actions,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// Goal returns the goal state
func (c *Corridor) Goal() int {
	return c.length
}

// Pit returns the state of the pit
func (c *Corridor) Pit() int {
	return c.length + 1
}

// Task returns the Task of reaching the end of the corridor
func (c *Corridor) Task() *environment.TerminalSet {
	// The pit and goal are distinct and non-negative by construction
	task, _ := environment.NewTerminalSet([]int{c.Pit()}, []int{c.Goal()})
	return task
}

// States returns the number of states, the corridor cells and the pit
func (c *Corridor) States() int {
	return c.length + 2
}

// Actions returns the number of actions
func (c *Corridor) Actions() int {
	return c.actions
}

// SampleAction returns a uniformly random action
func (c *Corridor) SampleAction() int {
	return c.rng.Intn(c.actions)
}

// Reset moves the agent back to the start of the corridor
func (c *Corridor) Reset() (timestep.TimeStep, error) {
	c.pos = 0
	c.steps = 0
	return timestep.New(timestep.First, 0, 1, c.pos, 0), nil
}

// Step takes action in the corridor
func (c *Corridor) Step(action int) (timestep.TimeStep, bool, error) {
	if action < 0 || action >= c.actions {
		return timestep.TimeStep{}, false, fmt.Errorf("step: illegal "+
			"action %d", action)
	}
	if c.pos >= c.length {
		return timestep.TimeStep{}, false, fmt.Errorf("step: episode " +
			"already ended")
	}

	c.steps++
	if action == Forward {
		c.pos++
	} else {
		c.pos = c.Pit()
	}

	done := c.pos >= c.length
	reward := 0.0
	if c.pos == c.length {
		reward = 1.0
	}

	t := timestep.New(timestep.Mid, reward, 1, c.pos, c.steps)
	if done {
		t.StepType = timestep.Last
		t.SetEnd(timestep.TerminalStateReached)
	}
	return t, done, nil
}
