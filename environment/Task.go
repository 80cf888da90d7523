package environment

import (
	"fmt"
	"sort"
)

const (
	GoalReward float64 = 1.0
	HoleReward float64 = -1.0
	StepReward float64 = 0.0
)

// Task implements the reward scheme for transitions in some environment.
// A Task overrides whatever reward the environment itself returns.
type Task interface {
	// GetReward returns the reward for a transition that results in
	// state next
	GetReward(next int) float64

	// Terminal returns whether state is a terminal state of the Task
	Terminal(state int) bool

	// AtGoal returns whether state is a success terminal
	AtGoal(state int) bool

	// Terminals returns all terminal states of the Task in increasing
	// order
	Terminals() []int
}

// TerminalSet is a Task whose terminal states are partitioned into
// holes (failure terminals) and goals (success terminals). Entering a
// goal is rewarded with GoalReward, entering a hole with HoleReward and
// any other transition with StepReward. A TerminalSet is immutable once
// created.
type TerminalSet struct {
	holes map[int]struct{}
	goal  map[int]struct{}
}

// NewTerminalSet returns a new TerminalSet. States may not be negative
// and no state may be both a hole and a goal.
func NewTerminalSet(holes, goal []int) (*TerminalSet, error) {
	t := &TerminalSet{
		holes: make(map[int]struct{}, len(holes)),
		goal:  make(map[int]struct{}, len(goal)),
	}

	for _, h := range holes {
		if h < 0 {
			return nil, fmt.Errorf("newTerminalSet: %w: hole state %d < 0",
				ErrInvalidConfig, h)
		}
		t.holes[h] = struct{}{}
	}

	for _, g := range goal {
		if g < 0 {
			return nil, fmt.Errorf("newTerminalSet: %w: goal state %d < 0",
				ErrInvalidConfig, g)
		}
		if _, ok := t.holes[g]; ok {
			return nil, fmt.Errorf("newTerminalSet: %w: state %d cannot "+
				"be both a hole and a goal", ErrInvalidConfig, g)
		}
		t.goal[g] = struct{}{}
	}

	return t, nil
}

// GetReward returns the shaped reward for entering state next
func (t *TerminalSet) GetReward(next int) float64 {
	if t.AtGoal(next) {
		return GoalReward
	} else if t.AtHole(next) {
		return HoleReward
	}
	return StepReward
}

// AtGoal returns whether state is a goal state
func (t *TerminalSet) AtGoal(state int) bool {
	_, ok := t.goal[state]
	return ok
}

// AtHole returns whether state is a hole
func (t *TerminalSet) AtHole(state int) bool {
	_, ok := t.holes[state]
	return ok
}

// Terminal returns whether state is either a hole or a goal
func (t *TerminalSet) Terminal(state int) bool {
	return t.AtGoal(state) || t.AtHole(state)
}

// Holes returns the hole states in increasing order
func (t *TerminalSet) Holes() []int {
	return sorted(t.holes)
}

// Goal returns the goal states in increasing order
func (t *TerminalSet) Goal() []int {
	return sorted(t.goal)
}

// Terminals returns all terminal states in increasing order
func (t *TerminalSet) Terminals() []int {
	states := append(t.Holes(), t.Goal()...)
	sort.Ints(states)
	return states
}

func (t *TerminalSet) String() string {
	return fmt.Sprintf("TerminalSet | Holes: %v  |  Goal: %v", t.Holes(),
		t.Goal())
}

func sorted(set map[int]struct{}) []int {
	states := make([]int, 0, len(set))
	for s := range set {
		states = append(states, s)
	}
	sort.Ints(states)
	return states
}
