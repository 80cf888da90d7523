// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType describes why an episode ended. Only TimeSteps with StepType
// Last carry an EndType other than NotEnded.
type EndType int

const (
	NotEnded EndType = iota

	// Goal means the episode ended in a success terminal
	Goal

	// Hole means the episode ended in a failure terminal
	Hole

	// TerminalStateReached means the environment reported termination
	// in a state that is neither a goal nor a hole
	TerminalStateReached

	// Timeout means the episode was cut off by a step limit
	Timeout
)

func (e EndType) String() string {
	switch e {
	case Goal:
		return "Goal"
	case Hole:
		return "Hole"
	case TerminalStateReached:
		return "TerminalStateReached"
	case Timeout:
		return "Timeout"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep in an environment. State
// is the index of the discrete state observed on the timestep and Reward
// is the reward received on entering State.
type TimeStep struct {
	StepType
	Reward   float64
	Discount float64
	State    int
	Number   int
	endType  EndType
}

// New returns a new TimeStep
func New(t StepType, r, d float64, state, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Discount: d, State: state,
		Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd sets the reason for which the episode ended
func (t *TimeStep) SetEnd(e EndType) {
	t.endType = e
}

// EndType returns the reason for which the episode ended
func (t *TimeStep) EndType() EndType {
	return t.endType
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  State: %d  |  Reward:  %.2f  |  " +
		"Discount: %.2f  |  Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.State, t.Reward, t.Discount,
		t.Number, t.endType)
}

// Transition is a single (S, A, R, γ, S', A') tuple. NextAction is only
// meaningful for on-policy learners.
type Transition struct {
	State      int
	Action     int
	Reward     float64
	Discount   float64
	NextState  int
	NextAction int
}

// NewTransition returns a Transition from the timestep on which action
// was taken to the timestep that followed it
func NewTransition(step TimeStep, action int, next TimeStep,
	nextAction int) Transition {
	return Transition{
		State:      step.State,
		Action:     action,
		Reward:     next.Reward,
		Discount:   next.Discount,
		NextState:  next.State,
		NextAction: nextAction,
	}
}
