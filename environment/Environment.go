// Package environment outlines the interfaces and structs needed to
// implement concrete finite environments that tabular agents interact
// with
package environment

import (
	"github.com/samuelfneumann/tabular/timestep"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() int
}

// Ender determines when episodes should be ended. If End returns true,
// it also modifies the argument TimeStep so that its StepType is
// timestep.Last and its EndType describes why the episode ended.
type Ender interface {
	End(t *timestep.TimeStep) bool
}

// ActionSampler samples a uniformly random valid action
type ActionSampler interface {
	SampleAction() int
}

// Environment implements a finite environment with discrete states and
// discrete actions. States are enumerated (0, 1, ..., States()-1) and
// actions are enumerated (0, 1, ..., Actions()-1). Both counts are fixed
// when the Environment is constructed.
//
// The Reward of TimeSteps returned by an Environment is the environment's
// own reward signal. Agents in this module ignore it in favour of the
// reward given by a Task.
type Environment interface {
	ActionSampler
	States() int
	Actions() int

	// Reset resets the environment between episodes and returns the
	// first timestep of the new episode
	Reset() (timestep.TimeStep, error)

	// Step takes an action in the environment and returns the next
	// timestep as well as whether the episode has ended
	Step(action int) (timestep.TimeStep, bool, error)
}
