// Package agent defines the interfaces of tabular control agents and the
// types they share
package agent

import (
	"encoding"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/tabular/experiment/tracker"
	"github.com/samuelfneumann/tabular/timestep"
)

// Agent determines the implementation details of a tabular control
// algorithm.
//
// An Agent owns its value table (and policy) for the duration of a
// training run. Episodes are run strictly one after another with
// RunEpisode, so that the updates of one episode are visible to the
// next. If an episode fails, the whole run is invalidated and every
// later call to RunEpisode returns ErrInvalidated.
type Agent interface {
	// RunEpisode runs the next episode and returns its result
	RunEpisode() (EpisodeResult, error)

	// Done returns whether all configured episodes have been run
	Done() bool

	// Register registers a Tracker which is sent every TimeStep the
	// Agent sees
	Register(t tracker.Tracker)

	// SetLogger sets the logger used by the Agent
	SetLogger(l logrus.FieldLogger)

	// Snapshot returns a read-only view of what the Agent has learned
	Snapshot() Snapshot

	// Evaluator returns the Selector used to evaluate the Agent after
	// training
	Evaluator() Selector
}

// TdErrorer is an Agent that can return the TD error of some transition
type TdErrorer interface {
	Agent

	// TdError returns the TD error on a transition
	TdError(t timestep.Transition) float64
}

// Selector selects actions in states
type Selector interface {
	SelectAction(state int) (int, error)
}

// Greedy is a table of states and actions that has a greedy action in
// each state
type Greedy interface {
	Greedy(state int) int
	Dims() (states, actions int)
}

// Snapshot is what an agent has learned. It is either a value table or
// a policy table and can be serialized for checkpointing.
type Snapshot interface {
	Greedy
	encoding.BinaryMarshaler
}
