// Package policy implements the behaviour policies of tabular agents
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular"
	"github.com/samuelfneumann/tabular/environment"
)

// EGreedy implements an epsilon greedy policy over a ValueTable. With
// probability 1 - epsilon the greedy action is selected, with ties
// broken by the lowest action index. Otherwise, an action is sampled
// uniformly from the ActionSampler.
//
// The ValueTable is not copied, so that updates to the table are seen
// by the policy immediately.
type EGreedy struct {
	table   *tabular.ValueTable
	epsilon float64
	sampler environment.ActionSampler
	rng     *rand.Rand
}

// NewEGreedy returns a new EGreedy policy over table
func NewEGreedy(table *tabular.ValueTable, epsilon float64,
	sampler environment.ActionSampler, seed uint64) (*EGreedy, error) {
	if table == nil {
		return nil, fmt.Errorf("newEGreedy: %w: nil value table",
			agent.ErrInvalidConfig)
	}
	if !(epsilon >= 0 && epsilon <= 1) {
		return nil, fmt.Errorf("newEGreedy: %w: epsilon %v not in [0, 1]",
			agent.ErrInvalidConfig, epsilon)
	}
	if epsilon > 0 && sampler == nil {
		return nil, fmt.Errorf("newEGreedy: %w: nil action sampler",
			agent.ErrInvalidConfig)
	}

	return &EGreedy{
		table:   table,
		epsilon: epsilon,
		sampler: sampler,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

// NewGreedy returns a new greedy policy over table
func NewGreedy(table *tabular.ValueTable) (*EGreedy, error) {
	return NewEGreedy(table, 0.0, nil, 0)
}

// SetEpsilon sets the value of epsilon
func (e *EGreedy) SetEpsilon(epsilon float64) error {
	if !(epsilon >= 0 && epsilon <= 1) {
		return fmt.Errorf("setEpsilon: %w: epsilon %v not in [0, 1]",
			agent.ErrInvalidConfig, epsilon)
	}
	if epsilon > 0 && e.sampler == nil {
		return fmt.Errorf("setEpsilon: %w: greedy policy has no action "+
			"sampler", agent.ErrInvalidConfig)
	}
	e.epsilon = epsilon
	return nil
}

// Epsilon returns the value of epsilon
func (e *EGreedy) Epsilon() float64 {
	return e.epsilon
}

// SelectAction selects an action in state
func (e *EGreedy) SelectAction(state int) (int, error) {
	states, actions := e.table.Dims()
	if state < 0 || state >= states {
		return 0, fmt.Errorf("selectAction: %w: state %d not in [0, %d)",
			agent.ErrContractViolation, state, states)
	}

	if e.epsilon == 0 || e.rng.Float64() >= e.epsilon {
		return e.table.Greedy(state), nil
	}

	action := e.sampler.SampleAction()
	if action < 0 || action >= actions {
		return 0, fmt.Errorf("selectAction: %w: sampled action %d not in "+
			"[0, %d)", agent.ErrContractViolation, action, actions)
	}
	return action, nil
}

// Greedy returns the greedy action in state
func (e *EGreedy) Greedy(state int) int {
	return e.table.Greedy(state)
}

// Dims returns the number of states and actions of the policy
func (e *EGreedy) Dims() (states, actions int) {
	return e.table.Dims()
}
