// Package montecarlo implements first-visit Monte Carlo control without
// exploring starts.
//
// Each episode is rolled out under an epsilon-soft policy. The episode
// is then scanned backward, accumulating the return
//
//	G ← G + γ·r
//
// and, for the first visit of each state-action pair in the episode,
// the return is appended to the pair's ledger, the pair's value is set
// to the mean of the ledger and the policy in that state is improved
// immediately.
//
// The return is not the conventional discounted return: every reward is
// discounted exactly once, so a single-step episode with reward r has a
// return of γ·r.
package montecarlo

import (
	"fmt"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular"
	"github.com/samuelfneumann/tabular/agent/tabular/policy"
	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/utils/matutils/initializers/weights"
)

// Step is a single step of an episode trace: the action taken in State
// and the shaped reward received for it
type Step struct {
	State  int
	Action int
	Reward float64
}

type pair struct {
	state, action int
}

// MonteCarlo implements first-visit Monte Carlo control
type MonteCarlo struct {
	*tabular.Runner
	config  Config
	table   *tabular.ValueTable
	policy  *policy.Soft
	returns *Returns
	trace   []Step
	episode int
}

// New creates a new MonteCarlo agent whose initial policy selects
// actions uniformly at random
func New(env environment.Environment, task environment.Task, config Config,
	seed uint64) (*MonteCarlo, error) {
	if env == nil {
		return nil, fmt.Errorf("new: %w: nil environment",
			agent.ErrInvalidConfig)
	}
	if env.Actions() <= 0 {
		return nil, fmt.Errorf("new: %w", agent.ErrEmptyActionSet)
	}

	initial, err := policy.NewSoft(env.States(), env.Actions(), seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}
	return NewWithPolicy(env, task, config, initial)
}

// NewWithPolicy creates a new MonteCarlo agent which improves the
// argument initial policy in place
func NewWithPolicy(env environment.Environment, task environment.Task,
	config Config, initial *policy.Soft) (*MonteCarlo, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newWithPolicy: %w", err)
	}
	if initial == nil {
		return nil, fmt.Errorf("newWithPolicy: %w: nil policy",
			agent.ErrInvalidConfig)
	}

	runner, err := tabular.NewRunner(env, task, config.Discount,
		config.MaxSteps)
	if err != nil {
		return nil, fmt.Errorf("newWithPolicy: %w", err)
	}

	states, actions := runner.States(), runner.Actions()
	if s, a := initial.Dims(); s != states || a != actions {
		return nil, fmt.Errorf("newWithPolicy: %w: policy of shape (%d, %d) "+
			"for environment of shape (%d, %d)", agent.ErrInvalidConfig, s, a,
			states, actions)
	}

	table, err := tabular.NewValueTable(states, actions, weights.NewZero(),
		task.Terminals())
	if err != nil {
		return nil, fmt.Errorf("newWithPolicy: %w", err)
	}

	return &MonteCarlo{
		Runner:  runner,
		config:  config,
		table:   table,
		policy:  initial,
		returns: NewReturns(states, actions),
	}, nil
}

// Config returns the configuration of the agent
func (m *MonteCarlo) Config() Config {
	return m.config
}

// Done returns whether all configured episodes have been run
func (m *MonteCarlo) Done() bool {
	return m.episode >= m.config.Episodes
}

// RunEpisode rolls out the next episode under the current policy and
// then improves the policy from the episode's first-visit returns
func (m *MonteCarlo) RunEpisode() (agent.EpisodeResult, error) {
	if err := m.Check(); err != nil {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w", err)
	}
	if m.Done() {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w",
			agent.ErrDone)
	}

	params := agent.EpisodeParams{Index: m.episode, Epsilon: m.config.Epsilon}
	result, err := m.rollout(params)
	if err == nil {
		err = m.improve()
	}
	if err != nil {
		return agent.EpisodeResult{}, m.Fail(fmt.Errorf("runEpisode: %w",
			err))
	}

	m.episode++
	m.EndEpisode(result)
	return result, nil
}

// rollout runs an episode under the current policy and records its
// trace
func (m *MonteCarlo) rollout(params agent.EpisodeParams) (
	agent.EpisodeResult, error) {
	step, err := m.Reset()
	if err != nil {
		return agent.EpisodeResult{}, err
	}

	var trace []Step
	episodeReturn := 0.0
	for !step.Last() {
		action, err := m.policy.SelectAction(step.State)
		if err != nil {
			return agent.EpisodeResult{}, err
		}

		next, err := m.Step(step, action)
		if err != nil {
			return agent.EpisodeResult{}, err
		}

		trace = append(trace, Step{step.State, action, next.Reward})
		episodeReturn += next.Reward
		step = next
	}
	m.trace = trace

	return agent.EpisodeResult{
		EpisodeParams: params,
		Return:        episodeReturn,
		Steps:         step.Number,
		End:           step.EndType(),
	}, nil
}

// improve performs the backward pass over the last trace
func (m *MonteCarlo) improve() error {
	first := make(map[pair]int, len(m.trace))
	for i, step := range m.trace {
		p := pair{step.State, step.Action}
		if _, ok := first[p]; !ok {
			first[p] = i
		}
	}

	task := m.Task()
	g := 0.0
	for i := len(m.trace) - 1; i >= 0; i-- {
		step := m.trace[i]
		g += m.config.Discount * step.Reward

		if first[pair{step.State, step.Action}] != i {
			continue
		}
		if task.Terminal(step.State) {
			continue
		}

		m.returns.Add(step.State, step.Action, g)
		m.table.Set(step.State, step.Action,
			m.returns.Mean(step.State, step.Action))

		_, err := m.policy.Improve(step.State, m.table.Row(step.State),
			m.config.Epsilon)
		if err != nil {
			return err
		}
	}
	return nil
}

// Train runs all remaining episodes and returns the improved policy
func (m *MonteCarlo) Train() (*policy.Soft, error) {
	for !m.Done() {
		if _, err := m.RunEpisode(); err != nil {
			return nil, fmt.Errorf("train: %w", err)
		}
	}
	return m.policy, nil
}

// Policy returns the policy of the agent
func (m *MonteCarlo) Policy() *policy.Soft {
	return m.policy
}

// ValueTable returns the action value estimates of the agent
func (m *MonteCarlo) ValueTable() *tabular.ValueTable {
	return m.table
}

// Returns returns a copy of the first-visit returns observed for action
// in state
func (m *MonteCarlo) Returns(state, action int) []float64 {
	return m.returns.Of(state, action)
}

// LastTrace returns a copy of the trace of the last episode
func (m *MonteCarlo) LastTrace() []Step {
	trace := make([]Step, len(m.trace))
	copy(trace, m.trace)
	return trace
}

// Snapshot returns the policy of the agent
func (m *MonteCarlo) Snapshot() agent.Snapshot {
	return m.policy
}

// Evaluator returns the policy of the agent, which is evaluated as the
// stochastic policy it is
func (m *MonteCarlo) Evaluator() agent.Selector {
	return m.policy
}
