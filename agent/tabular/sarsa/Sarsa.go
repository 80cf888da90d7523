// Package sarsa implements tabular Sarsa.
//
// Sarsa is on-policy: the action taken in the next state is selected
// before the update and the value of that action is bootstrapped. The
// selected action is then carried forward and taken on the next step.
package sarsa

import (
	"fmt"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular"
	"github.com/samuelfneumann/tabular/agent/tabular/policy"
	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/timestep"
)

// Sarsa implements the tabular Sarsa algorithm. The learning rate may
// decay per episode in the same way as epsilon.
type Sarsa struct {
	*tabular.Runner
	config  ExtendedConfig
	table   *tabular.ValueTable
	policy  *policy.EGreedy
	greedy  *policy.EGreedy
	episode int
}

// New creates a new Sarsa agent with a constant learning rate
func New(env environment.Environment, task environment.Task, config Config,
	seed uint64) (*Sarsa, error) {
	return NewExtended(env, task, config.Extended(), seed)
}

// NewExtended creates a new Sarsa agent whose learning rate decays per
// episode
func NewExtended(env environment.Environment, task environment.Task,
	config ExtendedConfig, seed uint64) (*Sarsa, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	runner, err := tabular.NewRunner(env, task, config.Discount,
		config.MaxSteps)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	table, err := tabular.NewUniformValueTable(runner.States(),
		runner.Actions(), task.Terminals(), seed)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	behaviour, err := policy.NewEGreedy(table, config.Epsilon.Max, env,
		seed+1)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	greedy, err := policy.NewGreedy(table)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &Sarsa{
		Runner: runner,
		config: config,
		table:  table,
		policy: behaviour,
		greedy: greedy,
	}, nil
}

// Target returns the Sarsa target of a transition: the reward plus the
// discounted value of the action actually selected in the next state
func Target(t timestep.Transition, table *tabular.ValueTable) float64 {
	return t.Reward + t.Discount*table.At(t.NextState, t.NextAction)
}

// TdError returns the TD error of the transition with respect to the
// current value table
func (s *Sarsa) TdError(t timestep.Transition) float64 {
	return Target(t, s.table) - s.table.At(t.State, t.Action)
}

// Config returns the configuration of the agent
func (s *Sarsa) Config() ExtendedConfig {
	return s.config
}

// Done returns whether all configured episodes have been run
func (s *Sarsa) Done() bool {
	return s.episode >= s.config.Episodes
}

// Params returns the hyper-parameters of the next episode
func (s *Sarsa) Params() agent.EpisodeParams {
	return agent.EpisodeParams{
		Index:        s.episode,
		Epsilon:      s.config.Epsilon.At(s.episode),
		LearningRate: s.config.LearningRate.At(s.episode),
	}
}

// RunEpisode runs the next episode, updating the value table after each
// step
func (s *Sarsa) RunEpisode() (agent.EpisodeResult, error) {
	if err := s.Check(); err != nil {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w", err)
	}
	if s.Done() {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w",
			agent.ErrDone)
	}

	result, err := s.runEpisode(s.Params())
	if err != nil {
		return agent.EpisodeResult{}, s.Fail(fmt.Errorf("runEpisode: %w",
			err))
	}

	s.episode++
	s.EndEpisode(result)
	return result, nil
}

func (s *Sarsa) runEpisode(params agent.EpisodeParams) (agent.EpisodeResult,
	error) {
	if err := s.policy.SetEpsilon(params.Epsilon); err != nil {
		return agent.EpisodeResult{}, err
	}

	step, err := s.Reset()
	if err != nil {
		return agent.EpisodeResult{}, err
	}

	action, err := s.policy.SelectAction(step.State)
	if err != nil {
		return agent.EpisodeResult{}, err
	}

	task := s.Task()
	episodeReturn := 0.0
	for !step.Last() {
		next, err := s.Step(step, action)
		if err != nil {
			return agent.EpisodeResult{}, err
		}
		episodeReturn += next.Reward

		nextAction, err := s.policy.SelectAction(next.State)
		if err != nil {
			return agent.EpisodeResult{}, err
		}

		if !task.Terminal(step.State) {
			transition := timestep.NewTransition(step, action, next,
				nextAction)
			s.table.Update(step.State, action, params.LearningRate,
				Target(transition, s.table))
		}
		step, action = next, nextAction
	}

	return agent.EpisodeResult{
		EpisodeParams: params,
		Return:        episodeReturn,
		Steps:         step.Number,
		End:           step.EndType(),
	}, nil
}

// Train runs all remaining episodes and returns the learned value table
func (s *Sarsa) Train() (*tabular.ValueTable, error) {
	for !s.Done() {
		if _, err := s.RunEpisode(); err != nil {
			return nil, fmt.Errorf("train: %w", err)
		}
	}
	return s.table, nil
}

// ValueTable returns the value table of the agent
func (s *Sarsa) ValueTable() *tabular.ValueTable {
	return s.table
}

// Snapshot returns the value table of the agent
func (s *Sarsa) Snapshot() agent.Snapshot {
	return s.table
}

// Evaluator returns the greedy policy with respect to the value table
func (s *Sarsa) Evaluator() agent.Selector {
	return s.greedy
}
