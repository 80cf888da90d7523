// Package qlearning implements tabular Q-Learning.
//
// Q-Learning is off-policy: actions are selected epsilon greedily, but
// the value of the next state is bootstrapped with the greedy action
// value, regardless of which action is actually taken next.
package qlearning

import (
	"fmt"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular"
	"github.com/samuelfneumann/tabular/agent/tabular/policy"
	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/timestep"
)

// QLearning implements the tabular Q-Learning algorithm
type QLearning struct {
	*tabular.Runner
	config  Config
	table   *tabular.ValueTable
	policy  *policy.EGreedy
	greedy  *policy.EGreedy
	episode int
}

// New creates a new QLearning agent which learns in env on task
func New(env environment.Environment, task environment.Task, config Config,
	seed uint64) (*QLearning, error) {
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

	return &QLearning{
		Runner: runner,
		config: config,
		table:  table,
		policy: behaviour,
		greedy: greedy,
	}, nil
}

// Target returns the Q-Learning target of a transition: the reward plus
// the discounted greedy action value of the next state
func Target(t timestep.Transition, table *tabular.ValueTable) float64 {
	return t.Reward + t.Discount*table.Max(t.NextState)
}

// TdError returns the TD error of the transition with respect to the
// current value table. The NextAction of the transition is ignored.
func (q *QLearning) TdError(t timestep.Transition) float64 {
	return Target(t, q.table) - q.table.At(t.State, t.Action)
}

// Config returns the configuration of the agent
func (q *QLearning) Config() Config {
	return q.config
}

// Done returns whether all configured episodes have been run
func (q *QLearning) Done() bool {
	return q.episode >= q.config.Episodes
}

// Params returns the hyper-parameters of the next episode
func (q *QLearning) Params() agent.EpisodeParams {
	return agent.EpisodeParams{
		Index:        q.episode,
		Epsilon:      q.config.Epsilon.At(q.episode),
		LearningRate: q.config.LearningRate,
	}
}

// RunEpisode runs the next episode, updating the value table after each
// step
func (q *QLearning) RunEpisode() (agent.EpisodeResult, error) {
	if err := q.Check(); err != nil {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w", err)
	}
	if q.Done() {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w",
			agent.ErrDone)
	}

	result, err := q.runEpisode(q.Params())
	if err != nil {
		return agent.EpisodeResult{}, q.Fail(fmt.Errorf("runEpisode: %w",
			err))
	}

	q.episode++
	q.EndEpisode(result)
	return result, nil
}

func (q *QLearning) runEpisode(params agent.EpisodeParams) (
	agent.EpisodeResult, error) {
	if err := q.policy.SetEpsilon(params.Epsilon); err != nil {
		return agent.EpisodeResult{}, err
	}

	step, err := q.Reset()
	if err != nil {
		return agent.EpisodeResult{}, err
	}

	task := q.Task()
	episodeReturn := 0.0
	for !step.Last() {
		action, err := q.policy.SelectAction(step.State)
		if err != nil {
			return agent.EpisodeResult{}, err
		}

		next, err := q.Step(step, action)
		if err != nil {
			return agent.EpisodeResult{}, err
		}
		episodeReturn += next.Reward

		if !task.Terminal(step.State) {
			transition := timestep.NewTransition(step, action, next, 0)
			q.table.Update(step.State, action, params.LearningRate,
				Target(transition, q.table))
		}
		step = next
	}

	return agent.EpisodeResult{
		EpisodeParams: params,
		Return:        episodeReturn,
		Steps:         step.Number,
		End:           step.EndType(),
	}, nil
}

// Train runs all remaining episodes and returns the learned value table
func (q *QLearning) Train() (*tabular.ValueTable, error) {
	for !q.Done() {
		if _, err := q.RunEpisode(); err != nil {
			return nil, fmt.Errorf("train: %w", err)
		}
	}
	return q.table, nil
}

// ValueTable returns the value table of the agent
func (q *QLearning) ValueTable() *tabular.ValueTable {
	return q.table
}

// Snapshot returns the value table of the agent
func (q *QLearning) Snapshot() agent.Snapshot {
	return q.table
}

// Evaluator returns the greedy policy with respect to the value table
func (q *QLearning) Evaluator() agent.Selector {
	return q.greedy
}
