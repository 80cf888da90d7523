package tabular

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/experiment/tracker"
	"github.com/samuelfneumann/tabular/timestep"
	"github.com/samuelfneumann/tabular/utils/logging"
)

// Runner implements the interaction of a tabular agent with an
// Environment that all agents share: resetting and stepping the
// environment, checking that the environment keeps its contract,
// shaping rewards with a Task, ending episodes at a step limit, sending
// TimeSteps to Trackers and recording per-episode results.
//
// Once an episode fails, the Runner is invalidated and reports the
// failure on every later call to Check.
type Runner struct {
	env      environment.Environment
	task     environment.Task
	discount float64
	states   int
	actions  int
	ender    environment.Ender

	trackers []tracker.Tracker
	logger   logrus.FieldLogger

	rewards []float64
	lengths []int
	goals   int
	err     error
}

// NewRunner returns a new Runner on env, whose rewards are given by
// task. If maxSteps > 0, episodes are ended after maxSteps steps.
func NewRunner(env environment.Environment, task environment.Task,
	discount float64, maxSteps int) (*Runner, error) {
	if env == nil {
		return nil, fmt.Errorf("newRunner: %w: nil environment",
			agent.ErrInvalidConfig)
	}
	if task == nil {
		return nil, fmt.Errorf("newRunner: %w: nil task",
			agent.ErrInvalidConfig)
	}
	if maxSteps < 0 {
		return nil, fmt.Errorf("newRunner: %w: max steps %d < 0",
			agent.ErrInvalidConfig, maxSteps)
	}

	actions := env.Actions()
	if actions <= 0 {
		return nil, fmt.Errorf("newRunner: %w", agent.ErrEmptyActionSet)
	}

	states := env.States()
	if states <= 0 {
		return nil, fmt.Errorf("newRunner: %w: environment has %d states",
			agent.ErrContractViolation, states)
	}

	for _, s := range task.Terminals() {
		if s >= states {
			return nil, fmt.Errorf("newRunner: %w: terminal state %d not "+
				"in [0, %d)", agent.ErrInvalidConfig, s, states)
		}
	}

	var ender environment.Ender
	if maxSteps > 0 {
		ender = environment.NewStepLimit(maxSteps)
	}

	return &Runner{
		env:      env,
		task:     task,
		discount: discount,
		states:   states,
		actions:  actions,
		ender:    ender,
		logger:   logging.NewNullLogger(),
	}, nil
}

// States returns the number of states of the environment
func (r *Runner) States() int {
	return r.states
}

// Actions returns the number of actions of the environment
func (r *Runner) Actions() int {
	return r.actions
}

// Task returns the Task which shapes rewards
func (r *Runner) Task() environment.Task {
	return r.task
}

// Environment returns the Environment the Runner steps
func (r *Runner) Environment() environment.Environment {
	return r.env
}

// Register registers a Tracker which is sent every TimeStep
func (r *Runner) Register(t tracker.Tracker) {
	r.trackers = append(r.trackers, t)
}

// SetLogger sets the logger of the Runner
func (r *Runner) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logging.NewNullLogger()
	}
	r.logger = l
}

// Logger returns the logger of the Runner
func (r *Runner) Logger() logrus.FieldLogger {
	return r.logger
}

// Check returns an error if the training run has been invalidated
func (r *Runner) Check() error {
	if r.err != nil {
		return fmt.Errorf("%w: %w", agent.ErrInvalidated, r.err)
	}
	return nil
}

// Fail invalidates the training run because of err and returns err
func (r *Runner) Fail(err error) error {
	if r.err == nil {
		r.err = err
		r.logger.WithError(err).Error("training run invalidated")
	}
	return err
}

// Reset resets the environment and returns the first TimeStep of the
// episode
func (r *Runner) Reset() (timestep.TimeStep, error) {
	step, err := r.env.Reset()
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}
	if err := r.checkState(step.State); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("reset: %w", err)
	}

	first := timestep.New(timestep.First, 0, r.discount, step.State, 0)
	r.track(first)
	return first, nil
}

// Step takes action in the environment from the current TimeStep and
// returns the next TimeStep, whose reward is given by the Task. The
// next TimeStep is the last of the episode if the environment reports
// termination or if the step limit is reached.
func (r *Runner) Step(current timestep.TimeStep,
	action int) (timestep.TimeStep, error) {
	if a := r.env.Actions(); a != r.actions {
		return timestep.TimeStep{}, fmt.Errorf("step: %w: action count "+
			"changed from %d to %d", agent.ErrContractViolation, r.actions, a)
	}
	if action < 0 || action >= r.actions {
		return timestep.TimeStep{}, fmt.Errorf("step: %w: action %d not in "+
			"[0, %d)", agent.ErrContractViolation, action, r.actions)
	}

	envStep, done, err := r.env.Step(action)
	if err != nil {
		return timestep.TimeStep{}, fmt.Errorf("step: %w", err)
	}
	if err := r.checkState(envStep.State); err != nil {
		return timestep.TimeStep{}, fmt.Errorf("step: %w", err)
	}

	state := envStep.State
	reward := r.task.GetReward(state)
	next := timestep.New(timestep.Mid, reward, r.discount, state,
		current.Number+1)

	if done {
		next.StepType = timestep.Last
		switch {
		case r.task.AtGoal(state):
			next.SetEnd(timestep.Goal)
		case r.task.Terminal(state):
			next.SetEnd(timestep.Hole)
		case envStep.EndType() != timestep.NotEnded:
			next.SetEnd(envStep.EndType())
		default:
			next.SetEnd(timestep.TerminalStateReached)
		}
	} else if r.ender != nil {
		r.ender.End(&next)
	}

	if r.task.AtGoal(state) {
		r.logger.WithField("state", state).Debug("goal reached")
	}

	r.track(next)
	return next, nil
}

// EndEpisode records the result of a finished episode
func (r *Runner) EndEpisode(result agent.EpisodeResult) {
	r.rewards = append(r.rewards, result.Return)
	r.lengths = append(r.lengths, result.Steps)
	if result.Goal() {
		r.goals++
	}

	r.logger.WithFields(logrus.Fields{
		"episode":      result.Index,
		"epsilon":      result.Epsilon,
		"learningRate": result.LearningRate,
		"return":       result.Return,
		"steps":        result.Steps,
		"end":          result.End,
	}).Debug("episode finished")
}

// Episodes returns the number of finished episodes
func (r *Runner) Episodes() int {
	return len(r.rewards)
}

// Rewards returns the total shaped reward of each finished episode
func (r *Runner) Rewards() []float64 {
	rewards := make([]float64, len(r.rewards))
	copy(rewards, r.rewards)
	return rewards
}

// Lengths returns the number of steps of each finished episode
func (r *Runner) Lengths() []int {
	lengths := make([]int, len(r.lengths))
	copy(lengths, r.lengths)
	return lengths
}

// Goals returns the number of finished episodes which ended at a goal
func (r *Runner) Goals() int {
	return r.goals
}

func (r *Runner) checkState(state int) error {
	if state < 0 || state >= r.states {
		return fmt.Errorf("%w: state %d not in [0, %d)",
			agent.ErrContractViolation, state, r.states)
	}
	return nil
}

func (r *Runner) track(t timestep.TimeStep) {
	for _, tr := range r.trackers {
		tr.Track(t)
	}
}
