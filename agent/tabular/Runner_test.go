package tabular

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/environment/corridor"
	"github.com/samuelfneumann/tabular/experiment/tracker"
	"github.com/samuelfneumann/tabular/timestep"
	"github.com/samuelfneumann/tabular/utils/logging"
)

// broken is an Environment which breaks its contract by returning an
// out of range state or changing its number of actions
type broken struct {
	states     int
	actions    int
	badState   bool
	badActions bool
	stepped    bool
}

func (b *broken) States() int { return b.states }

func (b *broken) Actions() int {
	if b.badActions && b.stepped {
		return b.actions + 1
	}
	return b.actions
}

func (b *broken) SampleAction() int { return 0 }

func (b *broken) Reset() (timestep.TimeStep, error) {
	return timestep.New(timestep.First, 0, 1, 0, 0), nil
}

func (b *broken) Step(int) (timestep.TimeStep, bool, error) {
	b.stepped = true
	state := 1
	if b.badState {
		state = b.states
	}
	return timestep.New(timestep.Mid, 0, 1, state, 1), false, nil
}

func newCorridorRunner(t *testing.T, length, maxSteps int) (*Runner,
	*corridor.Corridor) {
	t.Helper()
	env, err := corridor.New(length, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	runner, err := NewRunner(env, env.Task(), 0.9, maxSteps)
	if err != nil {
		t.Fatal(err)
	}
	return runner, env
}

func TestNewRunner(t *testing.T) {
	env, err := corridor.New(3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	outOfRange, err := environment.NewTerminalSet([]int{10}, []int{3})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		env      environment.Environment
		task     environment.Task
		maxSteps int
		err      error
	}{
		{"valid", env, env.Task(), 0, nil},
		{"noActions", &broken{states: 2}, env.Task(), 0,
			agent.ErrEmptyActionSet},
		{"noStates", &broken{actions: 2}, env.Task(), 0,
			agent.ErrContractViolation},
		{"terminalOutOfRange", env, outOfRange, 0, agent.ErrInvalidConfig},
		{"negativeMaxSteps", env, env.Task(), -1, agent.ErrInvalidConfig},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewRunner(test.env, test.task, 0.9, test.maxSteps)
			if !errors.Is(err, test.err) {
				t.Errorf("newRunner: want(%v) got(%v)", test.err, err)
			}
		})
	}
}

func TestRunnerGoal(t *testing.T) {
	runner, env := newCorridorRunner(t, 2, 0)
	lengths := tracker.NewEpisodeLength("")
	runner.Register(lengths)

	step, err := runner.Reset()
	if err != nil {
		t.Fatal(err)
	}
	for !step.Last() {
		if step, err = runner.Step(step, corridor.Forward); err != nil {
			t.Fatal(err)
		}
	}

	if step.State != env.Goal() {
		t.Errorf("state: want(%v) got(%v)", env.Goal(), step.State)
	}
	if step.EndType() != timestep.Goal {
		t.Errorf("end: want(%v) got(%v)", timestep.Goal, step.EndType())
	}
	if step.Reward != environment.GoalReward {
		t.Errorf("reward: want(%v) got(%v)", environment.GoalReward,
			step.Reward)
	}
	if data := lengths.Data(); len(data) != 1 || data[0] != 2 {
		t.Errorf("tracked lengths: want([2]) got(%v)", data)
	}
}

func TestRunnerHole(t *testing.T) {
	runner, env := newCorridorRunner(t, 3, 0)

	step, err := runner.Reset()
	if err != nil {
		t.Fatal(err)
	}
	step, err = runner.Step(step, 0)
	if err != nil {
		t.Fatal(err)
	}

	if !step.Last() || step.State != env.Pit() {
		t.Fatalf("step: want last step in pit got %v", step)
	}
	if step.EndType() != timestep.Hole {
		t.Errorf("end: want(%v) got(%v)", timestep.Hole, step.EndType())
	}
	if step.Reward != environment.HoleReward {
		t.Errorf("reward: want(%v) got(%v)", environment.HoleReward,
			step.Reward)
	}
}

func TestRunnerTimeout(t *testing.T) {
	runner, _ := newCorridorRunner(t, 5, 2)

	step, err := runner.Reset()
	if err != nil {
		t.Fatal(err)
	}
	for !step.Last() {
		if step, err = runner.Step(step, corridor.Forward); err != nil {
			t.Fatal(err)
		}
	}

	if step.Number != 2 {
		t.Errorf("steps: want(2) got(%v)", step.Number)
	}
	if step.EndType() != timestep.Timeout {
		t.Errorf("end: want(%v) got(%v)", timestep.Timeout, step.EndType())
	}
}

func TestRunnerContract(t *testing.T) {
	tests := []struct {
		name   string
		env    *broken
		action int
	}{
		{"stateOutOfRange", &broken{states: 2, actions: 2, badState: true}, 0},
		{"actionsChanged", &broken{states: 2, actions: 2, badActions: true},
			0},
		{"actionOutOfRange", &broken{states: 2, actions: 2}, 2},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			task, err := environment.NewTerminalSet(nil, []int{1})
			if err != nil {
				t.Fatal(err)
			}
			runner, err := NewRunner(test.env, task, 1, 0)
			if err != nil {
				t.Fatal(err)
			}

			step, err := runner.Reset()
			if err != nil {
				t.Fatal(err)
			}

			if test.name == "actionsChanged" {
				// The first step succeeds, after which the count changes
				if _, err := runner.Step(step, 0); err != nil {
					t.Fatal(err)
				}
			}

			_, err = runner.Step(step, test.action)
			if !errors.Is(err, agent.ErrContractViolation) {
				t.Errorf("step: want(%v) got(%v)",
					agent.ErrContractViolation, err)
			}
		})
	}
}

func TestRunnerFail(t *testing.T) {
	runner, _ := newCorridorRunner(t, 2, 0)
	var buf bytes.Buffer
	runner.SetLogger(logging.NewBufferLogger(&buf))

	if err := runner.Check(); err != nil {
		t.Fatalf("check: want(nil) got(%v)", err)
	}

	cause := errors.New("cause")
	runner.Fail(cause)
	runner.Fail(errors.New("ignored"))

	err := runner.Check()
	if !errors.Is(err, agent.ErrInvalidated) {
		t.Errorf("check: want(%v) got(%v)", agent.ErrInvalidated, err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("check: want wrapped (%v) got(%v)", cause, err)
	}
	if !strings.Contains(buf.String(), "training run invalidated") {
		t.Errorf("log: want invalidation logged got %q", buf.String())
	}
}

func TestRunnerEndEpisode(t *testing.T) {
	runner, _ := newCorridorRunner(t, 2, 0)

	runner.EndEpisode(agent.EpisodeResult{Return: 1, Steps: 2,
		End: timestep.Goal})
	runner.EndEpisode(agent.EpisodeResult{Return: -1, Steps: 1,
		End: timestep.Hole})

	if runner.Episodes() != 2 {
		t.Errorf("episodes: want(2) got(%v)", runner.Episodes())
	}
	if runner.Goals() != 1 {
		t.Errorf("goals: want(1) got(%v)", runner.Goals())
	}
	if l := runner.Lengths(); l[0] != 2 || l[1] != 1 {
		t.Errorf("lengths: want([2 1]) got(%v)", l)
	}
	if r := runner.Rewards(); r[0] != 1 || r[1] != -1 {
		t.Errorf("rewards: want([1 -1]) got(%v)", r)
	}
}
