package qlearning

import (
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular"
	"github.com/samuelfneumann/tabular/environment/corridor"
	"github.com/samuelfneumann/tabular/environment/gridworld"
	"github.com/samuelfneumann/tabular/timestep"
)

var _ agent.TdErrorer = &QLearning{}

func corridorConfig() Config {
	return Config{
		Episodes:     500,
		MaxSteps:     10,
		Discount:     0.9,
		LearningRate: 0.5,
		Epsilon:      agent.Decay{Max: 1.0, Min: 0.01, Rate: 0.01},
	}
}

func TestConvergence(t *testing.T) {
	env, err := corridor.New(3, 2, 7)
	if err != nil {
		t.Fatal(err)
	}

	q, err := New(env, env.Task(), corridorConfig(), 7)
	if err != nil {
		t.Fatal(err)
	}

	table, err := q.Train()
	if err != nil {
		t.Fatal(err)
	}

	for s := 0; s < env.Goal(); s++ {
		optimal := table.At(s, corridor.Forward)
		for a := 0; a < env.Actions(); a++ {
			if a != corridor.Forward && table.At(s, a) >= optimal {
				t.Errorf("state %v: value of action %v (%v) >= value of "+
					"optimal action (%v)", s, a, table.At(s, a), optimal)
			}
		}
	}

	win, err := tabular.Evaluate(env, env.Task(), q.Evaluator(), 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	if win != 1.0 {
		t.Errorf("evaluate: want(1) got(%v)", win)
	}
}

func TestTerminalRowsZero(t *testing.T) {
	lake, err := gridworld.NewLake(gridworld.FrozenLake4x4)
	if err != nil {
		t.Fatal(err)
	}
	env, _, err := gridworld.New(lake, false, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	task := lake.Task()

	config := DefaultConfig()
	config.Episodes = 200
	q, err := New(env, task, config, 3)
	if err != nil {
		t.Fatal(err)
	}

	for !q.Done() {
		if _, err := q.RunEpisode(); err != nil {
			t.Fatal(err)
		}

		for _, s := range task.Terminals() {
			for _, v := range q.ValueTable().Row(s) {
				if v != 0 {
					t.Fatalf("episode %v: terminal state %v has value %v",
						q.Episodes(), s, v)
				}
			}
		}
	}

	if len(q.Rewards()) != config.Episodes {
		t.Errorf("rewards: want(%v) got(%v)", config.Episodes,
			len(q.Rewards()))
	}
	for i, l := range q.Lengths() {
		if l < 1 || l > config.MaxSteps {
			t.Errorf("episode %v: length %v not in [1, %v]", i, l,
				config.MaxSteps)
		}
	}
}

func TestEpisodeParams(t *testing.T) {
	env, err := corridor.New(3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}

	config := corridorConfig()
	config.Episodes = 3
	q, err := New(env, env.Task(), config, 1)
	if err != nil {
		t.Fatal(err)
	}

	for e := 0; e < config.Episodes; e++ {
		result, err := q.RunEpisode()
		if err != nil {
			t.Fatal(err)
		}
		if result.Index != e {
			t.Errorf("index: want(%v) got(%v)", e, result.Index)
		}
		if want := config.Epsilon.At(e); result.Epsilon != want {
			t.Errorf("epsilon: want(%v) got(%v)", want, result.Epsilon)
		}
		if result.LearningRate != config.LearningRate {
			t.Errorf("learning rate: want(%v) got(%v)", config.LearningRate,
				result.LearningRate)
		}
	}

	if _, err := q.RunEpisode(); !errors.Is(err, agent.ErrDone) {
		t.Errorf("runEpisode: want(%v) got(%v)", agent.ErrDone, err)
	}
}

func TestTdError(t *testing.T) {
	env, err := corridor.New(3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	q, err := New(env, env.Task(), corridorConfig(), 1)
	if err != nil {
		t.Fatal(err)
	}

	table := q.ValueTable()
	table.Set(0, 1, 0.2)
	table.Set(1, 0, 0.5)
	table.Set(1, 1, 0.9)

	transition := timestep.Transition{State: 0, Action: 1, Reward: 1,
		Discount: 0.5, NextState: 1, NextAction: 0}
	want := 1 + 0.5*0.9 - 0.2
	if got := q.TdError(transition); !scalar.EqualWithinAbs(got, want,
		1e-12) {
		t.Errorf("tdError: want(%v) got(%v)", want, got)
	}
}

func TestValidate(t *testing.T) {
	config := Config{
		Episodes:     0,
		MaxSteps:     -1,
		Discount:     1.5,
		LearningRate: -0.1,
		Epsilon:      agent.Decay{Max: 0.1, Min: 0.5},
	}

	err := config.Validate()
	if !errors.Is(err, agent.ErrInvalidConfig) {
		t.Fatalf("validate: want(%v) got(%v)", agent.ErrInvalidConfig, err)
	}

	env, err := corridor.New(3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := config.CreateAgent(env, env.Task(), 1); !errors.Is(err,
		agent.ErrInvalidConfig) {
		t.Errorf("createAgent: want(%v) got(%v)", agent.ErrInvalidConfig, err)
	}

	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("validate: default config invalid: %v", err)
	}
}

func TestValidateNaN(t *testing.T) {
	nan := math.NaN()
	tests := map[string]Config{
		"gamma": {Episodes: 1, MaxSteps: 1, Discount: nan,
			LearningRate: 0.5, Epsilon: agent.Constant(0.1)},
		"alpha": {Episodes: 1, MaxSteps: 1, Discount: 0.9,
			LearningRate: nan, Epsilon: agent.Constant(0.1)},
		"epsilon": {Episodes: 1, MaxSteps: 1, Discount: 0.9,
			LearningRate: 0.5, Epsilon: agent.Constant(nan)},
	}

	for name, config := range tests {
		if err := config.Validate(); !errors.Is(err, agent.ErrInvalidConfig) {
			t.Errorf("%v: want(%v) got(%v)", name, agent.ErrInvalidConfig,
				err)
		}
	}
}

func BenchmarkRunEpisode(b *testing.B) {
	lake, err := gridworld.NewLake(gridworld.FrozenLake4x4)
	if err != nil {
		b.Fatal(err)
	}
	env, _, err := gridworld.New(lake, false, 0, 1)
	if err != nil {
		b.Fatal(err)
	}

	config := DefaultConfig()
	config.Episodes = b.N
	q, err := New(env, lake.Task(), config, 1)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := q.RunEpisode(); err != nil {
			b.Fatal(err)
		}
	}
}

// recorder records every action sampled from and taken in a corridor
type recorder struct {
	*corridor.Corridor
	sampled []int
	taken   []int
}

func (r *recorder) SampleAction() int {
	a := r.Corridor.SampleAction()
	r.sampled = append(r.sampled, a)
	return a
}

func (r *recorder) Step(action int) (timestep.TimeStep, bool, error) {
	r.taken = append(r.taken, action)
	return r.Corridor.Step(action)
}

func TestActionSelectedEachStep(t *testing.T) {
	c, err := corridor.New(3, 2, 17)
	if err != nil {
		t.Fatal(err)
	}
	env := &recorder{Corridor: c}

	// With epsilon 1 every selection samples from the environment
	config := corridorConfig()
	config.Episodes = 20
	config.Epsilon = agent.Constant(1.0)
	q, err := New(env, c.Task(), config, 17)
	if err != nil {
		t.Fatal(err)
	}

	for !q.Done() {
		env.sampled, env.taken = nil, nil
		result, err := q.RunEpisode()
		if err != nil {
			t.Fatal(err)
		}

		if len(env.taken) != result.Steps ||
			len(env.sampled) != result.Steps {
			t.Fatalf("episode %v: want(%v) steps and selections got(%v) "+
				"and (%v)", result.Index, result.Steps, len(env.taken),
				len(env.sampled))
		}
		for i, a := range env.taken {
			if a != env.sampled[i] {
				t.Errorf("episode %v step %v: took action %v but selected "+
					"%v", result.Index, i, a, env.sampled[i])
			}
		}
	}
}

func TestEvaluatorGreedy(t *testing.T) {
	env, err := corridor.New(3, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	q, err := New(env, env.Task(), corridorConfig(), 3)
	if err != nil {
		t.Fatal(err)
	}

	evaluator := q.Evaluator()
	if evaluator != q.Evaluator() {
		t.Error("evaluator: a new selector was built on each call")
	}

	if _, err := q.Train(); err != nil {
		t.Fatal(err)
	}
	table := q.ValueTable()
	for state := 0; state < env.States(); state++ {
		got, err := evaluator.SelectAction(state)
		if err != nil {
			t.Fatal(err)
		}
		if want := table.Greedy(state); got != want {
			t.Errorf("state %v: want(%v) got(%v)", state, want, got)
		}
	}
}
