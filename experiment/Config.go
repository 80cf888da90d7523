package experiment

import (
	"fmt"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular/montecarlo"
	"github.com/samuelfneumann/tabular/agent/tabular/qlearning"
	"github.com/samuelfneumann/tabular/agent/tabular/sarsa"
	"github.com/samuelfneumann/tabular/environment/gridworld"
	"github.com/samuelfneumann/tabular/experiment/checkpointer"
	"github.com/samuelfneumann/tabular/experiment/tracker"
)

// EnvConfig configures the frozen lake gridworld an experiment is run
// on
type EnvConfig struct {
	Map      []string `mapstructure:"map" yaml:"map"`
	Slippery bool     `mapstructure:"slippery" yaml:"slippery"`
	Cutoff   int      `mapstructure:"cutoff" yaml:"cutoff"`
}

// OutputConfig configures what an experiment saves
type OutputConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`

	// CheckpointEvery is the number of episodes between checkpoints of
	// what the agent learned. If zero, no checkpoints are saved.
	CheckpointEvery int `mapstructure:"checkpoint_every" yaml:"checkpoint_every"`

	// Window is the number of episodes that returns are averaged over
	// in plots
	Window int `mapstructure:"window" yaml:"window"`
}

// Config represents a configuration of an experiment. Only the
// configuration of the agent named by Algorithm is used.
type Config struct {
	Algorithm   string    `mapstructure:"algorithm" yaml:"algorithm"`
	Seed        uint64    `mapstructure:"seed" yaml:"seed"`
	Environment EnvConfig `mapstructure:"environment" yaml:"environment"`

	QLearning     qlearning.Config     `mapstructure:"qlearning" yaml:"qlearning"`
	Sarsa         sarsa.Config         `mapstructure:"sarsa" yaml:"sarsa"`
	SarsaExtended sarsa.ExtendedConfig `mapstructure:"sarsa_extended" yaml:"sarsa_extended"`
	MonteCarlo    montecarlo.Config    `mapstructure:"montecarlo" yaml:"montecarlo"`

	// EvaluationRuns is the number of episodes the trained agent is
	// evaluated on. If zero, the agent is not evaluated.
	EvaluationRuns  int `mapstructure:"evaluation_runs" yaml:"evaluation_runs"`
	EvaluationSteps int `mapstructure:"evaluation_steps" yaml:"evaluation_steps"`

	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// DefaultConfig returns the default experiment configuration: Q-Learning
// on the slippery 4x4 frozen lake
func DefaultConfig() Config {
	return Config{
		Algorithm: string(agent.QLearning),
		Environment: EnvConfig{
			Map:      gridworld.FrozenLake4x4,
			Slippery: true,
		},
		QLearning:       qlearning.DefaultConfig(),
		Sarsa:           sarsa.DefaultConfig(),
		SarsaExtended:   sarsa.DefaultExtendedConfig(),
		MonteCarlo:      montecarlo.DefaultConfig(),
		EvaluationRuns:  1000,
		EvaluationSteps: 100,
		Output: OutputConfig{
			Dir:    "results",
			Window: 100,
		},
	}
}

// AgentConfig returns the configuration of the agent named by Algorithm
func (c Config) AgentConfig() (agent.Config, error) {
	t, err := agent.ParseType(c.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("agentConfig: %w", err)
	}

	switch t {
	case agent.QLearning:
		return c.QLearning, nil
	case agent.Sarsa:
		return c.Sarsa, nil
	case agent.SarsaExtended:
		return c.SarsaExtended, nil
	case agent.MonteCarlo:
		return c.MonteCarlo, nil
	}

	return nil, fmt.Errorf("agentConfig: %w: no such agent type %v",
		agent.ErrInvalidConfig, t)
}

// Episodes returns the number of episodes the agent named by Algorithm
// is configured to run
func (c Config) Episodes() int {
	t, err := agent.ParseType(c.Algorithm)
	if err != nil {
		return 0
	}

	switch t {
	case agent.QLearning:
		return c.QLearning.Episodes
	case agent.Sarsa:
		return c.Sarsa.Episodes
	case agent.SarsaExtended:
		return c.SarsaExtended.Episodes
	case agent.MonteCarlo:
		return c.MonteCarlo.Episodes
	}
	return 0
}

// Validate ensures that the Config is valid. All problems with the
// Config are reported together.
func (c Config) Validate() error {
	var err error

	agentConf, agentErr := c.AgentConfig()
	if agentErr != nil {
		err = multierror.Append(err, agentErr)
	} else if e := agentConf.Validate(); e != nil {
		err = multierror.Append(err, e)
	}

	if _, e := gridworld.NewLake(c.Environment.Map); e != nil {
		err = multierror.Append(err, fmt.Errorf("%w: %v",
			agent.ErrInvalidConfig, e))
	}
	if c.Environment.Cutoff < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: cutoff %d < 0",
			agent.ErrInvalidConfig, c.Environment.Cutoff))
	}
	if c.EvaluationRuns < 0 || c.EvaluationSteps < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: evaluation runs %d "+
			"and steps %d must be non-negative", agent.ErrInvalidConfig,
			c.EvaluationRuns, c.EvaluationSteps))
	}
	if c.Output.CheckpointEvery < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: checkpoint interval "+
			"%d < 0", agent.ErrInvalidConfig, c.Output.CheckpointEvery))
	}
	if c.Output.Window < 1 {
		err = multierror.Append(err, fmt.Errorf("%w: plot window %d < 1",
			agent.ErrInvalidConfig, c.Output.Window))
	}
	return err
}

// Create creates the experiment described by the Config. Trackers and
// checkpointers save their data in the output directory, which must
// exist before the experiment is run.
func (c Config) Create() (*Episodic, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	lake, err := gridworld.NewLake(c.Environment.Map)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	env, _, err := gridworld.New(lake, c.Environment.Slippery,
		c.Environment.Cutoff, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	task := lake.Task()

	agentConf, err := c.AgentConfig()
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	a, err := agentConf.CreateAgent(env, task, c.Seed)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	if !agentConf.ValidAgent(a) {
		return nil, fmt.Errorf("create: %w: agent of type %T is not a %v "+
			"agent", agent.ErrInvalidConfig, a, agentConf.Type())
	}

	dir := c.Output.Dir
	trackers := []tracker.Tracker{
		tracker.NewReturn(filepath.Join(dir, "return.bin")),
		tracker.NewEpisodeLength(filepath.Join(dir, "length.bin")),
		tracker.NewGoals(filepath.Join(dir, "goals.bin")),
	}

	var checkpointers []checkpointer.Checkpointer
	if c.Output.CheckpointEvery > 0 {
		filename := checkpointer.ByEpisode(filepath.Join(dir, "checkpoint"),
			".bin")
		checkpointers = append(checkpointers, checkpointer.NewNEpisode(
			c.Output.CheckpointEvery, a.Snapshot(), filename))
	}

	e := NewEpisodic(env, task, a, trackers, checkpointers)
	e.SetGrid(lake.Dims())
	return e, nil
}
