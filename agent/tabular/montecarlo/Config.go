package montecarlo

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
)

// Config represents a configuration for the MonteCarlo agent
type Config struct {
	Episodes int     `mapstructure:"episodes" yaml:"episodes"`
	Discount float64 `mapstructure:"gamma" yaml:"gamma"`
	Epsilon  float64 `mapstructure:"epsilon" yaml:"epsilon"`

	// MaxSteps cuts off rollouts after MaxSteps steps. If zero,
	// rollouts run until the environment terminates.
	MaxSteps int `mapstructure:"max_steps" yaml:"max_steps"`
}

// DefaultConfig returns the default MonteCarlo configuration
func DefaultConfig() Config {
	return Config{
		Episodes: 1000,
		Discount: 0.8,
		Epsilon:  0.01,
	}
}

// CreateAgent creates the agent from the Config. The initial policy is
// uniform random.
func (c Config) CreateAgent(env environment.Environment,
	task environment.Task, seed uint64) (agent.Agent, error) {
	m, err := New(env, task, c, seed)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*MonteCarlo)
	return ok
}

// Validate ensures that the Config is valid. All problems with the
// Config are reported together.
func (c Config) Validate() error {
	var err error
	if c.Episodes <= 0 {
		err = multierror.Append(err, fmt.Errorf("%w: episodes %d <= 0",
			agent.ErrInvalidConfig, c.Episodes))
	}
	if c.MaxSteps < 0 {
		err = multierror.Append(err, fmt.Errorf("%w: max steps %d < 0",
			agent.ErrInvalidConfig, c.MaxSteps))
	}
	if !(c.Discount >= 0 && c.Discount <= 1) {
		err = multierror.Append(err, fmt.Errorf("%w: gamma %v not in [0, 1]",
			agent.ErrInvalidConfig, c.Discount))
	}
	if !(c.Epsilon >= 0 && c.Epsilon <= 1) {
		err = multierror.Append(err, fmt.Errorf("%w: epsilon %v not in "+
			"[0, 1]", agent.ErrInvalidConfig, c.Epsilon))
	}
	return err
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.MonteCarlo
}
