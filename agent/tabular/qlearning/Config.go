package qlearning

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
)

// Config represents a configuration for the QLearning agent
type Config struct {
	Episodes     int         `mapstructure:"episodes" yaml:"episodes"`
	MaxSteps     int         `mapstructure:"max_steps" yaml:"max_steps"`
	Discount     float64     `mapstructure:"gamma" yaml:"gamma"`
	LearningRate float64     `mapstructure:"alpha" yaml:"alpha"`
	Epsilon      agent.Decay `mapstructure:"epsilon" yaml:"epsilon"`
}

// DefaultConfig returns the default QLearning configuration
func DefaultConfig() Config {
	return Config{
		Episodes:     1000,
		MaxSteps:     100,
		Discount:     0.9,
		LearningRate: 0.8,
		Epsilon:      agent.Decay{Max: 1.0, Min: 0.01, Rate: 0.001},
	}
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	task environment.Task, seed uint64) (agent.Agent, error) {
	q, err := New(env, task, c, seed)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*QLearning)
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
	if c.MaxSteps <= 0 {
		err = multierror.Append(err, fmt.Errorf("%w: max steps %d <= 0",
			agent.ErrInvalidConfig, c.MaxSteps))
	}
	if !(c.Discount >= 0 && c.Discount <= 1) {
		err = multierror.Append(err, fmt.Errorf("%w: gamma %v not in [0, 1]",
			agent.ErrInvalidConfig, c.Discount))
	}
	if !(c.LearningRate >= 0 && c.LearningRate <= 1) {
		err = multierror.Append(err, fmt.Errorf("%w: alpha %v not in [0, 1]",
			agent.ErrInvalidConfig, c.LearningRate))
	}
	if e := c.Epsilon.Validate("epsilon"); e != nil {
		err = multierror.Append(err, e)
	}
	return err
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.QLearning
}
