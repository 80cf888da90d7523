package sarsa

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
)

// Config represents a configuration for the Sarsa agent with a constant
// learning rate
type Config struct {
	Episodes     int         `mapstructure:"episodes" yaml:"episodes"`
	MaxSteps     int         `mapstructure:"max_steps" yaml:"max_steps"`
	Discount     float64     `mapstructure:"gamma" yaml:"gamma"`
	LearningRate float64     `mapstructure:"alpha" yaml:"alpha"`
	Epsilon      agent.Decay `mapstructure:"epsilon" yaml:"epsilon"`
}

// DefaultConfig returns the default Sarsa configuration
func DefaultConfig() Config {
	return Config{
		Episodes:     1000,
		MaxSteps:     100,
		Discount:     0.9,
		LearningRate: 0.8,
		Epsilon:      agent.Decay{Max: 1.0, Min: 0.01, Rate: 0.001},
	}
}

// Extended returns the ExtendedConfig equivalent to c, whose learning
// rate never decays
func (c Config) Extended() ExtendedConfig {
	return ExtendedConfig{
		Episodes:     c.Episodes,
		MaxSteps:     c.MaxSteps,
		Discount:     c.Discount,
		LearningRate: agent.Constant(c.LearningRate),
		Epsilon:      c.Epsilon,
	}
}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	task environment.Task, seed uint64) (agent.Agent, error) {
	s, err := New(env, task, c, seed)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	s, ok := a.(*Sarsa)
	return ok && s.config.LearningRate.Constant()
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	return c.Extended().Validate()
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.Sarsa
}

// ExtendedConfig represents a configuration for the Sarsa agent where
// both epsilon and the learning rate decay once per episode
type ExtendedConfig struct {
	Episodes     int         `mapstructure:"episodes" yaml:"episodes"`
	MaxSteps     int         `mapstructure:"max_steps" yaml:"max_steps"`
	Discount     float64     `mapstructure:"gamma" yaml:"gamma"`
	LearningRate agent.Decay `mapstructure:"alpha" yaml:"alpha"`
	Epsilon      agent.Decay `mapstructure:"epsilon" yaml:"epsilon"`
}

// DefaultExtendedConfig returns the default configuration of Sarsa with
// a decaying learning rate
func DefaultExtendedConfig() ExtendedConfig {
	return ExtendedConfig{
		Episodes:     20000,
		MaxSteps:     100,
		Discount:     0.8,
		LearningRate: agent.Decay{Max: 1.0, Min: 0.8, Rate: 0.1},
		Epsilon:      agent.Decay{Max: 1.0, Min: 0.001, Rate: 0.1},
	}
}

// CreateAgent creates the agent from the ExtendedConfig
func (c ExtendedConfig) CreateAgent(env environment.Environment,
	task environment.Task, seed uint64) (agent.Agent, error) {
	s, err := NewExtended(env, task, c, seed)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the ExtendedConfig
func (c ExtendedConfig) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Sarsa)
	return ok
}

// Validate ensures that the ExtendedConfig is valid. All problems with
// the ExtendedConfig are reported together.
func (c ExtendedConfig) Validate() error {
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
	if e := c.LearningRate.Validate("alpha"); e != nil {
		err = multierror.Append(err, e)
	}
	if e := c.Epsilon.Validate("epsilon"); e != nil {
		err = multierror.Append(err, e)
	}
	return err
}

// Type returns the type of the agent constructed by the ExtendedConfig
func (c ExtendedConfig) Type() agent.Type {
	return agent.SarsaExtended
}
