package agent

import (
	"fmt"
	"strings"

	"github.com/samuelfneumann/tabular/environment"
)

// Config represents a configuration for creating an agent
type Config interface {
	// CreateAgent creates the agent that the config describes
	CreateAgent(env environment.Environment, task environment.Task,
		seed uint64) (Agent, error)

	// ValidAgent returns whether the argument agent is valid for the
	// Config
	ValidAgent(Agent) bool

	// Validate returns an error describing whether or not the
	// configuration is valid or not.
	Validate() error

	// Type returns the type of agent described by the Config
	Type() Type
}

// Type represents a specific type of an agent Config
type Type string

const (
	QLearning     Type = "QLearning"
	Sarsa         Type = "Sarsa"
	SarsaExtended Type = "SarsaExtended" // Sarsa with decaying alpha
	MonteCarlo    Type = "MonteCarlo"
)

// ParseType returns the Type named by s. Matching ignores case as well
// as '-' and '_' separators, so that "q-learning" and "QLearning" name
// the same Type.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(s)
	name = strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)

	switch name {
	case "qlearning", "q":
		return QLearning, nil
	case "sarsa":
		return Sarsa, nil
	case "sarsaextended", "extended":
		return SarsaExtended, nil
	case "montecarlo", "mc":
		return MonteCarlo, nil
	}

	return "", fmt.Errorf("parseType: %w: no such agent type %q",
		ErrInvalidConfig, s)
}
