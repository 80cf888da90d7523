package experiment

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/tabular/agent"
)

// Summary summarizes a finished experiment
type Summary struct {
	Algorithm agent.Type `yaml:"algorithm"`
	Seed      uint64     `yaml:"seed"`
	Episodes  int        `yaml:"episodes"`

	// AverageReturn is the total return of all episodes divided by the
	// number of episodes, the score over time of training
	AverageReturn float64 `yaml:"average_return"`
	Goals         int     `yaml:"goals"`
	MeanSteps     float64 `yaml:"mean_steps"`

	// Evaluation is the fraction of evaluation episodes which reached
	// a goal, if the agent was evaluated
	Evaluation *float64 `yaml:"evaluation,omitempty"`

	// Policy is the text rendering of the greedy policy, one row per
	// line, if the environment is a grid
	Policy []string `yaml:"policy,omitempty"`

	Config Config `yaml:"config"`
}

// Save writes the Summary to filename as YAML
func (s Summary) Save(filename string) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}

// LoadSummary reads a Summary saved in filename
func LoadSummary(filename string) (Summary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Summary{}, fmt.Errorf("loadSummary: %v", err)
	}

	var s Summary
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Summary{}, fmt.Errorf("loadSummary: %v", err)
	}
	return s, nil
}
