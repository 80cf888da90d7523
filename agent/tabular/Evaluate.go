package tabular

import (
	"fmt"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/environment"
)

// Evaluate runs selector on env for the argument number of episodes
// and returns the fraction of episodes which ended at a goal of task.
// No learning is performed. If maxSteps > 0, episodes are cut off after
// maxSteps steps; otherwise env must guarantee termination.
func Evaluate(env environment.Environment, task environment.Task,
	selector agent.Selector, runs, maxSteps int) (float64, error) {
	if runs <= 0 {
		return 0, fmt.Errorf("evaluate: %w: runs %d <= 0",
			agent.ErrInvalidConfig, runs)
	}

	runner, err := NewRunner(env, task, 1.0, maxSteps)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}

	wins := 0
	for i := 0; i < runs; i++ {
		step, err := runner.Reset()
		if err != nil {
			return 0, fmt.Errorf("evaluate: %w", err)
		}

		for !step.Last() {
			action, err := selector.SelectAction(step.State)
			if err != nil {
				return 0, fmt.Errorf("evaluate: %w", err)
			}

			if step, err = runner.Step(step, action); err != nil {
				return 0, fmt.Errorf("evaluate: %w", err)
			}
		}

		if task.AtGoal(step.State) {
			wins++
		}
	}

	return float64(wins) / float64(runs), nil
}
