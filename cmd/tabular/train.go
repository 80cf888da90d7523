package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/samuelfneumann/tabular/experiment"
	"github.com/samuelfneumann/tabular/render"
)

// trainKeys maps the flags of the train command to the configuration
// keys they override
var trainKeys = map[string]string{
	"algorithm":        "algorithm",
	"seed":             "seed",
	"map":              "environment.map",
	"slippery":         "environment.slippery",
	"output":           "output.dir",
	"evaluate":         "evaluation_runs",
	"checkpoint-every": "output.checkpoint_every",
}

// NewTrainCmd returns the command which trains an agent
func NewTrainCmd(root *cobra.Command) *cobra.Command {
	v := viper.New()

	c := &cobra.Command{
		Use:   "train",
		Args:  cobra.ExactArgs(0),
		Short: "Train an agent and save what it learns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := ReadConfig(v)
			if err != nil {
				return err
			}

			logger, closer, err := NewLogger()
			if err != nil {
				return err
			}
			defer closer.Close()

			return train(cmd, cfg, logger)
		},
	}
	root.AddCommand(c)

	c.Flags().StringP("algorithm", "a", "", "Agent to train: qlearning, "+
		"sarsa, sarsa_extended or montecarlo")
	c.Flags().Uint64("seed", 0, "Seed of all random sources")
	c.Flags().String("map", "", "Lake map: 4x4, 10x10 or comma separated "+
		"rows of S, F, H and G cells")
	c.Flags().Bool("slippery", true, "Whether the lake is slippery")
	c.Flags().StringP("output", "o", "", "Directory to save results in")
	c.Flags().Int("evaluate", 0, "Number of evaluation episodes")
	c.Flags().Int("checkpoint-every", 0, "Episodes between checkpoints")

	c.Flags().VisitAll(func(f *pflag.Flag) {
		if key, ok := trainKeys[f.Name]; ok {
			_ = v.BindPFlag(key, f)
		}
	})
	return c
}

func train(cmd *cobra.Command, cfg experiment.Config,
	logger *logrus.Logger) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("train: %v", err)
	}

	e, err := cfg.Create()
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	agentConf, err := cfg.AgentConfig()
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	e.SetLogger(logger)
	quiet := viper.GetBool("quiet")
	if !quiet {
		e.SetProgress(cmd.ErrOrStderr(), cfg.Episodes())
	}

	logger.WithFields(logrus.Fields{
		"algorithm": agentConf.Type(),
		"seed":      cfg.Seed,
		"config":    fmt.Sprintf("%+v", agentConf),
	}).Info("training started")

	if err := e.Run(); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if cfg.EvaluationRuns > 0 {
		if _, err := e.Evaluate(cfg.EvaluationRuns,
			cfg.EvaluationSteps); err != nil {
			return fmt.Errorf("train: %w", err)
		}
	}

	if err := e.Save(); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	name := string(agentConf.Type())
	if err := e.SaveArtifacts(cfg.Output.Dir, name,
		cfg.Output.Window); err != nil {
		return fmt.Errorf("train: %w", err)
	}

	summary, err := e.Summary()
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}
	summary.Algorithm = agentConf.Type()
	summary.Seed = cfg.Seed
	summary.Config = cfg

	filename := filepath.Join(cfg.Output.Dir, "summary.yaml")
	if err := summary.Save(filename); err != nil {
		return fmt.Errorf("train: %w", err)
	}
	logger.WithField("dir", cfg.Output.Dir).Info("results saved")

	if !quiet {
		grid, err := e.Grid()
		if err != nil {
			return fmt.Errorf("train: %w", err)
		}
		if grid != nil {
			fmt.Fprint(cmd.OutOrStdout(), render.Text(grid, true))
		}
		fmt.Fprintf(cmd.OutOrStdout(), "score over time: %v\n",
			summary.AverageReturn)
		if summary.Evaluation != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "score: %v\n", *summary.Evaluation)
		}
	}
	return nil
}

// register the subcommand into rootCmd
var _ = NewTrainCmd(rootCmd)
