package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/samuelfneumann/tabular/environment/gridworld"
	"github.com/samuelfneumann/tabular/experiment"
)

// newRoot returns a root command with all subcommands whose persistent
// flags are bound to a freshly reset global viper
func newRoot(t *testing.T) *cobra.Command {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := NewRootCmd()
	NewTrainCmd(root)
	NewConfigCmd(root)
	NewVersionCmd(root)
	return root
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return file
}

func TestReadConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	content := "algorithm: sarsa\n" +
		"environment:\n" +
		"  map: 10x10\n" +
		"sarsa:\n" +
		"  episodes: 7\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	root := newRoot(t)
	if err := root.PersistentFlags().Set("config", file); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TABULAR_SEED", "7")

	cfg, err := ReadConfig(viper.New())
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Algorithm != "sarsa" {
		t.Errorf("algorithm: want(sarsa) got(%v)", cfg.Algorithm)
	}
	if cfg.Sarsa.Episodes != 7 {
		t.Errorf("episodes: want(7) got(%v)", cfg.Sarsa.Episodes)
	}
	if cfg.Seed != 7 {
		t.Errorf("seed: want(7) got(%v)", cfg.Seed)
	}
	if len(cfg.Environment.Map) != len(gridworld.FrozenLake10x10) {
		t.Errorf("map: want 10x10 map got %v", cfg.Environment.Map)
	}

	// Values which are not overridden keep their defaults
	defaults := experiment.DefaultConfig()
	if cfg.Sarsa.MaxSteps != defaults.Sarsa.MaxSteps {
		t.Errorf("max steps: want(%v) got(%v)", defaults.Sarsa.MaxSteps,
			cfg.Sarsa.MaxSteps)
	}
	if cfg.QLearning != defaults.QLearning {
		t.Errorf("qlearning: want(%+v) got(%+v)", defaults.QLearning,
			cfg.QLearning)
	}
}

func TestLakeMapHook(t *testing.T) {
	newRoot(t)
	t.Setenv("TABULAR_ENVIRONMENT_MAP", "SF, HG")

	cfg, err := ReadConfig(viper.New())
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"SF", "HG"}
	if strings.Join(cfg.Environment.Map, ",") != strings.Join(want, ",") {
		t.Errorf("map: want(%v) got(%v)", want, cfg.Environment.Map)
	}
}

func TestTrain(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := "algorithm: montecarlo\n" +
		"montecarlo:\n" +
		"  episodes: 20\n" +
		"evaluation_runs: 10\n"
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "results")
	var stdout bytes.Buffer
	root := newRoot(t)
	root.SetOut(&stdout)
	root.SetErr(&stdout)
	root.SetArgs([]string{"train", "--config", file, "--quiet",
		"-o", out, "--seed", "3"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}

	summary, err := experiment.LoadSummary(filepath.Join(out,
		"summary.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if summary.Episodes != 20 {
		t.Errorf("episodes: want(20) got(%v)", summary.Episodes)
	}
	if summary.Seed != 3 {
		t.Errorf("seed: want(3) got(%v)", summary.Seed)
	}
	if summary.Evaluation == nil {
		t.Error("evaluation: agent was not evaluated")
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout: want nothing in quiet mode got %q", stdout.String())
	}
}

func TestConfigFileBetweenRuns(t *testing.T) {
	for _, episodes := range []int{7, 9} {
		file := writeFile(t, "config.yaml",
			fmt.Sprintf("sarsa:\n  episodes: %d\n", episodes))

		var stdout bytes.Buffer
		root := newRoot(t)
		root.SetOut(&stdout)
		root.SetArgs([]string{"config", "--config", file})
		if err := root.Execute(); err != nil {
			t.Fatal(err)
		}

		var cfg experiment.Config
		if err := yaml.Unmarshal(stdout.Bytes(), &cfg); err != nil {
			t.Fatal(err)
		}
		if cfg.Sarsa.Episodes != episodes {
			t.Errorf("episodes: want(%v) got(%v)", episodes,
				cfg.Sarsa.Episodes)
		}
	}
}
