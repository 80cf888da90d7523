package experiment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/agent/tabular"
	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/experiment/checkpointer"
	"github.com/samuelfneumann/tabular/experiment/plot"
	"github.com/samuelfneumann/tabular/experiment/tracker"
	"github.com/samuelfneumann/tabular/render"
	"github.com/samuelfneumann/tabular/utils/logging"
	"github.com/samuelfneumann/tabular/utils/progressbar"
)

// Episodic is an Experiment that trains an agent for all of its
// configured episodes, one after another
type Episodic struct {
	env          environment.Environment
	task         environment.Task
	agent        agent.Agent
	trackers     []tracker.Tracker
	checkpointer []checkpointer.Checkpointer
	logger       logrus.FieldLogger
	progress     *progressbar.ManualProgressBar

	rows, cols int
	results    []agent.EpisodeResult
	evaluation *float64
}

// NewEpisodic creates and returns a new episodic experiment of agent a
// on env. The trackers determine which data is saved and the
// checkpointers when what the agent learned is saved.
func NewEpisodic(env environment.Environment, task environment.Task,
	a agent.Agent, t []tracker.Tracker,
	c []checkpointer.Checkpointer) *Episodic {
	e := &Episodic{
		env:          env,
		task:         task,
		agent:        a,
		checkpointer: c,
		logger:       logging.NewNullLogger(),
	}

	for _, tr := range t {
		e.Register(tr)
	}
	return e
}

// Register registers a tracker.Tracker with the Experiment so that data
// generated during the experiment can be tracked and saved
func (e *Episodic) Register(t tracker.Tracker) {
	e.trackers = append(e.trackers, t)
	e.agent.Register(t)
}

// SetLogger sets the logger of the Experiment and its agent
func (e *Episodic) SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logging.NewNullLogger()
	}
	e.logger = l
	e.agent.SetLogger(l)
}

// SetProgress displays a progress bar of the argument total number of
// episodes on w
func (e *Episodic) SetProgress(w io.Writer, total int) {
	e.progress = progressbar.NewManualProgressBar(w, 40, total)
}

// SetGrid sets the shape of the grid that the states of the environment
// are laid out on, so that what the agent learns can be rendered
func (e *Episodic) SetGrid(rows, cols int) {
	e.rows, e.cols = rows, cols
}

// Agent returns the agent of the experiment
func (e *Episodic) Agent() agent.Agent {
	return e.agent
}

// Results returns the results of all finished episodes
func (e *Episodic) Results() []agent.EpisodeResult {
	results := make([]agent.EpisodeResult, len(e.results))
	copy(results, e.results)
	return results
}

// RunEpisode runs a single episode of the experiment
func (e *Episodic) RunEpisode() (agent.EpisodeResult, error) {
	result, err := e.agent.RunEpisode()
	if err != nil {
		return agent.EpisodeResult{}, fmt.Errorf("runEpisode: %w", err)
	}
	e.results = append(e.results, result)

	for _, c := range e.checkpointer {
		if err := c.Checkpoint(len(e.results)); err != nil {
			return result, fmt.Errorf("runEpisode: %w", err)
		}
	}

	if e.progress != nil {
		e.progress.Increment()
		e.progress.Display()
	}

	if result.Goal() {
		e.logger.WithField("episode", result.Index).Debug("goal reached")
	}
	return result, nil
}

// Run runs the experiment until the agent has run all of its episodes
func (e *Episodic) Run() error {
	for !e.agent.Done() {
		if _, err := e.RunEpisode(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}

	if e.progress != nil {
		e.progress.Close()
	}

	e.logger.WithFields(logrus.Fields{
		"episodes":      len(e.results),
		"averageReturn": e.averageReturn(),
		"goals":         e.goals(),
	}).Info("training finished")
	return nil
}

// Evaluate evaluates the agent on the argument number of runs, cutting
// off runs after maxSteps steps if maxSteps > 0, and returns the
// fraction of runs which reached a goal
func (e *Episodic) Evaluate(runs, maxSteps int) (float64, error) {
	score, err := tabular.Evaluate(e.env, e.task, e.agent.Evaluator(), runs,
		maxSteps)
	if err != nil {
		return 0, fmt.Errorf("evaluate: %w", err)
	}

	e.evaluation = &score
	e.logger.WithFields(logrus.Fields{
		"runs":  runs,
		"score": score,
	}).Info("evaluation finished")
	return score, nil
}

// Grid returns the rendering of the greedy policy of the agent, or nil
// if no grid shape has been set
func (e *Episodic) Grid() (*render.Grid, error) {
	if e.rows <= 0 || e.cols <= 0 {
		return nil, nil
	}
	return render.NewGrid(e.agent.Snapshot(), e.task, e.rows, e.cols)
}

// Summary summarizes the experiment
func (e *Episodic) Summary() (Summary, error) {
	s := Summary{
		Episodes:      len(e.results),
		AverageReturn: e.averageReturn(),
		Goals:         e.goals(),
		Evaluation:    e.evaluation,
	}

	if len(e.results) > 0 {
		steps := make([]float64, len(e.results))
		for i, r := range e.results {
			steps[i] = float64(r.Steps)
		}
		s.MeanSteps = stat.Mean(steps, nil)
	}

	grid, err := e.Grid()
	if err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}
	if grid != nil {
		s.Policy = strings.Split(strings.TrimRight(render.Text(grid, false),
			"\n"), "\n")
	}
	return s, nil
}

// Save saves all the data cached by the Trackers to disk
func (e *Episodic) Save() error {
	var err error
	for _, t := range e.trackers {
		if saveErr := t.Save(); saveErr != nil {
			err = multierror.Append(err, saveErr)
		}
	}
	return err
}

// SaveArtifacts saves plots of the tracked data and renderings of what
// the agent learned in dir. The name labels the agent in the plots.
func (e *Episodic) SaveArtifacts(dir, name string, window int) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("saveArtifacts: %v", err)
	}

	var series []plot.Series
	for _, t := range e.trackers {
		if _, ok := t.(*tracker.Return); ok {
			series = append(series, plot.Series{Name: name, Values: t.Data()})
		}
	}

	var err error
	if len(series) > 0 {
		title := fmt.Sprintf("%v returns", name)
		png := filepath.Join(dir, "returns.png")
		if plotErr := plot.Returns(png, title, window,
			series...); plotErr != nil {
			err = multierror.Append(err, plotErr)
		}

		if chartErr := saveChart(filepath.Join(dir, "returns.html"), title,
			window, series); chartErr != nil {
			err = multierror.Append(err, chartErr)
		}
	}

	grid, gridErr := e.Grid()
	if gridErr != nil {
		err = multierror.Append(err, gridErr)
	} else if grid != nil {
		if renderErr := render.SavePNG(filepath.Join(dir, "policy.png"),
			grid); renderErr != nil {
			err = multierror.Append(err, renderErr)
		}

		text := []byte(render.Text(grid, false))
		if writeErr := os.WriteFile(filepath.Join(dir, "policy.txt"), text,
			0o644); writeErr != nil {
			err = multierror.Append(err, writeErr)
		}
	}

	return err
}

func saveChart(filename, title string, window int,
	series []plot.Series) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("saveChart: %v", err)
	}
	defer file.Close()

	return plot.ReturnsChart(file, title, window, series...)
}

func (e *Episodic) averageReturn() float64 {
	if len(e.results) == 0 {
		return 0
	}

	returns := make([]float64, len(e.results))
	for i, r := range e.results {
		returns[i] = r.Return
	}
	return floats.Sum(returns) / float64(len(returns))
}

func (e *Episodic) goals() int {
	goals := 0
	for _, r := range e.results {
		if r.Goal() {
			goals++
		}
	}
	return goals
}
