// Package experiment implements functionality for running an experiment
package experiment

import (
	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/experiment/tracker"
)

// Interface Experiment outlines structs that can run experiments.
// The Run() method runs all episodes of the experiment, one after
// another, and the RunEpisode() method runs a single episode. The Save()
// method saves all data tracked during the experiment to disk and is
// usually called after the experiment has been run.
//
// In order to save data, Experiments use Trackers. Experiments register
// each Tracker with their agent, which sends every TimeStep it sees to
// the Tracker's Track() method. The Tracker then determines which data
// from the TimeStep it caches and saves. New Trackers can be registered
// with an Experiment through the constructor or through an
// Experiment's Register() method.
type Experiment interface {
	Run() error
	RunEpisode() (agent.EpisodeResult, error)

	// Save all tracked data to disk
	Save() error

	// Adds a new tracker.Tracker to the (possibly already running)
	// experiment. Useful if you want to track data only after a
	// specified event.
	Register(t tracker.Tracker)
}
