package agent

import "github.com/samuelfneumann/tabular/timestep"

// EpisodeParams are the hyper-parameters of a single episode. Decaying
// hyper-parameters are computed once, before the episode starts, and
// are held fixed for the whole episode.
type EpisodeParams struct {
	Index        int
	Epsilon      float64
	LearningRate float64
}

// EpisodeResult summarizes a finished episode
type EpisodeResult struct {
	EpisodeParams

	// Return is the undiscounted sum of shaped rewards in the episode
	Return float64

	// Steps is the number of environment steps taken
	Steps int

	// End describes why the episode ended
	End timestep.EndType
}

// Goal returns whether the episode ended at a goal
func (e EpisodeResult) Goal() bool {
	return e.End == timestep.Goal
}
