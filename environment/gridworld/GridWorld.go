// Package gridworld implements a 2D frozen lake gridworld with discrete
// states and actions
package gridworld

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/samuelfneumann/tabular/environment"
	"github.com/samuelfneumann/tabular/timestep"
)

// Actions of the GridWorld
const (
	Left int = iota
	Down
	Right
	Up

	Actions int = 4
)

// GridWorld represents a frozen lake gridworld environment
//
// A gridworld is represented as a flattened matrix, but in this
// implementation only the Lake and current agent position are tracked.
// Entering a hole or a goal ends the episode. The environment's own
// reward is 1.0 on entering a goal and 0.0 otherwise.
//
// If the GridWorld is slippery, the agent moves in the intended
// direction with probability 1/3 and in each of the two perpendicular
// directions with probability 1/3.
type GridWorld struct {
	environment.Starter
	lake     *Lake
	position int
	slippery bool

	rng         *rand.Rand
	slip        distuv.Categorical
	ender       environment.Ender
	currentStep timestep.TimeStep
}

// New creates a new GridWorld on lake. If cutoff > 0, episodes are
// additionally ended after cutoff steps.
func New(lake *Lake, slippery bool, cutoff int,
	seed uint64) (*GridWorld, timestep.TimeStep, error) {
	if lake == nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w: nil lake",
			environment.ErrInvalidConfig)
	}

	starter, err := environment.NewCategoricalStarter(lake.Starts(), seed)
	if err != nil {
		return nil, timestep.TimeStep{}, fmt.Errorf("new: %w", err)
	}

	var ender environment.Ender
	if cutoff > 0 {
		ender = environment.NewStepLimit(cutoff)
	}

	source := rand.NewSource(seed + 1)
	third := 1.0 / 3.0

	g := &GridWorld{
		Starter:  starter,
		lake:     lake,
		slippery: slippery,
		rng:      rand.New(rand.NewSource(seed + 2)),
		slip:     distuv.NewCategorical([]float64{third, third, third}, source),
		ender:    ender,
	}

	step, err := g.Reset()
	return g, step, err
}

// Lake returns the Lake the GridWorld is played on
func (g *GridWorld) Lake() *Lake {
	return g.lake
}

// States returns the number of states in the GridWorld
func (g *GridWorld) States() int {
	return g.lake.States()
}

// Actions returns the number of actions in the GridWorld
func (g *GridWorld) Actions() int {
	return Actions
}

// SampleAction returns a uniformly random action
func (g *GridWorld) SampleAction() int {
	return g.rng.Intn(Actions)
}

// Reset resets the GridWorld to a starting state
func (g *GridWorld) Reset() (timestep.TimeStep, error) {
	g.position = g.Start()
	startStep := timestep.New(timestep.First, 0, 1.0, g.position, 0)
	g.currentStep = startStep
	return startStep, nil
}

// Step takes one step in the GridWorld
func (g *GridWorld) Step(action int) (timestep.TimeStep, bool, error) {
	if action < 0 || action >= Actions {
		return timestep.TimeStep{}, false, fmt.Errorf("step: action %d "+
			"not in [0, %d)", action, Actions)
	}
	if g.currentStep.Last() {
		return timestep.TimeStep{}, false, fmt.Errorf("step: episode " +
			"has ended, call Reset()")
	}

	direction := action
	if g.slippery {
		// Slip to the perpendicular direction on either side
		direction = (action + int(g.slip.Rand()) - 1 + Actions) % Actions
	}

	x, y := g.Coordinates()
	r, c := g.lake.Dims()

	// Move the current position
	switch direction {
	case Left:
		if newX := x - 1; newX >= 0 {
			x = newX
		}

	case Down:
		if newY := y + 1; newY < r {
			y = newY
		}

	case Right:
		if newX := x + 1; newX < c {
			x = newX
		}

	case Up:
		if newY := y - 1; newY >= 0 {
			y = newY
		}
	}
	g.position = cToInd(x, y, c)

	// Get information to pass back
	reward := 0.0
	number := g.currentStep.Number + 1
	stepType := timestep.Mid

	step := timestep.New(stepType, reward, 1.0, g.position, number)

	// Check if this transition is to the end state
	switch g.lake.At(g.position) {
	case Goal:
		step.Reward = 1.0
		step.StepType = timestep.Last
		step.SetEnd(timestep.Goal)

	case Hole:
		step.StepType = timestep.Last
		step.SetEnd(timestep.Hole)

	default:
		if g.ender != nil {
			g.ender.End(&step)
		}
	}

	g.currentStep = step
	return step, step.Last(), nil
}

// Coordinates returns the (x, y) coordinates of the agent, where x is
// the column and y the row
func (g *GridWorld) Coordinates() (int, int) {
	_, c := g.lake.Dims()
	y := g.position / c
	x := g.position - (y * c)
	return x, y
}

func (g *GridWorld) String() string {
	str := "GridWorld | At: %v  |  Bounds: (%d, %d)  |  Slippery: %v"
	x, y := g.Coordinates()
	r, c := g.lake.Dims()

	return fmt.Sprintf(str, []int{x, y}, r, c, g.slippery)
}

func cToInd(x, y, c int) int {
	return y*c + x
}
