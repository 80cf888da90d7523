package policy

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/utils/floatutils"
	"github.com/samuelfneumann/tabular/utils/matutils"
)

// Soft is a stochastic policy table with one row of action selection
// weights per state. Improved rows are epsilon-soft: the greedy action
// has weight 1 - epsilon + epsilon/|A| and every other action has
// weight epsilon/|A|, so that each row sums to 1.
//
// Actions are sampled by inverse CDF sampling over the unnormalized
// weights of a row, so rows need not sum to exactly 1.
type Soft struct {
	weights *mat.Dense
	rng     *rand.Rand
}

// NewSoft returns a new Soft policy which selects actions uniformly at
// random in every state
func NewSoft(states, actions int, seed uint64) (*Soft, error) {
	if actions <= 0 {
		return nil, fmt.Errorf("newSoft: %w", agent.ErrEmptyActionSet)
	}
	if states <= 0 {
		return nil, fmt.Errorf("newSoft: %w: %d states",
			agent.ErrInvalidConfig, states)
	}

	weights := mat.NewDense(states, actions, nil)
	weights.Apply(func(int, int, float64) float64 {
		return 1.0 / float64(actions)
	}, weights)

	return &Soft{weights, rand.New(rand.NewSource(seed))}, nil
}

// NewSoftFrom returns a new Soft policy with the argument initial
// weights. The weights are copied. Weights must be non-negative and
// each row must have some positive weight.
func NewSoftFrom(weights mat.Matrix, seed uint64) (*Soft, error) {
	if weights == nil {
		return nil, fmt.Errorf("newSoftFrom: %w: nil weights",
			agent.ErrInvalidConfig)
	}

	w := mat.DenseCopyOf(weights)
	states, _ := w.Dims()
	for s := 0; s < states; s++ {
		if err := validRow(w.RawRowView(s)); err != nil {
			return nil, fmt.Errorf("newSoftFrom: state %d: %w", s, err)
		}
	}

	return &Soft{w, rand.New(rand.NewSource(seed))}, nil
}

// SelectAction samples an action in state. A uniform value u is drawn
// from [0, sum of the state's weights) and the first action whose
// cumulative weight exceeds u is returned.
func (s *Soft) SelectAction(state int) (int, error) {
	states, _ := s.weights.Dims()
	if state < 0 || state >= states {
		return 0, fmt.Errorf("selectAction: %w: state %d not in [0, %d)",
			agent.ErrContractViolation, state, states)
	}

	row := s.weights.RawRowView(state)
	total := floats.Sum(row)
	if !(total > 0) {
		return 0, fmt.Errorf("selectAction: %w: state %d has no positive "+
			"action weight", agent.ErrInvalidConfig, state)
	}

	u := s.rng.Float64() * total
	cumulative := 0.0
	last := 0
	for a, w := range row {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = a
		if cumulative > u {
			return a, nil
		}
	}

	// Rounding may leave u just above the final cumulative weight
	return last, nil
}

// Improve makes the policy in state epsilon-soft with respect to the
// action values and returns the new greedy action. Ties among the
// maximizing actions are broken uniformly at random.
func (s *Soft) Improve(state int, values []float64,
	epsilon float64) (int, error) {
	states, actions := s.weights.Dims()
	if state < 0 || state >= states {
		return 0, fmt.Errorf("improve: %w: state %d not in [0, %d)",
			agent.ErrContractViolation, state, states)
	}
	if len(values) != actions {
		return 0, fmt.Errorf("improve: %w: %d values for %d actions",
			agent.ErrInvalidConfig, len(values), actions)
	}
	if !(epsilon >= 0 && epsilon <= 1) {
		return 0, fmt.Errorf("improve: %w: epsilon %v not in [0, 1]",
			agent.ErrInvalidConfig, epsilon)
	}

	_, maxIndices := floatutils.MaxSlice(values)
	greedy := maxIndices[0]
	if len(maxIndices) > 1 {
		greedy = maxIndices[s.rng.Intn(len(maxIndices))]
	}

	row := s.weights.RawRowView(state)
	residual := epsilon / float64(actions)
	for a := range row {
		row[a] = residual
	}
	row[greedy] = 1 - epsilon + residual

	return greedy, nil
}

// Probabilities returns a copy of the action selection weights of state
func (s *Soft) Probabilities(state int) []float64 {
	return mat.Row(nil, state, s.weights)
}

// Greedy returns the action with the largest weight in state
func (s *Soft) Greedy(state int) int {
	return matutils.MaxRow(s.weights, state)
}

// Dims returns the number of states and actions of the policy
func (s *Soft) Dims() (states, actions int) {
	return s.weights.Dims()
}

// Matrix returns a read-only view of the policy weights
func (s *Soft) Matrix() mat.Matrix {
	return s.weights
}

func (s *Soft) String() string {
	return matutils.Format(s.weights)
}

// MarshalBinary implements the encoding.BinaryMarshaler interface. The
// random source of the policy is not encoded.
func (s *Soft) MarshalBinary() ([]byte, error) {
	weights, err := s.weights.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshalBinary: %v", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(weights); err != nil {
		return nil, fmt.Errorf("marshalBinary: %v", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface.
// If the policy has no random source yet, one seeded with 0 is created.
func (s *Soft) UnmarshalBinary(data []byte) error {
	var raw []byte
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&raw); err != nil {
		return fmt.Errorf("unmarshalBinary: %v", err)
	}

	weights := &mat.Dense{}
	if err := weights.UnmarshalBinary(raw); err != nil {
		return fmt.Errorf("unmarshalBinary: %v", err)
	}

	s.weights = weights
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(0))
	}
	return nil
}

func validRow(row []float64) error {
	total := 0.0
	for a, w := range row {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: action %d has weight %v",
				agent.ErrInvalidConfig, a, w)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("%w: no positive action weight",
			agent.ErrInvalidConfig)
	}
	return nil
}
