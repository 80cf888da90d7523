// Package tabular implements the value tables and episode plumbing
// shared by tabular control agents
package tabular

import (
	"bytes"
	"encoding/gob"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/tabular/agent"
	"github.com/samuelfneumann/tabular/utils/matutils"
	"github.com/samuelfneumann/tabular/utils/matutils/initializers/weights"
)

// InitNoise is the upper bound of the uniform noise that non-terminal
// action values are initialized with
const InitNoise float64 = 1e-3

// ValueTable is a dense table of action value estimates, with one row
// per state and one column per action.
//
// Rows of terminal states are frozen: they are zero when the table is
// created and Set and Update leave them untouched for the lifetime of
// the table.
type ValueTable struct {
	values *mat.Dense
	frozen []bool
}

// NewValueTable returns a new ValueTable with the argument number of
// states and actions. All weights are initialized by init, after which
// the rows of terminal states are zeroed and frozen.
func NewValueTable(states, actions int, init weights.Initializer,
	terminals []int) (*ValueTable, error) {
	if actions <= 0 {
		return nil, fmt.Errorf("newValueTable: %w", agent.ErrEmptyActionSet)
	}
	if states <= 0 {
		return nil, fmt.Errorf("newValueTable: %w: %d states",
			agent.ErrInvalidConfig, states)
	}

	values := mat.NewDense(states, actions, nil)
	if init != nil {
		init.Initialize(values)
	}

	frozen := make([]bool, states)
	for _, s := range terminals {
		if s < 0 || s >= states {
			return nil, fmt.Errorf("newValueTable: %w: terminal state %d "+
				"not in [0, %d)", agent.ErrInvalidConfig, s, states)
		}
		frozen[s] = true
		values.SetRow(s, make([]float64, actions))
	}

	return &ValueTable{values, frozen}, nil
}

// NewUniformValueTable returns a new ValueTable whose non-terminal
// entries are drawn uniformly from [0, InitNoise]
func NewUniformValueTable(states, actions int, terminals []int,
	seed uint64) (*ValueTable, error) {
	init := weights.NewUniform(0, InitNoise, seed)
	return NewValueTable(states, actions, init, terminals)
}

// Dims returns the number of states and actions of the table
func (v *ValueTable) Dims() (states, actions int) {
	return v.values.Dims()
}

// At returns the value of action in state
func (v *ValueTable) At(state, action int) float64 {
	return v.values.At(state, action)
}

// Set sets the value of action in state. Frozen rows are not modified.
func (v *ValueTable) Set(state, action int, value float64) {
	if v.frozen[state] {
		return
	}
	v.values.Set(state, action, value)
}

// Frozen returns whether the row of state is frozen
func (v *ValueTable) Frozen(state int) bool {
	return v.frozen[state]
}

// Row returns a copy of the action values of state
func (v *ValueTable) Row(state int) []float64 {
	return mat.Row(nil, state, v.values)
}

// Max returns the maximum action value in state
func (v *ValueTable) Max(state int) float64 {
	return floats.Max(v.values.RawRowView(state))
}

// Greedy returns the action with the largest value in state. Ties are
// broken by the lowest action index.
func (v *ValueTable) Greedy(state int) int {
	return matutils.MaxRow(v.values, state)
}

// Mean returns the average action value in state
func (v *ValueTable) Mean(state int) float64 {
	row := v.values.RawRowView(state)
	return floats.Sum(row) / float64(len(row))
}

// Update moves the value of action in state towards target by a step of
// size learningRate and returns the TD error target - value. Frozen
// rows are not modified.
func (v *ValueTable) Update(state, action int, learningRate,
	target float64) float64 {
	current := v.values.At(state, action)
	tdError := target - current

	if !v.frozen[state] {
		v.values.Set(state, action, current+learningRate*tdError)
	}
	return tdError
}

// Clone returns a deep copy of the table
func (v *ValueTable) Clone() *ValueTable {
	values := mat.DenseCopyOf(v.values)
	frozen := make([]bool, len(v.frozen))
	copy(frozen, v.frozen)
	return &ValueTable{values, frozen}
}

// Matrix returns a read-only view of the table as a matrix
func (v *ValueTable) Matrix() mat.Matrix {
	return v.values
}

type valueTableData struct {
	Values []byte
	Frozen []bool
}

// MarshalBinary implements the encoding.BinaryMarshaler interface
func (v *ValueTable) MarshalBinary() ([]byte, error) {
	values, err := v.values.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshalBinary: %v", err)
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(valueTableData{values, v.frozen}); err != nil {
		return nil, fmt.Errorf("marshalBinary: %v", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements the encoding.BinaryUnmarshaler interface
func (v *ValueTable) UnmarshalBinary(data []byte) error {
	var d valueTableData
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&d); err != nil {
		return fmt.Errorf("unmarshalBinary: %v", err)
	}

	values := &mat.Dense{}
	if err := values.UnmarshalBinary(d.Values); err != nil {
		return fmt.Errorf("unmarshalBinary: %v", err)
	}
	if r, _ := values.Dims(); r != len(d.Frozen) {
		return fmt.Errorf("unmarshalBinary: %d rows but %d frozen flags", r,
			len(d.Frozen))
	}

	v.values = values
	v.frozen = d.Frozen
	return nil
}

func (v *ValueTable) String() string {
	return matutils.Format(v.values)
}
