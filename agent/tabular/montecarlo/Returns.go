package montecarlo

import (
	"gonum.org/v1/gonum/stat"
)

// Returns is the ledger of first-visit returns observed for each
// state-action pair
type Returns struct {
	actions int
	ledger  [][]float64
}

// NewReturns returns a new, empty ledger
func NewReturns(states, actions int) *Returns {
	return &Returns{
		actions: actions,
		ledger:  make([][]float64, states*actions),
	}
}

// Add appends a return for action in state
func (r *Returns) Add(state, action int, g float64) {
	i := r.index(state, action)
	r.ledger[i] = append(r.ledger[i], g)
}

// Mean returns the mean of all returns of action in state, or 0 if no
// return has been observed
func (r *Returns) Mean(state, action int) float64 {
	returns := r.ledger[r.index(state, action)]
	if len(returns) == 0 {
		return 0
	}
	return stat.Mean(returns, nil)
}

// Count returns the number of returns observed for action in state
func (r *Returns) Count(state, action int) int {
	return len(r.ledger[r.index(state, action)])
}

// Of returns a copy of the returns observed for action in state
func (r *Returns) Of(state, action int) []float64 {
	returns := r.ledger[r.index(state, action)]
	out := make([]float64, len(returns))
	copy(out, returns)
	return out
}

func (r *Returns) index(state, action int) int {
	return state*r.actions + action
}
