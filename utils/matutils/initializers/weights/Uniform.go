package weights

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// UV initializes a matrix of weights using values drawn from a
// univariate distribution
type UV struct {
	distuv.Rander
}

// NewUV creates and returns a new UV
func NewUV(rand distuv.Rander) UV {
	if rand == nil {
		panic("rand cannot be nil")
	}
	return UV{rand}
}

// NewUniform returns an initializer which draws each weight from the
// uniform distribution over [min, max]
func NewUniform(min, max float64, seed uint64) UV {
	source := rand.NewSource(seed)
	return NewUV(distuv.Uniform{Min: min, Max: max, Src: source})
}

// Initialize initializes a matrix of weights using values drawn from
// a univariate distribution
func (u UV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	r, c := weights.Dims()
	for i := 0; i < r; i++ {
		row := weights.RawRowView(i)
		for j := 0; j < c; j++ {
			row[j] = u.Rand()
		}
	}
}
