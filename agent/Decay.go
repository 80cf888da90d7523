package agent

import (
	"fmt"
	"math"
)

// Decay is an exponentially decaying schedule of some hyper-parameter,
// evaluated once per episode:
//
//	value(e) = Min + (Max - Min) * exp(-Rate * e)
//
// so that value(0) = Max and value(e) approaches Min as e grows.
type Decay struct {
	Max  float64 `mapstructure:"max" yaml:"max"`
	Min  float64 `mapstructure:"min" yaml:"min"`
	Rate float64 `mapstructure:"rate" yaml:"rate"`
}

// Constant returns a Decay which is v for every episode
func Constant(v float64) Decay {
	return Decay{Max: v, Min: v, Rate: 0}
}

// At returns the value of the schedule for the 0-indexed episode e
func (d Decay) At(e int) float64 {
	return d.Min + (d.Max-d.Min)*math.Exp(-d.Rate*float64(e))
}

// Constant returns whether the schedule never changes
func (d Decay) Constant() bool {
	return d.Max == d.Min || d.Rate == 0
}

// Validate ensures that the bounds of the schedule lie in [0, 1], are not
// inverted, and that the decay rate is non-negative. The name is used to
// describe the schedule in errors.
func (d Decay) Validate(name string) error {
	if !(d.Min >= 0 && d.Max <= 1) {
		return fmt.Errorf("%w: %v bounds [%v, %v] not in [0, 1]",
			ErrInvalidConfig, name, d.Min, d.Max)
	}
	if d.Min > d.Max {
		return fmt.Errorf("%w: %v bounds inverted (min %v > max %v)",
			ErrInvalidConfig, name, d.Min, d.Max)
	}
	if d.Rate < 0 || math.IsNaN(d.Rate) {
		return fmt.Errorf("%w: %v decay rate %v < 0", ErrInvalidConfig,
			name, d.Rate)
	}
	return nil
}

func (d Decay) String() string {
	if d.Constant() {
		return fmt.Sprintf("%v", d.Max)
	}
	return fmt.Sprintf("%v-%v (rate %v)", d.Max, d.Min, d.Rate)
}
