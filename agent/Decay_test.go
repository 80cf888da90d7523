package agent

import (
	"errors"
	"math"
	"testing"
)

func TestDecayMonotone(t *testing.T) {
	d := Decay{Max: 1.0, Min: 0.01, Rate: 0.001}

	if math.Abs(d.At(0)-d.Max) > 1e-12 {
		t.Errorf("at(0): want(%v) got(%v)", d.Max, d.At(0))
	}

	last := d.At(0)
	for e := 1; e < 10000; e++ {
		v := d.At(e)
		if v > last {
			t.Fatalf("at(%v): %v > at(%v) = %v", e, v, e-1, last)
		}
		if v < d.Min {
			t.Fatalf("at(%v): %v < min %v", e, v, d.Min)
		}
		last = v
	}

	if v := d.At(math.MaxInt32); math.Abs(v-d.Min) > 1e-12 {
		t.Errorf("at(∞): want(%v) got(%v)", d.Min, v)
	}
}

func TestDecayConstant(t *testing.T) {
	c := Constant(0.3)
	if !c.Constant() {
		t.Error("constant: want(true) got(false)")
	}
	for _, e := range []int{0, 1, 100} {
		if c.At(e) != 0.3 {
			t.Errorf("at(%v): want(0.3) got(%v)", e, c.At(e))
		}
	}
}

func TestDecayValidate(t *testing.T) {
	tests := []struct {
		name  string
		decay Decay
		err   error
	}{
		{"valid", Decay{Max: 1, Min: 0.1, Rate: 0.1}, nil},
		{"inverted", Decay{Max: 0.1, Min: 0.5, Rate: 0.1}, ErrInvalidConfig},
		{"aboveOne", Decay{Max: 1.5, Min: 0.1, Rate: 0.1}, ErrInvalidConfig},
		{"belowZero", Decay{Max: 1, Min: -0.1, Rate: 0.1}, ErrInvalidConfig},
		{"negativeRate", Decay{Max: 1, Min: 0.1, Rate: -1}, ErrInvalidConfig},
		{"nanMax", Decay{Max: math.NaN(), Min: 0.1, Rate: 0.1},
			ErrInvalidConfig},
		{"nanMin", Decay{Max: 1, Min: math.NaN(), Rate: 0.1},
			ErrInvalidConfig},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if err := test.decay.Validate("epsilon"); !errors.Is(err,
				test.err) {
				t.Errorf("validate: want(%v) got(%v)", test.err, err)
			}
		})
	}
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"q-learning":     QLearning,
		"QLearning":      QLearning,
		"sarsa":          Sarsa,
		"sarsa_extended": SarsaExtended,
		"MC":             MonteCarlo,
		"monte-carlo":    MonteCarlo,
	}

	for in, want := range tests {
		got, err := ParseType(in)
		if err != nil {
			t.Errorf("parseType(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("parseType(%q): want(%v) got(%v)", in, want, got)
		}
	}

	if _, err := ParseType("dqn"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("parseType: want(%v) got(%v)", ErrInvalidConfig, err)
	}
}
