package policy

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"

	"github.com/samuelfneumann/tabular/agent"
)

func TestNewSoft(t *testing.T) {
	p, err := NewSoft(5, 4, 1)
	if err != nil {
		t.Fatal(err)
	}

	for s := 0; s < 5; s++ {
		probs := p.Probabilities(s)
		if !scalar.EqualWithinAbs(floats.Sum(probs), 1.0, 1e-12) {
			t.Errorf("probabilities(%v): sum want(1) got(%v)", s,
				floats.Sum(probs))
		}
		for _, prob := range probs {
			if prob != 0.25 {
				t.Errorf("probabilities(%v): want(0.25) got(%v)", s, prob)
			}
		}
	}

	if _, err := NewSoft(5, 0, 1); !errors.Is(err, agent.ErrEmptyActionSet) {
		t.Errorf("newSoft: want(%v) got(%v)", agent.ErrEmptyActionSet, err)
	}
}

func TestNewSoftFrom(t *testing.T) {
	tests := []struct {
		name    string
		weights []float64
		err     error
	}{
		{"valid", []float64{0.2, 0.2, 0.2, 0.2}, nil},
		{"negative", []float64{-0.1, 0.5, 0.5, 0.1}, agent.ErrInvalidConfig},
		{"zero", []float64{0, 0, 0, 0}, agent.ErrInvalidConfig},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := mat.NewDense(1, 4, test.weights)
			_, err := NewSoftFrom(w, 1)
			if !errors.Is(err, test.err) {
				t.Errorf("newSoftFrom: want(%v) got(%v)", test.err, err)
			}
		})
	}
}

func TestSoftImprove(t *testing.T) {
	p, err := NewSoft(2, 4, 1)
	if err != nil {
		t.Fatal(err)
	}

	const epsilon = 0.2
	greedy, err := p.Improve(1, []float64{0.1, 0.7, 0.3, 0.2}, epsilon)
	if err != nil {
		t.Fatal(err)
	}
	if greedy != 1 {
		t.Errorf("improve: want(1) got(%v)", greedy)
	}

	want := []float64{0.05, 0.85, 0.05, 0.05}
	probs := p.Probabilities(1)
	if !floats.EqualApprox(probs, want, 1e-12) {
		t.Errorf("probabilities: want(%v) got(%v)", want, probs)
	}
	if !scalar.EqualWithinAbs(floats.Sum(probs), 1.0, 1e-12) {
		t.Errorf("probabilities: sum want(1) got(%v)", floats.Sum(probs))
	}
	if p.Greedy(1) != 1 {
		t.Errorf("greedy: want(1) got(%v)", p.Greedy(1))
	}

	if _, err := p.Improve(0, []float64{1}, epsilon); !errors.Is(err,
		agent.ErrInvalidConfig) {
		t.Errorf("improve: want(%v) got(%v)", agent.ErrInvalidConfig, err)
	}
}

func TestSoftImproveTies(t *testing.T) {
	p, err := NewSoft(1, 3, 5)
	if err != nil {
		t.Fatal(err)
	}

	seen := make(map[int]bool)
	for i := 0; i < 200; i++ {
		greedy, err := p.Improve(0, []float64{1, 0, 1}, 0.1)
		if err != nil {
			t.Fatal(err)
		}
		if greedy == 1 {
			t.Fatalf("improve: action 1 is not a maximizer")
		}
		seen[greedy] = true
	}

	if !seen[0] || !seen[2] {
		t.Errorf("improve: ties not broken randomly, saw %v", seen)
	}
}

func TestSoftSelectAction(t *testing.T) {
	// Weights do not sum to 1, and action 1 can never be selected
	w := mat.NewDense(1, 3, []float64{0.5, 0, 1.5})
	p, err := NewSoftFrom(w, 11)
	if err != nil {
		t.Fatal(err)
	}

	const n = 20000
	counts := make([]float64, 3)
	for i := 0; i < n; i++ {
		a, err := p.SelectAction(0)
		if err != nil {
			t.Fatal(err)
		}
		counts[a]++
	}

	if counts[1] != 0 {
		t.Errorf("selectAction: zero-weight action selected %v times",
			counts[1])
	}
	if freq := counts[0] / n; freq < 0.23 || freq > 0.27 {
		t.Errorf("selectAction: frequency of action 0 want(≈0.25) got(%v)",
			freq)
	}

	if _, err := p.SelectAction(1); !errors.Is(err,
		agent.ErrContractViolation) {
		t.Errorf("selectAction: want(%v) got(%v)",
			agent.ErrContractViolation, err)
	}
}

func TestSoftMarshal(t *testing.T) {
	p, err := NewSoft(3, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Improve(2, []float64{0, 1}, 0.1); err != nil {
		t.Fatal(err)
	}

	data, err := p.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	var loaded Soft
	if err := loaded.UnmarshalBinary(data); err != nil {
		t.Fatal(err)
	}
	for s := 0; s < 3; s++ {
		if !floats.Equal(p.Probabilities(s), loaded.Probabilities(s)) {
			t.Errorf("probabilities(%v): want(%v) got(%v)", s,
				p.Probabilities(s), loaded.Probabilities(s))
		}
	}
	if _, err := loaded.SelectAction(0); err != nil {
		t.Errorf("selectAction: %v", err)
	}
}
