package floatutils

import (
	"reflect"
	"testing"
)

func TestMaxSlice(t *testing.T) {
	tests := []struct {
		values  []float64
		max     float64
		indices []int
	}{
		{[]float64{0.3, 0.3, 0.1}, 0.3, []int{0, 1}},
		{[]float64{0.1, 0.2, 0.3}, 0.3, []int{2}},
		{[]float64{-1}, -1, []int{0}},
		{[]float64{0, 0, 0, 0}, 0, []int{0, 1, 2, 3}},
		{[]float64{0.5, 0.9, 0.9, 0.2}, 0.9, []int{1, 2}},
	}

	for _, test := range tests {
		max, indices := MaxSlice(test.values)
		if max != test.max {
			t.Errorf("maxSlice(%v): max want %v have %v", test.values,
				test.max, max)
		}
		if !reflect.DeepEqual(indices, test.indices) {
			t.Errorf("maxSlice(%v): indices want %v have %v", test.values,
				test.indices, indices)
		}
	}
}
