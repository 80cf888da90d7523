package gridworld

import (
	"errors"
	"testing"

	"github.com/samuelfneumann/tabular/environment"
)

func TestNewLake(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		err  error
	}{
		{"4x4", FrozenLake4x4, nil},
		{"10x10", FrozenLake10x10, nil},
		{"empty", nil, environment.ErrInvalidConfig},
		{"ragged", []string{"SF", "F"}, environment.ErrInvalidConfig},
		{"unknownCell", []string{"SX"}, environment.ErrInvalidConfig},
		{"noStart", []string{"FG"}, environment.ErrInvalidConfig},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := NewLake(test.rows); !errors.Is(err, test.err) {
				t.Errorf("newLake: want(%v) got(%v)", test.err, err)
			}
		})
	}
}

func TestLakeTask(t *testing.T) {
	lake, err := NewLake(FrozenLake4x4)
	if err != nil {
		t.Fatal(err)
	}

	task := lake.Task()
	if !task.AtGoal(15) {
		t.Errorf("task: state 15 is not a goal")
	}
	for _, h := range []int{5, 7, 11, 12} {
		if !task.AtHole(h) {
			t.Errorf("task: state %v is not a hole", h)
		}
	}
}
