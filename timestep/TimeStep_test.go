package timestep

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLast(t *testing.T) {
	obs := mat.NewVecDense(1, nil)

	tests := []struct {
		terminated bool
		truncated  bool
		last       bool
	}{
		{false, false, false},
		{true, false, true},
		{false, true, true},
		{true, true, true},
	}

	for _, test := range tests {
		step := New(obs, 0, test.terminated, test.truncated, nil, 1)
		if step.Last() != test.last {
			t.Errorf("terminated=%v truncated=%v: Last() = %v, want %v",
				test.terminated, test.truncated, step.Last(), test.last)
		}
	}
}
