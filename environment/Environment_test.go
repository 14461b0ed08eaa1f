package environment

import "testing"

func TestRendersFrames(t *testing.T) {
	tests := []struct {
		mode string
		want bool
	}{
		{"rgb_array", true},
		{"human", true},
		{"", false},
		{"rgb_array_list", false},
		{"human_list", false},
	}

	for _, test := range tests {
		if got := RendersFrames(test.mode); got != test.want {
			t.Errorf("RendersFrames(%q) = %v, want %v", test.mode, got,
				test.want)
		}
	}
}
