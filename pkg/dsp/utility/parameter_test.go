package utility

import "testing"

func TestClampParameter(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		min      float64
		max      float64
		expected float64
	}{
		{"Within range", 5.0, 0.0, 10.0, 5.0},
		{"Below min", -5.0, 0.0, 10.0, 0.0},
		{"Above max", 15.0, 0.0, 10.0, 10.0},
		{"At min", 0.0, 0.0, 10.0, 0.0},
		{"At max", 10.0, 0.0, 10.0, 10.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ClampParameter(tt.value, tt.min, tt.max)
			if result != tt.expected {
				t.Errorf("ClampParameter(%f, %f, %f) = %f, want %f",
					tt.value, tt.min, tt.max, result, tt.expected)
			}
		})
	}
}
