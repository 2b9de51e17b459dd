package store

import "testing"

func TestRoundRating(t *testing.T) {
	tests := []struct {
		avg  float64
		want float64
	}{
		{0, 0},
		{5, 5},
		{4.25, 4.3},
		{4.666666666, 4.7},
		{3.7142857, 3.7},
		{1.04, 1.0},
	}

	for _, tt := range tests {
		if got := RoundRating(tt.avg); got != tt.want {
			t.Errorf("RoundRating(%v) = %v, want %v", tt.avg, got, tt.want)
		}
	}
}
