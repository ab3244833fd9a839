package services

import "testing"

func TestOverallBand(t *testing.T) {
	tests := []struct {
		name                                   string
		listening, reading, writing, speaking  float64
		want                                   float64
	}{
		{"all equal", 7, 7, 7, 7, 7},
		{"quarter rounds up", 6.5, 6.5, 6.5, 6.0, 6.5},   // mean 6.375 -> 6.5
		{"exact quarter rounds up", 6, 6, 6, 7, 6.5},     // mean 6.25 -> 6.5
		{"three quarters rounds up", 7, 7, 7, 6, 7},      // mean 6.75 -> 7.0
		{"eighth rounds down", 6, 6, 6, 6.5, 6},          // mean 6.125 -> 6.0
		{"mixed bands", 8, 7.5, 6.5, 7, 7.5},             // mean 7.25 -> 7.5
		{"zero", 0, 0, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OverallBand(tt.listening, tt.reading, tt.writing, tt.speaking)
			if got != tt.want {
				t.Errorf("OverallBand(%.1f, %.1f, %.1f, %.1f) = %.2f, want %.2f",
					tt.listening, tt.reading, tt.writing, tt.speaking, got, tt.want)
			}
		})
	}
}
