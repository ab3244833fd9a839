package utils

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+7 701 111-22-33", "+77011112233"},
		{"+7(701)1112233", "+77011112233"},
		{"  +77011112233  ", "+77011112233"},
		{"8 (705) 123 45 67", "87051234567"},
		{"+77011112233", "+77011112233"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
