package annotate

import "testing"

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"corridor", "CORRIDOR"},
		{"  OPEN   SHELL  ", "OPEN SHELL"},
		{"'101'", "101"},
		{`"STAIR"`, "STAIR"},
		{"A9.", "A9"},
		{"A9/", "A9"},
		{"RM-", "RM"},
		{"A9.1", "A9.1"}, // trailing digit, separator kept
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
