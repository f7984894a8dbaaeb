package annotate

import "testing"

func TestNormalizePageRef(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"A9.1", "A9.1", true},
		{"a9.1", "A9.1", true},
		{"A9-1", "A9.1", true},
		{"A91", "A9.1", true},
		{" A9 1 ", "A9.1", true},
		{"A5.12", "A5.12", true},
		{"AD101", "AD101", true}, // digit insertion needs a single-letter prefix
		{"A83.2", "A3.2", true},  // stray leading digit shed from the index
		{"A123.4", "A3.4", true}, // sheds until single digit
		{"S2.1", "S2.1", true},
		{"1", "", false},
		{"", "", false},
		{"9.1", "", false},      // no series letter
		{"SIM", "", false},      // no digits
		{"A.", "", false},       // separator with no index digits
	}

	for _, tt := range tests {
		got, ok := NormalizePageRef(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("NormalizePageRef(%q) = (%q, %v), want (%q, %v)",
				tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNormalizePageRef_Idempotent(t *testing.T) {
	for _, in := range []string{"A9.1", "a9-1", "A91", "B12.3"} {
		once, ok := NormalizePageRef(in)
		if !ok {
			t.Fatalf("NormalizePageRef(%q) unexpectedly failed", in)
		}
		twice, ok := NormalizePageRef(once)
		if !ok || twice != once {
			t.Errorf("NormalizePageRef(%q) not idempotent: %q -> %q", in, once, twice)
		}
	}
}
