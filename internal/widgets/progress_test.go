package widgets

import "testing"

func TestProgress(t *testing.T) {
	cases := []struct {
		value, maximum float64
		want           string
	}{
		{0, 10, "0/10 ▱▱▱▱▱"},
		{4, 10, "4/10 ▰▰▱▱▱"},
		{10, 10, "10/10 ▰▰▰▰▰"},
		{12, 10, "12/10 ▰▰▰▰▰"},
		{2.5, 10, "2.5/10 ▰▱▱▱▱"},
		{0, 0, "0/0 ▱▱▱▱▱"},
	}
	for _, c := range cases {
		if got := Progress(c.value, c.maximum); got != c.want {
			t.Fatalf("Progress(%v, %v) = %q, want %q", c.value, c.maximum, got, c.want)
		}
	}
}

func TestTrimFloat(t *testing.T) {
	if got := trimFloat(4); got != "4" {
		t.Fatalf("expected bare integer, got %q", got)
	}
	if got := trimFloat(2.50); got != "2.5" {
		t.Fatalf("expected trimmed fraction, got %q", got)
	}
}
