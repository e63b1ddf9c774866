package timer

import (
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
	}{
		{"00:00:30", 30 * time.Second},
		{"1:30", 90 * time.Second},
		{"1:00:00", time.Hour},
		{"25", 25 * time.Minute},
		{"90s", 90 * time.Second},
		{"1h30m", 90 * time.Minute},
	}
	for _, tc := range cases {
		got, err := ParseDuration(tc.in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestParseDuration_Rejects(t *testing.T) {
	for _, in := range []string{"", "0", "00:00:00", "-5s"} {
		if _, err := ParseDuration(in); !errors.Is(err, ErrNonPositive) {
			t.Fatalf("ParseDuration(%q) err = %v, want ErrNonPositive", in, err)
		}
	}
	for _, in := range []string{"1:2:3:4", "a:b", "soon"} {
		if _, err := ParseDuration(in); err == nil {
			t.Fatalf("ParseDuration(%q) expected error", in)
		}
	}
}
