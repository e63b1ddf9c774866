package timer

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseDuration accepts "hh:mm:ss", "mm:ss", Go durations ("90s", "1h30m") and a bare
// number of minutes.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrNonPositive
	}
	var d time.Duration
	switch {
	case strings.Contains(s, ":"):
		parts := strings.Split(s, ":")
		if len(parts) > 3 {
			return 0, fmt.Errorf("invalid duration %q (expected hh:mm:ss)", s)
		}
		units := []time.Duration{time.Second, time.Minute, time.Hour}
		for i := range parts {
			raw := strings.TrimSpace(parts[len(parts)-1-i])
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return 0, fmt.Errorf("invalid duration %q (expected hh:mm:ss)", s)
			}
			d += time.Duration(n) * units[i]
		}
	default:
		if n, err := strconv.Atoi(s); err == nil {
			d = time.Duration(n) * time.Minute
			break
		}
		var err error
		if d, err = time.ParseDuration(s); err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
	}
	if d <= 0 {
		return 0, ErrNonPositive
	}
	return d, nil
}
