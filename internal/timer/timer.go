// Package timer implements countdown timers driven by wall-clock sampling.
package timer

import (
	"errors"
	"fmt"
	"time"
)

type Status string

const (
	StatusInactive Status = "inactive"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusExpired  Status = "expired"
)

// TickInterval is how often a running timer is expected to be sampled.
const TickInterval = 100 * time.Millisecond

var ErrNonPositive = errors.New("expiry should be greater than 0")

// Timer is one countdown. Time only advances through the now values passed to its methods.
type Timer struct {
	ID      string
	Title   string
	Initial time.Duration
	Sound   string

	ShowMs      bool
	ShowDetails bool
	ShowInfo    bool

	// OnExpire runs once per run, from the Tick that observes expiry.
	OnExpire func(*Timer)

	status Status
	// done is the time accumulated by finished run segments.
	done time.Duration
	// start opens the current segment while running.
	start time.Time
}

func New(id, title string, d time.Duration) (*Timer, error) {
	if d <= 0 {
		return nil, ErrNonPositive
	}
	return &Timer{ID: id, Title: title, Initial: d, status: StatusInactive}, nil
}

func (t *Timer) Status() Status {
	if t.status == "" {
		return StatusInactive
	}
	return t.status
}

// Start begins a fresh run from inactive or expired, and resumes from paused.
// Starting a running timer is a no-op.
func (t *Timer) Start(now time.Time) {
	switch t.Status() {
	case StatusRunning:
		return
	case StatusInactive, StatusExpired:
		t.done = 0
	}
	t.status = StatusRunning
	t.start = now
}

// Pause freezes elapsed time. Only a running timer can be paused.
func (t *Timer) Pause(now time.Time) {
	if t.Status() != StatusRunning {
		return
	}
	t.done += segment(t.start, now)
	t.start = time.Time{}
	t.status = StatusPaused
}

// Stop resets the timer to inactive from any status.
func (t *Timer) Stop() {
	t.status = StatusInactive
	t.done = 0
	t.start = time.Time{}
}

// Tick samples the clock. It reports true exactly once per run: on the sample where the
// elapsed time first reaches the initial duration.
func (t *Timer) Tick(now time.Time) bool {
	if t.Status() != StatusRunning {
		return false
	}
	if t.Elapsed(now) < t.Initial {
		return false
	}
	t.done = t.Initial
	t.start = time.Time{}
	t.status = StatusExpired
	if t.OnExpire != nil {
		t.OnExpire(t)
	}
	return true
}

// Elapsed is the accumulated run time plus the current segment while running.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	e := t.done
	if t.Status() == StatusRunning {
		e += segment(t.start, now)
	}
	return e
}

// Remaining is Initial minus Elapsed, floored at zero.
func (t *Timer) Remaining(now time.Time) time.Duration {
	return max(t.Initial-t.Elapsed(now), 0)
}

// Target is the wall-clock expiry time. ok is false unless the timer is running.
func (t *Timer) Target(now time.Time) (time.Time, bool) {
	if t.Status() != StatusRunning {
		return time.Time{}, false
	}
	return now.Add(t.Remaining(now)), true
}

// Progress is the elapsed fraction in [0, 1].
func (t *Timer) Progress(now time.Time) float64 {
	if t.Initial <= 0 {
		return 0
	}
	return min(float64(t.Elapsed(now))/float64(t.Initial), 1)
}

func segment(from, to time.Time) time.Duration {
	if from.IsZero() || to.Before(from) {
		return 0
	}
	return to.Sub(from)
}

// FormatDuration renders d as HH:MM:SS, with .mmm appended when showMs is set.
// Negative durations render as zero.
func FormatDuration(d time.Duration, showMs bool) string {
	d = max(d, 0)
	h := int64(d / time.Hour)
	m := int64(d % time.Hour / time.Minute)
	s := int64(d % time.Minute / time.Second)
	out := fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	if showMs {
		out += fmt.Sprintf(".%03d", int64(d%time.Second/time.Millisecond))
	}
	return out
}
