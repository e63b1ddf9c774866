package timer

import (
	"testing"
	"time"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func TestTimers_AddInheritsGlobals(t *testing.T) {
	clk := &fakeClock{now: t0}
	ts := NewTimers(clk.Now)
	ts.ShowMs = true
	if !ts.SetSound("hard01") {
		t.Fatalf("known sound rejected")
	}
	if ts.SetSound("siren") {
		t.Fatalf("unknown sound accepted")
	}

	tm, err := ts.Add("focus", 25*time.Minute)
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tm.ID == "" || tm.Sound != "hard01" || !tm.ShowMs || tm.Status() != StatusRunning {
		t.Fatalf("unexpected timer %+v", tm)
	}
	if _, err := ts.Add("bad", 0); err == nil {
		t.Fatalf("expected error for zero duration")
	}
	if ts.Len() != 1 {
		t.Fatalf("failed add must not be stored")
	}
}

func TestTimers_FlagsOr(t *testing.T) {
	ts := NewTimers(nil)
	tm := &Timer{ShowDetails: true}
	if !ts.ShowDetailsFor(tm) || ts.ShowInfoFor(tm) {
		t.Fatalf("per-timer flag should show, unset flags should not")
	}
	ts.ShowInfo = true
	if !ts.ShowInfoFor(tm) {
		t.Fatalf("global flag should show")
	}
}

func TestTimers_TickAndClear(t *testing.T) {
	clk := &fakeClock{now: t0}
	ts := NewTimers(clk.Now)
	var expired []string
	ts.OnExpire = func(tm *Timer) { expired = append(expired, tm.Title) }

	short, _ := ts.AddPreset(0)
	long, _ := ts.AddPreset(1)
	if _, ok := ts.AddPreset(len(Presets)); ok {
		t.Fatalf("out of range preset accepted")
	}

	clk.Advance(30 * time.Second)
	got := ts.Tick()
	if len(got) != 1 || got[0] != short {
		t.Fatalf("expected only the 30 s preset to expire, got %v", got)
	}
	if len(expired) != 1 || expired[0] != "30 s" {
		t.Fatalf("OnExpire not called: %v", expired)
	}
	if !ts.AnyRunning() {
		t.Fatalf("1 m preset still runs")
	}

	ts.Pause(long.ID)
	if ts.AnyRunning() {
		t.Fatalf("nothing should be running")
	}
	if !ts.Clear(short.ID) || ts.Clear(short.ID) {
		t.Fatalf("clear should succeed once")
	}
	if _, ok := ts.Find(short.ID); ok {
		t.Fatalf("cleared timer still present")
	}
	if !ts.Stop(long.ID) || long.Status() != StatusInactive {
		t.Fatalf("stop by id failed")
	}
	if ts.Start("missing") {
		t.Fatalf("unknown id should report false")
	}
}
