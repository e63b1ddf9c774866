package timer

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const DefaultSound = "soft01"

// Sounds are the alert tones a timer can be tagged with. Playback is left to the surface.
var Sounds = []string{"soft01", "soft02", "soft03", "hard01", "hard02"}

type Preset struct {
	Title    string
	Duration time.Duration
}

var Presets = []Preset{
	{"30 s", 30 * time.Second},
	{"1 m", time.Minute},
	{"2 m", 2 * time.Minute},
	{"3 m", 3 * time.Minute},
	{"4 m", 4 * time.Minute},
	{"5 m", 5 * time.Minute},
	{"10 m", 10 * time.Minute},
	{"15 m", 15 * time.Minute},
	{"20 m", 20 * time.Minute},
	{"25 m", 25 * time.Minute},
	{"30 m", 30 * time.Minute},
	{"40 m", 40 * time.Minute},
	{"50 m", 50 * time.Minute},
	{"1 h", time.Hour},
	{"1 h 30 m", 90 * time.Minute},
}

// Timers is an ordered collection with global display flags. It is not safe for concurrent use.
type Timers struct {
	Now func() time.Time

	ShowMs      bool
	ShowDetails bool
	ShowInfo    bool
	Sound       string

	// OnExpire is copied onto every timer added afterwards.
	OnExpire func(*Timer)

	items []*Timer
}

func NewTimers(now func() time.Time) *Timers {
	if now == nil {
		now = time.Now
	}
	return &Timers{Now: now, Sound: DefaultSound}
}

func (ts *Timers) List() []*Timer { return slices.Clone(ts.items) }

func (ts *Timers) Len() int { return len(ts.items) }

// Add creates a timer that inherits the global flags and sound. Added timers start running.
func (ts *Timers) Add(title string, d time.Duration) (*Timer, error) {
	t, err := New(uuid.NewString(), title, d)
	if err != nil {
		return nil, err
	}
	t.Sound = ts.Sound
	if t.Sound == "" {
		t.Sound = DefaultSound
	}
	t.ShowMs, t.ShowDetails, t.ShowInfo = ts.ShowMs, ts.ShowDetails, ts.ShowInfo
	t.OnExpire = ts.OnExpire
	t.Start(ts.Now())
	ts.items = append(ts.items, t)
	return t, nil
}

// AddPreset adds Presets[i]. ok is false for an out of range index.
func (ts *Timers) AddPreset(i int) (*Timer, bool) {
	if i < 0 || i >= len(Presets) {
		return nil, false
	}
	t, err := ts.Add(Presets[i].Title, Presets[i].Duration)
	return t, err == nil
}

func (ts *Timers) Find(id string) (*Timer, bool) {
	for _, t := range ts.items {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

func (ts *Timers) Start(id string) bool { return ts.with(id, func(t *Timer) { t.Start(ts.Now()) }) }
func (ts *Timers) Pause(id string) bool { return ts.with(id, func(t *Timer) { t.Pause(ts.Now()) }) }
func (ts *Timers) Stop(id string) bool  { return ts.with(id, (*Timer).Stop) }

func (ts *Timers) with(id string, fn func(*Timer)) bool {
	t, ok := ts.Find(id)
	if ok {
		fn(t)
	}
	return ok
}

// Clear removes the timer.
func (ts *Timers) Clear(id string) bool {
	n := len(ts.items)
	ts.items = slices.DeleteFunc(ts.items, func(t *Timer) bool { return t.ID == id })
	return len(ts.items) != n
}

// Tick samples every timer and returns the ones that expired on this sample.
func (ts *Timers) Tick() []*Timer {
	now := ts.Now()
	var expired []*Timer
	for _, t := range ts.items {
		if t.Tick(now) {
			expired = append(expired, t)
		}
	}
	return expired
}

// AnyRunning reports whether a ticker is still needed.
func (ts *Timers) AnyRunning() bool {
	return slices.ContainsFunc(ts.items, func(t *Timer) bool { return t.Status() == StatusRunning })
}

// Per-timer flags OR with the global ones.
func (ts *Timers) ShowMsFor(t *Timer) bool      { return ts.ShowMs || t.ShowMs }
func (ts *Timers) ShowDetailsFor(t *Timer) bool { return ts.ShowDetails || t.ShowDetails }
func (ts *Timers) ShowInfoFor(t *Timer) bool    { return ts.ShowInfo || t.ShowInfo }

// SetSound sets the default tone for new timers. Unknown names are rejected.
func (ts *Timers) SetSound(name string) bool {
	if !slices.Contains(Sounds, name) {
		return false
	}
	ts.Sound = name
	return true
}
