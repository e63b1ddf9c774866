package web

import (
	"net/http"
	"strconv"
	"time"

	"organizer/internal/mutate"
	"organizer/internal/timer"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"
)

type timerLineVM struct {
	ID          string
	Title       string
	Status      timer.Status
	Sound       string
	Remaining   string
	Initial     string
	Elapsed     string
	Progress    float64
	Target      string
	ShowDetails bool
	ShowInfo    bool
}

type timersListVM struct {
	Timers []timerLineVM
}

type timersVM struct {
	baseVM
	List        timersListVM
	Presets     []timer.Preset
	Sounds      []string
	Sound       string
	ShowMs      bool
	ShowDetails bool
	ShowInfo    bool
}

// timerLines samples every timer once. Callers hold sess.mu.
func (s *Server) timerLines(sess *session) timersListVM {
	ts := sess.timers
	for _, t := range ts.Tick() {
		s.log.Info("timer expired", zap.String("id", t.ID), zap.String("title", t.Title), zap.String("sound", t.Sound))
	}
	now := ts.Now()
	var out timersListVM
	for _, t := range ts.List() {
		ms := ts.ShowMsFor(t)
		l := timerLineVM{
			ID:          t.ID,
			Title:       t.Title,
			Status:      t.Status(),
			Sound:       t.Sound,
			Remaining:   timer.FormatDuration(t.Remaining(now), ms),
			Initial:     timer.FormatDuration(t.Initial, ms),
			Elapsed:     timer.FormatDuration(t.Elapsed(now), ms),
			Progress:    t.Progress(now),
			ShowDetails: ts.ShowDetailsFor(t),
			ShowInfo:    ts.ShowInfoFor(t),
		}
		if target, ok := t.Target(now); ok {
			l.Target = target.Format("15:04:05")
		}
		out.Timers = append(out.Timers, l)
	}
	return out
}

func (s *Server) handleTimers(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	vm := timersVM{
		baseVM:  s.base(rc, "Timers", "timers", "/timers/events"),
		Presets: timer.Presets,
		Sounds:  timer.Sounds,
	}
	sess := rc.sess
	sess.mu.Lock()
	vm.List = s.timerLines(sess)
	vm.Sound = sess.timers.Sound
	vm.ShowMs, vm.ShowDetails, vm.ShowInfo = sess.timers.ShowMs, sess.timers.ShowDetails, sess.timers.ShowInfo
	sess.mu.Unlock()
	s.writeHTMLTemplate(w, http.StatusOK, "timers.html", vm)
}

// handleTimerEvents re-renders #timers every tick while any timer runs.
func (s *Server) handleTimerEvents(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	sse := datastar.NewSSE(w, r)
	s.metrics.streams.Inc()
	defer s.metrics.streams.Dec()

	tick := time.NewTicker(timer.TickInterval)
	defer tick.Stop()
	idle := false
	for {
		select {
		case <-sse.Context().Done():
			return
		case <-tick.C:
			rc.sess.mu.Lock()
			running := rc.sess.timers.AnyRunning()
			list := s.timerLines(rc.sess)
			rc.sess.mu.Unlock()
			// One last frame after the final timer stops, then stay quiet until one starts.
			if !running && idle {
				continue
			}
			idle = !running
			html, err := s.renderTemplate("timer_list", list)
			if err != nil {
				s.log.Error("render timers", zap.Error(err))
				return
			}
			if err := sse.PatchElements(html, datastar.WithSelector("#timers"), datastar.WithMode(datastar.ElementPatchModeOuter)); err != nil {
				return
			}
		}
	}
}

// timerDuration reads the hours/minutes/seconds inputs.
func timerDuration(r *http.Request) (time.Duration, error) {
	var d time.Duration
	for _, f := range []struct {
		key  string
		unit time.Duration
	}{{"hours", time.Hour}, {"minutes", time.Minute}, {"seconds", time.Second}} {
		n, err := formInt(r, f.key, 0)
		if err != nil {
			return 0, err
		}
		if n < 0 {
			return 0, badRequest(f.key + " must not be negative")
		}
		d += time.Duration(n) * f.unit
	}
	return d, nil
}

func (s *Server) handleTimerCreate(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	d, err := timerDuration(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rc.sess.mu.Lock()
	_, err = rc.sess.timers.Add(formString(r, "title"), d)
	rc.sess.mu.Unlock()
	if err != nil {
		s.fail(w, r, mutate.ValidationError{Messages: []string{"Expiry should be greater than 0."}})
		return
	}
	redirectBack(w, r, "/timers")
}

func (s *Server) handleTimerSettings(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	ts := rc.sess.timers
	rc.sess.mu.Lock()
	defer rc.sess.mu.Unlock()
	if name := formString(r, "sound"); name != "" && !ts.SetSound(name) {
		s.fail(w, r, badRequest("unknown sound: "+name))
		return
	}
	ts.ShowMs = formBool(r, "showMs")
	ts.ShowDetails = formBool(r, "showDetails")
	ts.ShowInfo = formBool(r, "showInfo")
	redirectBack(w, r, "/timers")
}

func (s *Server) handleTimerPreset(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	i, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		s.fail(w, r, badRequest("preset index must be a number"))
		return
	}
	rc.sess.mu.Lock()
	_, ok := rc.sess.timers.AddPreset(i)
	rc.sess.mu.Unlock()
	if !ok {
		s.fail(w, r, mutate.NotFoundError{Kind: "Preset", ID: strconv.Itoa(i)})
		return
	}
	redirectBack(w, r, "/timers")
}

func (s *Server) handleTimerAction(w http.ResponseWriter, r *http.Request, rc *reqCtx) {
	id := r.PathValue("id")
	ts := rc.sess.timers
	rc.sess.mu.Lock()
	var ok bool
	var err error
	switch r.PathValue("action") {
	case "start":
		ok = ts.Start(id)
	case "pause":
		ok = ts.Pause(id)
	case "stop":
		ok = ts.Stop(id)
	case "clear":
		ok = ts.Clear(id)
	case "settings":
		var t *timer.Timer
		if t, ok = ts.Find(id); ok {
			t.ShowMs = formBool(r, "showMs")
			t.ShowDetails = formBool(r, "showDetails")
			t.ShowInfo = formBool(r, "showInfo")
			if name := formString(r, "sound"); name != "" {
				t.Sound = name
			}
		}
	default:
		err = badRequest("unknown timer action (expected start|pause|stop|clear|settings)")
	}
	rc.sess.mu.Unlock()
	if err == nil && !ok {
		err = mutate.NotFoundError{Kind: "Timer", ID: id}
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirectBack(w, r, "/timers")
}
