package web

import (
	"sync"

	"organizer/internal/counter"
	"organizer/internal/timer"
	"organizer/internal/tree"
)

// session is the per-browser UI state: filters, sorts, tree toggles, timers and counters.
// None of it is persisted.
type session struct {
	mu sync.Mutex

	tasks    *tree.State
	taskUI   *tree.UIState
	page     int
	pageSize int

	// Category trees are kept per workspace.
	catSearch map[string][]string
	catUI     map[string]*tree.UIState

	timers   *timer.Timers
	counters *counter.Counters

	flash []string
}

func (s *Server) newSession() *session {
	ts := timer.NewTimers(s.cfg.Now)
	ts.Sound = s.cfg.Sound
	return &session{
		tasks:     tree.NewState(),
		taskUI:    tree.NewUIState(),
		page:      1,
		pageSize:  s.cfg.PageSize,
		catSearch: map[string][]string{},
		catUI:     map[string]*tree.UIState{},
		timers:    ts,
		counters:  &counter.Counters{},
	}
}

func (ss *session) categoryUI(workspaceID string) *tree.UIState {
	ui, ok := ss.catUI[workspaceID]
	if !ok {
		ui = tree.NewUIState()
		ss.catUI[workspaceID] = ui
	}
	return ui
}

func (ss *session) addFlash(msg ...string) {
	ss.mu.Lock()
	ss.flash = append(ss.flash, msg...)
	ss.mu.Unlock()
}

func (ss *session) takeFlash() []string {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	out := ss.flash
	ss.flash = nil
	return out
}

type sessions struct {
	mu    sync.Mutex
	byID  map[string]*session
	fresh func() *session
}

func newSessions(fresh func() *session) *sessions {
	return &sessions{byID: map[string]*session{}, fresh: fresh}
}

func (s *sessions) get(id string) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	ss, ok := s.byID[id]
	if !ok {
		ss = s.fresh()
		s.byID[id] = ss
	}
	return ss
}

func (s *sessions) drop(id string) {
	s.mu.Lock()
	delete(s.byID, id)
	s.mu.Unlock()
}
