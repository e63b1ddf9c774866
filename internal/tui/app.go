package tui

import (
	"strings"
	"time"

	"organizer/internal/counter"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/timer"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type screen int

const (
	screenTasks screen = iota
	screenTimers
	screenCounters
)

var screenNames = []string{"tasks", "timers", "counters"}

func (s screen) String() string { return screenNames[s] }

func parseScreen(name string) screen {
	for i, n := range screenNames {
		if n == name {
			return screen(i)
		}
	}
	return screenTasks
}

type promptKind int

const (
	promptNone promptKind = iota
	promptSearch
	promptNewTask
	promptNewChild
	promptNewTimer
	promptNewCounter
)

type timerTickMsg time.Time

type Options struct {
	Dir      string
	UserID   string
	PageSize int
	Sound    string
	// Now drives the timers. Nil means time.Now.
	Now func() time.Time
}

type appModel struct {
	st     store.Store
	db     *store.DB
	userID string
	now    func() time.Time

	keys   keyMap
	help   help.Model
	screen screen
	width  int
	height int

	tasks taskScreen

	timers      *timer.Timers
	timerCursor int
	ticking     bool

	counters      *counter.Counters
	counterCursor int

	input         textinput.Model
	prompt        promptKind
	confirmDelete bool
	message       string
	isError       bool
}

func newAppModel(db *store.DB, opts Options) appModel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	ts := timer.NewTimers(opts.Now)
	if opts.Sound != "" {
		ts.SetSound(opts.Sound)
	}
	in := textinput.New()
	in.CharLimit = 500

	m := appModel{
		st:       store.Store{Dir: opts.Dir},
		db:       db,
		userID:   opts.UserID,
		now:      opts.Now,
		keys:     defaultKeyMap(),
		help:     help.New(),
		tasks:    newTaskScreen(opts.PageSize),
		timers:   ts,
		counters: &counter.Counters{},
		input:    in,
		width:    80,
		height:   24,
	}
	m.tasks.refresh(m.db, m.userID)
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.tasks.resize(m.listWidth(), m.bodyHeight())
		return m, nil
	case timerTickMsg:
		return m.onTimerTick()
	case tea.KeyMsg:
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		if m.confirmDelete {
			return m.updateConfirm(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.NextScreen):
		m.screen = (m.screen + 1) % screen(len(screenNames))
		m.message = ""
		return m, nil
	case key.Matches(msg, m.keys.PrevScreen):
		m.screen = (m.screen + screen(len(screenNames)) - 1) % screen(len(screenNames))
		m.message = ""
		return m, nil
	}
	switch m.screen {
	case screenTimers:
		return m.updateTimers(msg)
	case screenCounters:
		return m.updateCounters(msg)
	default:
		return m.updateTasks(msg)
	}
}

func (m *appModel) openPrompt(kind promptKind, placeholder, value string) tea.Cmd {
	m.prompt = kind
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.prompt = promptNone
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		kind, val := m.prompt, strings.TrimSpace(m.input.Value())
		m.prompt = promptNone
		m.input.Blur()
		return m.commitPrompt(kind, val)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) commitPrompt(kind promptKind, val string) (tea.Model, tea.Cmd) {
	switch kind {
	case promptSearch:
		m.tasks.state.SetSearch(val)
		m.tasks.page = 1
		m.tasks.refresh(m.db, m.userID)
	case promptNewTask:
		m.createTask(val, false)
	case promptNewChild:
		m.createTask(val, true)
	case promptNewTimer:
		return m.addTimer(val)
	case promptNewCounter:
		m.addCounter(val)
	}
	return m, nil
}

// change applies fn to the loaded DB and saves it. A failing fn reloads from disk so
// the in-memory DB never drifts from what was stored.
func (m *appModel) change(fn func(db *store.DB) error) bool {
	if err := fn(m.db); err != nil {
		m.fail(err)
		if db, lerr := m.st.Load(); lerr == nil {
			m.db = db
		}
		m.tasks.refresh(m.db, m.userID)
		return false
	}
	if err := m.st.Save(m.db); err != nil {
		m.fail(err)
		return false
	}
	m.tasks.refresh(m.db, m.userID)
	return true
}

func (m *appModel) fail(err error) {
	m.message = strings.Join(mutate.Messages(err), " ")
	m.isError = true
}

func (m *appModel) info(msg string) {
	m.message = msg
	m.isError = false
}

func (m appModel) listWidth() int {
	if m.width >= 100 {
		return m.width * 3 / 5
	}
	return m.width
}

// bodyHeight leaves room for the tab bar, the status line and the help footer.
func (m appModel) bodyHeight() int {
	return max(m.height-5, 3)
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(m.tabBar())
	b.WriteString("\n\n")
	switch m.screen {
	case screenTimers:
		b.WriteString(m.viewTimers())
	case screenCounters:
		b.WriteString(m.viewCounters())
	default:
		b.WriteString(m.viewTasks())
	}
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys.forScreen(m.screen)))
	return b.String()
}

func (m appModel) tabBar() string {
	tabs := make([]string, 0, len(screenNames))
	for i, n := range screenNames {
		tabs = append(tabs, styleTab(screen(i) == m.screen).Render(n))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m appModel) statusLine() string {
	switch {
	case m.prompt != promptNone:
		return m.input.View()
	case m.confirmDelete:
		return styleError().Render("Delete the selected tasks and their subtasks? (y/esc)")
	case m.message == "":
		return ""
	case m.isError:
		return styleError().Render(m.message)
	default:
		return styleMuted().Render(m.message)
	}
}

// state snapshots what is restored on the next launch.
func (m appModel) state() *store.TUIState {
	ts := &store.TUIState{
		Version:      1,
		Screen:       m.screen.String(),
		WorkspaceIDs: m.tasks.state.Filters.WorkspaceIDs,
		Search:       strings.Join(m.tasks.state.Search, ", "),
		Visibility:   string(m.tasks.state.Filters.Visibility),
		ExpandedIDs:  m.tasks.ui.ExpandedIDs(),
		PageSize:     m.tasks.pageSize,
	}
	if s := m.tasks.state.Sorts.String(); s != "" {
		ts.Sorts = strings.Split(s, ",")
	}
	return ts
}

func (m *appModel) restore(ts *store.TUIState) {
	if ts == nil {
		return
	}
	m.screen = parseScreen(ts.Screen)
	m.tasks.restore(ts)
	m.tasks.refresh(m.db, m.userID)
}
