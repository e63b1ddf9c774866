package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"organizer/internal/timer"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func tickTimers() tea.Cmd {
	return tea.Tick(timer.TickInterval, func(t time.Time) tea.Msg { return timerTickMsg(t) })
}

// ensureTicking starts the tick loop when a timer runs and none is scheduled.
func (m *appModel) ensureTicking() tea.Cmd {
	if m.ticking || !m.timers.AnyRunning() {
		return nil
	}
	m.ticking = true
	return tickTimers()
}

func (m appModel) onTimerTick() (tea.Model, tea.Cmd) {
	for _, t := range m.timers.Tick() {
		name := t.Title
		if name == "" {
			name = "Timer"
		}
		m.info(name + " expired.")
	}
	if !m.timers.AnyRunning() {
		m.ticking = false
		return m, nil
	}
	return m, tickTimers()
}

func (m appModel) currentTimer() (*timer.Timer, bool) {
	list := m.timers.List()
	if m.timerCursor < 0 || m.timerCursor >= len(list) {
		return nil, false
	}
	return list[m.timerCursor], true
}

func (m appModel) updateTimers(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	cur, ok := m.currentTimer()
	switch {
	case key.Matches(msg, k.Up):
		m.timerCursor = max(m.timerCursor-1, 0)
	case key.Matches(msg, k.Down):
		m.timerCursor = min(m.timerCursor+1, max(m.timers.Len()-1, 0))
	case key.Matches(msg, k.New):
		cmd := m.openPrompt(promptNewTimer, "duration (hh:mm:ss, 25m) and optional title", "")
		return m, cmd
	case key.Matches(msg, k.Preset):
		i := int(msg.Runes[0] - '1')
		if _, added := m.timers.AddPreset(i); added {
			m.timerCursor = m.timers.Len() - 1
			m.info("Added " + timer.Presets[i].Title + " timer.")
		}
	case key.Matches(msg, k.StartPause):
		if ok {
			if cur.Status() == timer.StatusRunning {
				m.timers.Pause(cur.ID)
			} else {
				m.timers.Start(cur.ID)
			}
		}
	case key.Matches(msg, k.Stop):
		if ok {
			m.timers.Stop(cur.ID)
		}
	case key.Matches(msg, k.Clear):
		if ok {
			m.timers.Clear(cur.ID)
			m.timerCursor = min(m.timerCursor, max(m.timers.Len()-1, 0))
		}
	case key.Matches(msg, k.ToggleMs):
		m.timers.ShowMs = !m.timers.ShowMs
	}
	cmd := m.ensureTicking()
	return m, cmd
}

// addTimer parses "<duration> [title]" from the prompt.
func (m appModel) addTimer(val string) (tea.Model, tea.Cmd) {
	raw, title, _ := strings.Cut(val, " ")
	d, err := timer.ParseDuration(raw)
	if err != nil {
		m.message, m.isError = err.Error(), true
		if errors.Is(err, timer.ErrNonPositive) {
			m.message = "Expiry should be greater than 0."
		}
		return m, nil
	}
	if _, err := m.timers.Add(strings.TrimSpace(title), d); err != nil {
		m.message, m.isError = err.Error(), true
		return m, nil
	}
	m.timerCursor = m.timers.Len() - 1
	cmd := m.ensureTicking()
	return m, cmd
}

func (m appModel) viewTimers() string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("Timers"))
	b.WriteString("  " + styleMuted().Render("sound "+m.timers.Sound) + "\n")
	list := m.timers.List()
	if len(list) == 0 {
		b.WriteString(styleMuted().Render("No timers. Press n, or 1-9 for a preset:"))
		b.WriteString("\n")
		for i, p := range timer.Presets {
			if i >= 9 {
				break
			}
			fmt.Fprintf(&b, "  %d %s\n", i+1, p.Title)
		}
		return b.String()
	}
	now := m.timers.Now()
	for i, t := range list {
		status := t.Status()
		title := t.Title
		if title == "" {
			title = "Timer"
		}
		line := fmt.Sprintf("%s  %-8s %s",
			timer.FormatDuration(t.Remaining(now), m.timers.ShowMsFor(t)),
			styleTimerStatus(status == timer.StatusRunning, status == timer.StatusExpired).Render(string(status)),
			title)
		if m.timers.ShowDetailsFor(t) {
			line += styleMuted().Render(fmt.Sprintf("  %s of %s, %d%%", timer.FormatDuration(t.Elapsed(now), false), timer.FormatDuration(t.Initial, false), int(t.Progress(now)*100)))
		}
		if i == m.timerCursor {
			line = styleSelected().Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
