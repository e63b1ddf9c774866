package tui

import (
	"organizer/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the terminal UI and restores the last screen and task view.
func Run(db *store.DB, opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()
	applyGlyphPreference()

	st := store.Store{Dir: opts.Dir}
	m := newAppModel(db, opts)
	if saved, err := st.LoadTUIState(); err == nil {
		m.restore(saved)
	}
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(appModel); ok {
		return st.SaveTUIState(fm.state())
	}
	return nil
}
