package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	NextScreen key.Binding
	PrevScreen key.Binding
	Help       key.Binding
	Quit       key.Binding
	Expand     key.Binding
	ExpandAll  key.Binding
	Select     key.Binding
	SelectAll  key.Binding
	Delete     key.Binding
	Search     key.Binding
	Visibility key.Binding
	Sort       key.Binding
	NextPage   key.Binding
	PrevPage   key.Binding
	New        key.Binding
	NewChild   key.Binding
	Archive    key.Binding
	StartPause key.Binding
	Stop       key.Binding
	Clear      key.Binding
	Preset     key.Binding
	ToggleMs   key.Binding
	Increment  key.Binding
	Decrement  key.Binding
	Reset      key.Binding
	Confirm    key.Binding
	Cancel     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		NextScreen: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next screen")),
		PrevScreen: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev screen")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Expand:     key.NewBinding(key.WithKeys("enter", "right", "l"), key.WithHelp("enter", "expand")),
		ExpandAll:  key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		Select:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select")),
		SelectAll:  key.NewBinding(key.WithKeys("A"), key.WithHelp("A", "select all")),
		Delete:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete selected")),
		Search:     key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Visibility: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "active/archived/all")),
		Sort:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		NextPage:   key.NewBinding(key.WithKeys("pgdown", "]"), key.WithHelp("]", "next page")),
		PrevPage:   key.NewBinding(key.WithKeys("pgup", "["), key.WithHelp("[", "prev page")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		NewChild:   key.NewBinding(key.WithKeys("N"), key.WithHelp("N", "new child")),
		Archive:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
		StartPause: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
		Stop:       key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stop")),
		Clear:      key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "clear")),
		Preset:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "preset")),
		ToggleMs:   key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "milliseconds")),
		Increment:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "increment")),
		Decrement:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "decrement")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		Confirm:    key.NewBinding(key.WithKeys("enter", "y"), key.WithHelp("enter", "confirm")),
		Cancel:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// screenKeys adapts one screen's bindings to help.KeyMap.
type screenKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (k screenKeys) ShortHelp() []key.Binding  { return k.short }
func (k screenKeys) FullHelp() [][]key.Binding { return k.full }

func (k keyMap) forScreen(s screen) screenKeys {
	nav := []key.Binding{k.Up, k.Down, k.NextScreen, k.Help, k.Quit}
	switch s {
	case screenTimers:
		acts := []key.Binding{k.New, k.Preset, k.StartPause, k.Stop, k.Clear, k.ToggleMs}
		return screenKeys{short: []key.Binding{k.New, k.StartPause, k.Stop, k.Clear, k.NextScreen, k.Quit}, full: [][]key.Binding{nav, acts}}
	case screenCounters:
		acts := []key.Binding{k.New, k.Increment, k.Decrement, k.Reset, k.Clear}
		return screenKeys{short: []key.Binding{k.New, k.Increment, k.Decrement, k.Reset, k.NextScreen, k.Quit}, full: [][]key.Binding{nav, acts}}
	default:
		tree := []key.Binding{k.Expand, k.ExpandAll, k.Select, k.SelectAll, k.Delete}
		view := []key.Binding{k.Search, k.Visibility, k.Sort, k.NextPage, k.PrevPage}
		edit := []key.Binding{k.New, k.NewChild, k.Archive}
		return screenKeys{short: []key.Binding{k.Expand, k.Select, k.Search, k.Delete, k.NextScreen, k.Quit}, full: [][]key.Binding{nav, tree, view, edit}}
	}
}
