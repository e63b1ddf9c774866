package tui

import (
	"errors"
	"slices"
	"strconv"
	"strings"

	"organizer/internal/model"
	"organizer/internal/mutate"
	"organizer/internal/store"
	"organizer/internal/tree"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// taskScreen holds the task tree state of the TUI: the same reducer and UI state the
// web session uses, rendered through a bubbles list.
type taskScreen struct {
	state    *tree.State
	ui       *tree.UIState
	page     int
	pageSize int

	view  tree.View[tree.Row]
	pages int
	list  list.Model
}

func newTaskScreen(pageSize int) taskScreen {
	if pageSize <= 0 {
		pageSize = tree.DefaultPageSize
	}
	l := list.New(nil, newTaskDelegate(), 80, 20)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	return taskScreen{
		state:    tree.NewState(),
		ui:       tree.NewUIState(),
		page:     1,
		pageSize: pageSize,
		list:     l,
	}
}

func (ts *taskScreen) resize(w, h int) {
	ts.list.SetSize(w, max(h-1, 1))
}

// refresh re-derives the view and keeps the cursor on the same task when it is still visible.
func (ts *taskScreen) refresh(db *store.DB, userID string) {
	current, hadCurrent := ts.current()
	rows := tree.RowsFor(db, mutate.ListTasks(db, userID))
	ts.ui.Sync(tree.RowIDs(rows))
	ts.view = ts.state.Derive(rows)
	ts.pages = tree.PageCount(len(ts.view.Roots), ts.pageSize)
	ts.page = max(min(ts.page, ts.pages), 1)

	lines := tree.Flatten(ts.view, tree.Paginate(ts.view.Roots, ts.page, ts.pageSize), ts.ui)
	items := make([]list.Item, 0, len(lines))
	cursor := 0
	for i, l := range lines {
		items = append(items, taskItem{line: l})
		if hadCurrent && l.Node.ID == current.ID {
			cursor = i
		}
	}
	ts.list.SetItems(items)
	if hadCurrent {
		ts.list.Select(cursor)
	} else {
		ts.list.Select(min(ts.list.Index(), max(len(items)-1, 0)))
	}
}

func (ts *taskScreen) current() (tree.Row, bool) {
	it, ok := ts.list.SelectedItem().(taskItem)
	if !ok {
		return tree.Row{}, false
	}
	return it.line.Node, true
}

func (ts *taskScreen) selected() []string {
	in := map[string]bool{}
	for _, n := range ts.view.Nodes() {
		in[n.ID] = true
	}
	var out []string
	for _, id := range ts.ui.SelectedIDs() {
		if in[id] {
			out = append(out, id)
		}
	}
	return out
}

func (ts *taskScreen) restore(st *store.TUIState) {
	if st.PageSize > 0 {
		ts.pageSize = st.PageSize
	}
	ts.state.Filters.WorkspaceIDs = slices.Clone(st.WorkspaceIDs)
	ts.state.SetSearch(st.Search)
	if v, ok := tree.ParseVisibility(st.Visibility); ok && v != tree.VisibilityUnset {
		ts.state.SetVisibility(v)
	}
	if sorts, err := tree.ParseTaskSorts(st.Sorts); err == nil {
		ts.state.Sorts = sorts
	}
	for _, id := range st.ExpandedIDs {
		ts.ui.SetExpanded(id, true)
	}
}

var visibilityCycle = []tree.Visibility{tree.VisibilityActive, tree.VisibilityArchived, tree.VisibilityAll}

type sortStep struct {
	name string
	dir  tree.Direction
}

// nextSort steps through: unsorted, then each built-in sort ascending and descending.
func nextSort(cur tree.Sorts[tree.Row]) tree.Sorts[tree.Row] {
	steps := []sortStep{{"", tree.DirNone}}
	for _, n := range tree.TaskSortNames {
		steps = append(steps, sortStep{n, tree.DirAsc}, sortStep{n, tree.DirDesc})
	}
	at := 0
	if len(cur) == 1 {
		at = slices.Index(steps, sortStep{cur[0].Name, cur[0].Direction})
	}
	next := steps[(at+1)%len(steps)]
	if next.name == "" {
		return nil
	}
	spec, _ := tree.TaskSort(next.name, next.dir)
	return tree.Sorts[tree.Row]{spec}
}

func (m appModel) updateTasks(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ts := &m.tasks
	k := m.keys
	cur, ok := ts.current()
	switch {
	case key.Matches(msg, k.Up):
		ts.list.CursorUp()
	case key.Matches(msg, k.Down):
		ts.list.CursorDown()
	case key.Matches(msg, k.Expand):
		if ok {
			ts.ui.ToggleExpand(cur.ID)
			ts.refresh(m.db, m.userID)
		}
	case key.Matches(msg, k.ExpandAll):
		if ok {
			ts.ui.ToggleExpandAll(cur.ID, ts.view)
			ts.refresh(m.db, m.userID)
		}
	case key.Matches(msg, k.Select):
		if ok {
			ts.ui.ToggleSelection(cur.ID, ts.view)
			ts.refresh(m.db, m.userID)
		}
	case key.Matches(msg, k.SelectAll):
		ts.ui.ToggleAllSelection()
		ts.refresh(m.db, m.userID)
	case key.Matches(msg, k.Delete):
		if len(ts.selected()) == 0 {
			m.info("Nothing selected.")
			return m, nil
		}
		m.confirmDelete = true
	case key.Matches(msg, k.Search):
		cmd := m.openPrompt(promptSearch, "search (comma separated)", strings.Join(ts.state.Search, ", "))
		return m, cmd
	case key.Matches(msg, k.Visibility):
		i := slices.Index(visibilityCycle, ts.state.Filters.Visibility)
		ts.state.SetVisibility(visibilityCycle[(i+1)%len(visibilityCycle)])
		ts.page = 1
		ts.refresh(m.db, m.userID)
		m.info("Showing " + string(ts.state.Filters.Visibility) + " tasks.")
	case key.Matches(msg, k.Sort):
		ts.state.Sorts = nextSort(ts.state.Sorts)
		ts.refresh(m.db, m.userID)
		if s := ts.state.Sorts.String(); s != "" {
			m.info("Sorted by " + s + ".")
		} else {
			m.info("Unsorted.")
		}
	case key.Matches(msg, k.NextPage):
		if ts.page < ts.pages {
			ts.page++
			ts.refresh(m.db, m.userID)
		}
	case key.Matches(msg, k.PrevPage):
		if ts.page > 1 {
			ts.page--
			ts.refresh(m.db, m.userID)
		}
	case key.Matches(msg, k.New):
		cmd := m.openPrompt(promptNewTask, "new task title", "")
		return m, cmd
	case key.Matches(msg, k.NewChild):
		if ok {
			cmd := m.openPrompt(promptNewChild, "child of "+cur.Title, "")
			return m, cmd
		}
	case key.Matches(msg, k.Archive):
		if ok {
			m.change(func(db *store.DB) error {
				_, err := mutate.SetTaskArchived(db, m.userID, cur.ID, !cur.IsArchived)
				return err
			})
		}
	}
	return m, nil
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if !key.Matches(msg, m.keys.Confirm) {
		return m, nil
	}
	ids := m.tasks.selected()
	var removed []string
	if m.change(func(db *store.DB) error {
		var err error
		removed, err = mutate.DeleteTasks(db, m.userID, ids)
		return err
	}) {
		m.tasks.ui.Remove(removed...)
		m.info("Deleted " + strconv.Itoa(len(removed)) + " tasks.")
	}
	return m, nil
}

// createTask files the new task next to the cursor task, or as its child.
func (m *appModel) createTask(title string, child bool) {
	if title == "" {
		return
	}
	in := mutate.TaskInput{Title: title}
	if cur, ok := m.tasks.current(); ok {
		in.CategoryID = cur.CategoryID
		if child {
			in.ParentID = model.StrPtr(cur.ID)
		} else {
			in.ParentID = cur.ParentID
		}
	} else {
		cat, err := m.firstCategory()
		if err != nil {
			m.fail(err)
			return
		}
		in.CategoryID = cat
	}
	if m.change(func(db *store.DB) error {
		_, err := mutate.CreateTask(db, m.userID, in)
		return err
	}) {
		if in.ParentID != nil {
			m.tasks.ui.SetExpanded(*in.ParentID, true)
			m.tasks.refresh(m.db, m.userID)
		}
		m.info("Task created.")
	}
}

var errNoCategory = errors.New("no category to file the task under; create a workspace first")

func (m *appModel) firstCategory() (string, error) {
	for _, ws := range mutate.ListWorkspaces(m.db, m.userID) {
		if cats := mutate.ListCategories(m.db, m.userID, ws.ID); len(cats) > 0 {
			return cats[0].ID, nil
		}
	}
	return "", mutate.ValidationError{Messages: []string{errNoCategory.Error()}}
}

func (m appModel) viewTasks() string {
	ts := m.tasks
	header := styleTitle().Render("Tasks")
	var info []string
	if len(ts.state.Search) > 0 {
		info = append(info, "search: "+strings.Join(ts.state.Search, ", "))
	}
	info = append(info, string(ts.state.Filters.Visibility))
	if s := ts.state.Sorts.String(); s != "" {
		info = append(info, "sort: "+s)
	}
	if ts.pages > 1 {
		info = append(info, "page "+strconv.Itoa(ts.page)+"/"+strconv.Itoa(ts.pages))
	}
	if n := len(ts.selected()); n > 0 {
		info = append(info, strconv.Itoa(n)+" selected")
	}
	header += "  " + styleMuted().Render(strings.Join(info, " · "))

	body := ts.list.View()
	if len(ts.list.Items()) == 0 {
		body = styleMuted().Render("No tasks. Press n to add one.")
	}
	left := header + "\n" + body
	if m.width < 100 {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(m.listWidth()).Render(left), m.preview())
}

// preview renders the cursor task's details and markdown description.
func (m appModel) preview() string {
	cur, ok := m.tasks.current()
	if !ok {
		return ""
	}
	w := max(m.width-m.listWidth()-3, 10)
	var b strings.Builder
	b.WriteString(styleTitle().Render(cur.Title))
	b.WriteString("\n")
	meta := []string{cur.CategoryName}
	if cur.StatusName != "" {
		meta = append(meta, cur.StatusName)
	}
	if cur.PriorityName != "" {
		meta = append(meta, cur.PriorityName)
	}
	b.WriteString(styleMuted().Render(strings.Join(meta, " · ")))
	b.WriteString("\n" + strings.Repeat(glyphHRule(), w) + "\n")
	if d := renderMarkdown(cur.Description, w); d != "" {
		b.WriteString(d)
	} else {
		b.WriteString(styleMuted().Render("No description."))
	}
	return stylePane().Width(w).Render(b.String())
}
