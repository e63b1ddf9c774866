package tui

import (
	"fmt"
	"io"
	"strings"

	"organizer/internal/tree"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// taskItem is one visible line of the task tree.
type taskItem struct {
	line tree.Line[tree.Row]
}

func (it taskItem) FilterValue() string { return it.line.Node.Title }

// taskDelegate renders task lines as "☐ ▸ T H Title  category #tag".
type taskDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	muted    lipgloss.Style
}

func newTaskDelegate() taskDelegate {
	return taskDelegate{
		normal:   lipgloss.NewStyle(),
		selected: styleSelected(),
		muted:    styleMuted(),
	}
}

func (d taskDelegate) Height() int                             { return 1 }
func (d taskDelegate) Spacing() int                            { return 0 }
func (d taskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d taskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	contentW := m.Width()
	if !ok || contentW < 4 {
		return
	}
	l := it.line
	r := l.Node

	check := glyphUnchecked()
	if l.State.Selected {
		check = glyphChecked()
	}
	twisty := glyphLeaf()
	if l.HasChildren {
		twisty = glyphTwistyCollapsed()
		if l.State.Expanded {
			twisty = glyphTwistyExpanded()
		}
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", l.Depth))
	fmt.Fprintf(&b, "%s %s ", check, twisty)
	if r.StatusCode != "" {
		b.WriteString("[" + r.StatusCode + "] ")
	}
	if r.PriorityCode != "" {
		b.WriteString("(" + r.PriorityCode + ") ")
	}
	b.WriteString(r.Title)

	var meta []string
	if r.CategoryName != "" {
		meta = append(meta, r.CategoryName)
	}
	for _, t := range r.TagNames {
		meta = append(meta, "#"+t)
	}
	if r.EndDate != nil {
		meta = append(meta, "due "+r.EndDate.Format("2006-01-02"))
	}
	if r.IsArchived {
		meta = append(meta, "archived")
	}

	style := d.normal
	if index == m.Index() {
		style = d.selected
	}
	line := b.String()
	if len(meta) > 0 {
		metaTxt := "  " + strings.Join(meta, " · ")
		if index == m.Index() {
			line += metaTxt
		} else {
			line += d.muted.Render(metaTxt)
		}
	}

	lineW := xansi.StringWidth(line)
	if lineW < contentW {
		line += strings.Repeat(" ", contentW-lineW)
	} else if lineW > contentW {
		line = xansi.Truncate(line, contentW, "…")
	}
	fmt.Fprint(w, style.Render(line))
}
