package tui

import (
	"fmt"
	"strconv"
	"strings"

	"organizer/internal/counter"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) updateCounters(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys
	c, ok := m.counters.At(m.counterCursor)
	switch {
	case key.Matches(msg, k.Up):
		m.counterCursor = max(m.counterCursor-1, 0)
	case key.Matches(msg, k.Down):
		m.counterCursor = min(m.counterCursor+1, max(m.counters.Len()-1, 0))
	case key.Matches(msg, k.New):
		cmd := m.openPrompt(promptNewCounter, "title [amount [base]]", "")
		return m, cmd
	case key.Matches(msg, k.Increment):
		if ok {
			c.Increment()
		}
	case key.Matches(msg, k.Decrement):
		if ok {
			c.Decrement()
		}
	case key.Matches(msg, k.Reset):
		if ok {
			c.Reset()
		}
	case key.Matches(msg, k.Clear):
		if m.counters.Remove(m.counterCursor) {
			m.counterCursor = min(m.counterCursor, max(m.counters.Len()-1, 0))
		}
	}
	return m, nil
}

// addCounter reads "title [amount [base]]"; trailing numbers are the amount and base.
func (m *appModel) addCounter(val string) {
	fields := strings.Fields(val)
	var nums []int
	for len(fields) > 0 && len(nums) < 2 {
		n, err := strconv.Atoi(fields[len(fields)-1])
		if err != nil {
			break
		}
		nums = append([]int{n}, nums...)
		fields = fields[:len(fields)-1]
	}
	amount, base := counter.DefaultAmount, 0
	if len(nums) > 0 {
		amount = nums[0]
	}
	if len(nums) > 1 {
		base = nums[1]
	}
	m.counterCursor = m.counters.Add(counter.New(strings.Join(fields, " "), amount, base))
}

func (m appModel) viewCounters() string {
	var b strings.Builder
	b.WriteString(styleTitle().Render("Counters"))
	b.WriteString("\n")
	list := m.counters.List()
	if len(list) == 0 {
		b.WriteString(styleMuted().Render("No counters. Press n to add one."))
		return b.String()
	}
	for i, c := range list {
		title := c.Title
		if title == "" {
			title = "Counter " + strconv.Itoa(i+1)
		}
		line := fmt.Sprintf("%6d  %s", c.Count, title)
		line += styleMuted().Render(fmt.Sprintf("  step %d, base %d", c.Amount, c.Base))
		if i == m.counterCursor {
			line = styleSelected().Render(line)
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}
