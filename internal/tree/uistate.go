package tree

import "sort"

// NodeState is the per-node UI state of a tree row.
type NodeState struct {
	Expanded        bool `json:"expanded"`
	AddChildVisible bool `json:"addChildVisible"`
	Selected        bool `json:"selected"`
}

// UIState maps node ids to their NodeState. Entries are created lazily, all false.
// The zero value is not usable; call NewUIState.
type UIState struct {
	nodes map[string]*NodeState
}

func NewUIState() *UIState {
	return &UIState{nodes: map[string]*NodeState{}}
}

func (u *UIState) entry(id string) *NodeState {
	st, ok := u.nodes[id]
	if !ok {
		st = &NodeState{}
		u.nodes[id] = st
	}
	return st
}

// Get returns the state of id without creating it. A nil UIState reports all false.
func (u *UIState) Get(id string) NodeState {
	if u == nil {
		return NodeState{}
	}
	if st, ok := u.nodes[id]; ok {
		return *st
	}
	return NodeState{}
}

func (u *UIState) Has(id string) bool {
	_, ok := u.nodes[id]
	return ok
}

func (u *UIState) Len() int { return len(u.nodes) }

// Sync creates entries for new ids and drops entries whose id is no longer present.
func (u *UIState) Sync(ids []string) {
	present := make(map[string]bool, len(ids))
	for _, id := range ids {
		present[id] = true
		u.entry(id)
	}
	for id := range u.nodes {
		if !present[id] {
			delete(u.nodes, id)
		}
	}
}

func (u *UIState) Remove(ids ...string) {
	for _, id := range ids {
		delete(u.nodes, id)
	}
}

func (u *UIState) ToggleExpand(id string) {
	st := u.entry(id)
	st.Expanded = !st.Expanded
}

func (u *UIState) SetExpanded(id string, v bool) {
	u.entry(id).Expanded = v
}

func (u *UIState) ToggleAddChildVisible(id string) {
	st := u.entry(id)
	st.AddChildVisible = !st.AddChildVisible
}

func (u *UIState) SetAddChildVisible(id string, v bool) {
	u.entry(id).AddChildVisible = v
}

// ToggleSelection flips id and forces its new value onto every descendant.
func (u *UIState) ToggleSelection(id string, d Descender) {
	st := u.entry(id)
	st.Selected = !st.Selected
	for _, cid := range descendants(d, id) {
		u.entry(cid).Selected = st.Selected
	}
}

// ToggleExpandAll flips id's expansion and forces its new value onto every descendant.
func (u *UIState) ToggleExpandAll(id string, d Descender) {
	st := u.entry(id)
	st.Expanded = !st.Expanded
	for _, cid := range descendants(d, id) {
		u.entry(cid).Expanded = st.Expanded
	}
}

// ToggleAllSelection deselects everything when everything is selected, otherwise selects all.
func (u *UIState) ToggleAllSelection() {
	next := !u.AllSelected()
	for _, st := range u.nodes {
		st.Selected = next
	}
}

func (u *UIState) ClearSelection() {
	for _, st := range u.nodes {
		st.Selected = false
	}
}

// SelectedIDs returns the selected ids in lexical order.
func (u *UIState) SelectedIDs() []string {
	var out []string
	for id, st := range u.nodes {
		if st.Selected {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (u *UIState) ExpandedIDs() []string {
	var out []string
	for id, st := range u.nodes {
		if st.Expanded {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (u *UIState) SomeSelected() bool {
	for _, st := range u.nodes {
		if st.Selected {
			return true
		}
	}
	return false
}

// AllSelected is false for an empty state.
func (u *UIState) AllSelected() bool {
	if len(u.nodes) == 0 {
		return false
	}
	for _, st := range u.nodes {
		if !st.Selected {
			return false
		}
	}
	return true
}

func descendants(d Descender, id string) []string {
	if d == nil {
		return nil
	}
	return d.DescendantIDs(id)
}
