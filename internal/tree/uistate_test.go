package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func syncedUI(v View[Row]) *UIState {
	ui := NewUIState()
	ui.Sync(RowIDs(v.Nodes()))
	return ui
}

func TestUIState_SelectionCascades(t *testing.T) {
	v := Build(sampleRows(), nil, nil)
	ui := syncedUI(v)

	ui.ToggleSelection("r1", v)
	if diff := cmp.Diff([]string{"c1", "c2", "g1", "r1"}, ui.SelectedIDs()); diff != "" {
		t.Fatalf("selected (-want +got):\n%s", diff)
	}

	// A child toggled off does not touch its parent.
	ui.ToggleSelection("c1", v)
	if diff := cmp.Diff([]string{"c2", "r1"}, ui.SelectedIDs()); diff != "" {
		t.Fatalf("selected (-want +got):\n%s", diff)
	}

	// The parent's new value is forced onto the whole subtree.
	ui.ToggleSelection("r1", v)
	if ui.SomeSelected() {
		t.Fatalf("expected nothing selected, got %v", ui.SelectedIDs())
	}
}

func TestUIState_ExpandAllCascades(t *testing.T) {
	v := Build(sampleRows(), nil, nil)
	ui := syncedUI(v)
	ui.SetExpanded("g1", true)

	ui.ToggleExpandAll("r1", v)
	if diff := cmp.Diff([]string{"c1", "c2", "g1", "r1"}, ui.ExpandedIDs()); diff != "" {
		t.Fatalf("expanded (-want +got):\n%s", diff)
	}
	ui.ToggleExpandAll("r1", v)
	if len(ui.ExpandedIDs()) != 0 {
		t.Fatalf("expected all collapsed, got %v", ui.ExpandedIDs())
	}
}

func TestUIState_ToggleAllSelection(t *testing.T) {
	v := Build(sampleRows(), nil, nil)
	ui := syncedUI(v)
	ui.ToggleSelection("c2", nil)

	ui.ToggleAllSelection()
	if !ui.AllSelected() {
		t.Fatalf("partial selection should become select-all")
	}
	ui.ToggleAllSelection()
	if ui.SomeSelected() {
		t.Fatalf("full selection should become deselect-all")
	}
	if NewUIState().AllSelected() {
		t.Fatalf("empty state is never all-selected")
	}
}

func TestUIState_SyncAddsAndDrops(t *testing.T) {
	ui := NewUIState()
	ui.Sync([]string{"a", "b"})
	ui.ToggleExpand("a")
	ui.ToggleAddChildVisible("b")

	ui.Sync([]string{"a", "c"})
	if ui.Has("b") || !ui.Has("c") || ui.Len() != 2 {
		t.Fatalf("unexpected entries after sync")
	}
	if !ui.Get("a").Expanded {
		t.Fatalf("existing entries keep their state")
	}
	if ui.Get("c") != (NodeState{}) {
		t.Fatalf("new entries start all false")
	}
	if (*UIState)(nil).Get("a") != (NodeState{}) {
		t.Fatalf("nil state reports all false")
	}
}

func TestUIState_ClearSelectionAndRemove(t *testing.T) {
	ui := NewUIState()
	ui.Sync([]string{"a", "b"})
	ui.ToggleAllSelection()
	ui.Remove("a")
	if diff := cmp.Diff([]string{"b"}, ui.SelectedIDs()); diff != "" {
		t.Fatalf("selected (-want +got):\n%s", diff)
	}
	ui.ClearSelection()
	if ui.SomeSelected() {
		t.Fatalf("expected no selection")
	}
}
