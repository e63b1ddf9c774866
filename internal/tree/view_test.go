package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild_SearchKeepsAncestorsAndSortsRoots(t *testing.T) {
	rows := sampleRows()
	st := &State{Search: ParseSearch("compare, groceries")}
	title, _ := TaskSort(SortTitle, DirAsc)
	st.UpdateSort(title)

	v := st.Derive(rows)
	if diff := cmp.Diff([]string{"r3", "r1"}, ids(v.Roots)); diff != "" {
		t.Fatalf("roots (-want +got):\n%s", diff)
	}
	if v.Len() != 4 {
		t.Fatalf("expected 4 nodes in the closure, got %d", v.Len())
	}
	// c2 did not match and is not an ancestor of a match.
	if diff := cmp.Diff([]string{"c1"}, ids(v.Children("r1"))); diff != "" {
		t.Fatalf("children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "g1"}, v.DescendantIDs("r1")); diff != "" {
		t.Fatalf("descendants (-want +got):\n%s", diff)
	}
}

func TestBuild_ChildrenFollowSortOrder(t *testing.T) {
	rows := sampleRows()
	st := &State{}
	desc, _ := TaskSort(SortTitle, DirDesc)
	st.UpdateSort(desc)
	v := st.Derive(rows)
	if diff := cmp.Diff([]string{"c2", "c1"}, ids(v.Children("r1"))); diff != "" {
		t.Fatalf("children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"r1", "r3", "r2"}, ids(v.Roots)); diff != "" {
		t.Fatalf("roots (-want +got):\n%s", diff)
	}
}

func TestBuild_NoMatches(t *testing.T) {
	v := Build(sampleRows(), func(Row) bool { return false }, nil)
	if len(v.Roots) != 0 || v.Len() != 0 {
		t.Fatalf("expected empty view, got %d roots %d nodes", len(v.Roots), v.Len())
	}
	var zero View[Row]
	if zero.Len() != 0 || zero.HasChildren("x") || zero.Nodes() != nil {
		t.Fatalf("zero view should be empty")
	}
}

func TestFlatten_OnlyDescendsIntoExpanded(t *testing.T) {
	v := Build(sampleRows(), nil, nil)
	ui := NewUIState()
	ui.Sync(RowIDs(v.Nodes()))

	lines := Flatten(v, v.Roots, ui)
	if got := len(lines); got != 3 {
		t.Fatalf("collapsed tree should show roots only, got %d lines", got)
	}
	if !lines[0].HasChildren || lines[1].HasChildren {
		t.Fatalf("unexpected HasChildren flags: %+v", lines)
	}

	ui.SetExpanded("r1", true)
	lines = Flatten(v, v.Roots, ui)
	var got []string
	var depths []int
	for _, l := range lines {
		got = append(got, l.Node.ID)
		depths = append(depths, l.Depth)
	}
	if diff := cmp.Diff([]string{"r1", "c1", "c2", "r2", "r3"}, got); diff != "" {
		t.Fatalf("lines (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{0, 1, 1, 0, 0}, depths); diff != "" {
		t.Fatalf("depths (-want +got):\n%s", diff)
	}
}

func TestFlatten_PaginatesRoots(t *testing.T) {
	v := Build(sampleRows(), nil, nil)
	page := Paginate(v.Roots, 2, 2)
	lines := Flatten(v, page, nil)
	if len(lines) != 1 || lines[0].Node.ID != "r3" {
		t.Fatalf("unexpected page lines %+v", lines)
	}
}
