package tree

import (
	"testing"

	"organizer/internal/model"
)

func TestFilters_EmptyPassesEverything(t *testing.T) {
	var f Filters
	if !f.IsZero() {
		t.Fatalf("zero filters should report IsZero")
	}
	for _, r := range sampleRows() {
		if !f.Match(r) {
			t.Fatalf("empty filters rejected %s", r.ID)
		}
	}
}

func TestFilters_Dimensions(t *testing.T) {
	base := row("t", "", "Task")
	base.StatusID = model.StrPtr("st-1")
	base.PriorityID = model.StrPtr("pri-1")
	base.TagIDs = []string{"tag-1", "tag-2"}
	base.EndDate = day(10)
	base.StartDate = day(5)

	noRefs := row("n", "", "No refs")

	cases := []struct {
		name string
		f    Filters
		r    Row
		want bool
	}{
		{"workspace hit", Filters{WorkspaceIDs: []string{"ws-a"}}, base, true},
		{"workspace miss", Filters{WorkspaceIDs: []string{"ws-b"}}, base, false},
		{"category hit", Filters{CategoryIDs: []string{"cat-x", "cat-a"}}, base, true},
		{"category miss", Filters{CategoryIDs: []string{"cat-x"}}, base, false},
		{"status hit", Filters{StatusIDs: []string{"st-1"}}, base, true},
		{"status miss", Filters{StatusIDs: []string{"st-2"}}, base, false},
		{"status unassigned passes", Filters{StatusIDs: []string{"st-2"}}, noRefs, true},
		{"priority miss", Filters{PriorityIDs: []string{"pri-2"}}, base, false},
		{"priority unassigned passes", Filters{PriorityIDs: []string{"pri-2"}}, noRefs, true},
		{"any tag", Filters{TagIDs: []string{"tag-9", "tag-2"}}, base, true},
		{"no tag", Filters{TagIDs: []string{"tag-9"}}, base, false},
		{"untagged with tag filter", Filters{TagIDs: []string{"tag-1"}}, noRefs, false},
		{"visibility all", Filters{Visibility: VisibilityAll}, base, true},
		{"visibility active", Filters{Visibility: VisibilityActive}, base, true},
		{"visibility archived", Filters{Visibility: VisibilityArchived}, base, false},
		{"due inclusive", Filters{Due: day(10)}, base, true},
		{"due before end", Filters{Due: day(9)}, base, false},
		{"due without end date passes", Filters{Due: day(1)}, noRefs, true},
		{"start inclusive", Filters{Start: day(5)}, base, true},
		{"start before", Filters{Start: day(4)}, base, false},
		{"start without date passes", Filters{Start: day(1)}, noRefs, true},
		{"and of all", Filters{WorkspaceIDs: []string{"ws-a"}, StatusIDs: []string{"st-1"}, TagIDs: []string{"tag-9"}}, base, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.f.Match(tc.r); got != tc.want {
				t.Fatalf("Match = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestVisibility_ArchivedRows(t *testing.T) {
	r := row("a", "", "a")
	r.IsArchived = true
	if (Filters{Visibility: VisibilityActive}).Match(r) {
		t.Fatalf("active should hide archived")
	}
	if !(Filters{Visibility: VisibilityArchived}).Match(r) {
		t.Fatalf("archived should show archived")
	}
	if !(Filters{}).Match(r) {
		t.Fatalf("unset visibility should pass")
	}
}

func TestParseVisibility(t *testing.T) {
	if v, ok := ParseVisibility("archived"); !ok || v != VisibilityArchived {
		t.Fatalf("unexpected %v %v", v, ok)
	}
	if _, ok := ParseVisibility("hidden"); ok {
		t.Fatalf("expected invalid")
	}
}
