package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"organizer/internal/model"
	"organizer/internal/store"
)

func TestState_SetWorkspacesPrunesOtherFilters(t *testing.T) {
	db := &store.DB{
		Categories: []model.Category{{ID: "cat-a", WorkspaceID: "ws-a"}, {ID: "cat-b", WorkspaceID: "ws-b"}},
		Statuses:   []model.Status{{ID: "st-a", WorkspaceID: "ws-a"}, {ID: "st-b", WorkspaceID: "ws-b"}},
		Priorities: []model.Priority{{ID: "pri-a", WorkspaceID: "ws-a"}, {ID: "pri-b", WorkspaceID: "ws-b"}},
	}
	s := NewState()
	s.SetCategories([]string{"cat-a", "cat-b"})
	s.SetStatuses([]string{"st-a", "st-b"})
	s.SetPriorities([]string{"pri-b"})
	s.SetTags([]string{"tag-1"})

	s.SetWorkspaces([]string{"ws-a"}, CatalogFrom(db))

	want := Filters{
		WorkspaceIDs: []string{"ws-a"},
		CategoryIDs:  []string{"cat-a"},
		StatusIDs:    []string{"st-a"},
		TagIDs:       []string{"tag-1"},
		Visibility:   VisibilityActive,
	}
	if diff := cmp.Diff(want, s.Filters, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("filters (-want +got):\n%s", diff)
	}
}

func TestState_ClearingWorkspacesKeepsOtherFilters(t *testing.T) {
	s := NewState()
	s.SetCategories([]string{"cat-a"})
	s.SetWorkspaces(nil, Catalog{})
	if diff := cmp.Diff([]string{"cat-a"}, s.Filters.CategoryIDs); diff != "" {
		t.Fatalf("categories (-want +got):\n%s", diff)
	}
}

func TestState_ResetFilters(t *testing.T) {
	s := NewState()
	s.SetVisibility(VisibilityArchived)
	s.SetTags([]string{"tag-1"})
	s.SetDue(day(3))
	s.SetSearch("x")

	s.ResetFilters()
	if diff := cmp.Diff(Filters{Visibility: VisibilityActive}, s.Filters); diff != "" {
		t.Fatalf("filters (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"x"}, s.Search); diff != "" {
		t.Fatalf("search is not a filter (-want +got):\n%s", diff)
	}
}

func TestState_DueAndStartAreIndependent(t *testing.T) {
	s := NewState()
	s.SetStart(day(4))
	if s.Filters.Due != nil {
		t.Fatalf("SetStart must not touch the due filter")
	}
	if s.Filters.Start == nil || !s.Filters.Start.Equal(*day(4)) {
		t.Fatalf("SetStart did not set start")
	}
	s.SetDue(day(9))
	if !s.Filters.Start.Equal(*day(4)) {
		t.Fatalf("SetDue must not touch the start filter")
	}
}

func TestState_DeriveHidesArchivedByDefault(t *testing.T) {
	v := NewState().Derive(sampleRows())
	if diff := cmp.Diff([]string{"r1", "r3"}, ids(v.Roots)); diff != "" {
		t.Fatalf("roots (-want +got):\n%s", diff)
	}
}

func TestState_ResetSort(t *testing.T) {
	s := NewState()
	title, _ := TaskSort(SortTitle, DirAsc)
	s.UpdateSort(title)
	s.ResetSort()
	if len(s.Sorts) != 0 {
		t.Fatalf("expected no sorts")
	}
}

func TestRowsFor_JoinsNames(t *testing.T) {
	db := &store.DB{
		Categories: []model.Category{{ID: "cat-a", WorkspaceID: "ws-a", Name: "Home"}},
		Statuses:   []model.Status{{ID: "st-1", Name: "Todo", Code: "T"}},
		Priorities: []model.Priority{{ID: "pri-1", Name: "High", Code: "H"}},
		Tags:       []model.Tag{{ID: "tag-1", Name: "errand"}},
	}
	tasks := []model.Task{
		{ID: "t1", CategoryID: "cat-a", StatusID: model.StrPtr("st-1"), PriorityID: model.StrPtr("pri-1"), TagIDs: []string{"tag-1", "tag-gone"}},
		{ID: "t2", CategoryID: "cat-gone"},
	}
	rows := RowsFor(db, tasks)
	if rows[0].WorkspaceID != "ws-a" || rows[0].CategoryName != "Home" || rows[0].StatusCode != "T" || rows[0].PriorityName != "High" {
		t.Fatalf("unexpected join %+v", rows[0])
	}
	if diff := cmp.Diff([]string{"errand"}, rows[0].TagNames); diff != "" {
		t.Fatalf("tag names (-want +got):\n%s", diff)
	}
	if rows[1].WorkspaceID != "" {
		t.Fatalf("orphan task should have no workspace")
	}
}
