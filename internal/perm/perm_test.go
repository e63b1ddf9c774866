package perm

import (
	"testing"

	"organizer/internal/model"
	"organizer/internal/store"
)

func fixture() *store.DB {
	return &store.DB{
		Workspaces: []model.Workspace{
			{ID: "ws-a", Name: "A", CreatedBy: "usr-a"},
			{ID: "ws-b", Name: "B", CreatedBy: "usr-b"},
		},
		Categories: []model.Category{
			{ID: "cat-a", WorkspaceID: "ws-a", Name: "Other"},
			{ID: "cat-b", WorkspaceID: "ws-b", Name: "Other"},
		},
		Statuses:   []model.Status{{ID: "st-a", WorkspaceID: "ws-a"}},
		Priorities: []model.Priority{{ID: "pri-b", WorkspaceID: "ws-b"}},
		Tags:       []model.Tag{{ID: "tag-a", Name: "x", CreatedBy: "usr-a"}},
		Tasks: []model.Task{
			{ID: "task-a", CategoryID: "cat-a", CreatedBy: "usr-b"},
			{ID: "task-orphan", CategoryID: "cat-missing", CreatedBy: "usr-a"},
		},
	}
}

func TestOwnership(t *testing.T) {
	db := fixture()
	cases := []struct {
		name string
		got  bool
		want bool
	}{
		{"workspace owner", OwnsWorkspace(db, "usr-a", "ws-a"), true},
		{"workspace other", OwnsWorkspace(db, "usr-a", "ws-b"), false},
		{"workspace missing", OwnsWorkspace(db, "usr-a", "ws-x"), false},
		{"empty user", OwnsWorkspace(db, " ", "ws-a"), false},
		{"category via workspace", OwnsCategory(db, "usr-a", "cat-a"), true},
		{"category other workspace", OwnsCategory(db, "usr-a", "cat-b"), false},
		// Ownership flows through the workspace, not the task creator.
		{"task via workspace", OwnsTask(db, "usr-a", &db.Tasks[0]), true},
		{"task creator without workspace", OwnsTask(db, "usr-b", &db.Tasks[0]), false},
		{"task with missing category", OwnsTask(db, "usr-a", &db.Tasks[1]), false},
		{"nil task", OwnsTask(db, "usr-a", nil), false},
		{"status", OwnsStatus(db, "usr-a", "st-a"), true},
		{"priority other", OwnsPriority(db, "usr-a", "pri-b"), false},
		{"priority owner", OwnsPriority(db, "usr-b", "pri-b"), true},
		{"tag owner", OwnsTag(db, "usr-a", "tag-a"), true},
		{"tag other", OwnsTag(db, "usr-b", "tag-a"), false},
		{"nil db", OwnsWorkspace(nil, "usr-a", "ws-a"), false},
	}
	for _, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, tc.got, tc.want)
		}
	}
}

func TestOwnedWorkspaceIDs(t *testing.T) {
	got := OwnedWorkspaceIDs(fixture(), "usr-b")
	if len(got) != 1 || !got["ws-b"] {
		t.Fatalf("unexpected owned set: %v", got)
	}
	if len(OwnedWorkspaceIDs(fixture(), "")) != 0 {
		t.Fatalf("empty user should own nothing")
	}
}
