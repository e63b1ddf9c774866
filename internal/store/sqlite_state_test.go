package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"organizer/internal/model"
)

func sampleDB() *DB {
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	end := now.Add(48 * time.Hour)
	return &DB{
		Version:       1,
		CurrentUserID: "usr-a",
		Users:         []model.User{{ID: "usr-a", Name: "Ana", CreatedAt: now}},
		Workspaces:    []model.Workspace{{ID: "ws-a", Name: "Home", CreatedBy: "usr-a", CreatedAt: now, UpdatedAt: now}},
		Categories: []model.Category{
			{ID: "cat-a", WorkspaceID: "ws-a", Name: "Other", CreatedAt: now, UpdatedAt: now},
			{ID: "cat-b", WorkspaceID: "ws-a", ParentID: model.StrPtr("cat-a"), Name: "Garden", Order: 1, CreatedAt: now, UpdatedAt: now},
		},
		Statuses:   []model.Status{{ID: "st-a", WorkspaceID: "ws-a", Name: "Todo", Code: "T", Group: 1, Order: 1}},
		Priorities: []model.Priority{{ID: "pri-a", WorkspaceID: "ws-a", Name: "Low", Code: "L", Group: 1, Order: 1}},
		Tags:       []model.Tag{{ID: "tag-a", Name: "home", CreatedBy: "usr-a", CreatedAt: now}},
		Tasks: []model.Task{
			{ID: "task-a", CategoryID: "cat-a", Title: "Parent", StatusID: model.StrPtr("st-a"), PriorityID: model.StrPtr("pri-a"), TagIDs: []string{"tag-a"}, EndDate: &end, CreatedBy: "usr-a", CreatedAt: now, UpdatedAt: now},
			{ID: "task-b", CategoryID: "cat-a", ParentID: model.StrPtr("task-a"), Title: "Child", CreatedBy: "usr-a", CreatedAt: now, UpdatedAt: now},
		},
	}
}

func TestSQLiteStateStore_SaveLoad_RoundTrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	want := sampleDB()

	require.NoError(t, s.Save(want))

	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, "usr-a", got.CurrentUserID)
	require.Equal(t, want.Users, got.Users)
	require.Equal(t, want.Workspaces, got.Workspaces)
	require.Equal(t, want.Categories, got.Categories)
	require.Equal(t, want.Statuses, got.Statuses)
	require.Equal(t, want.Priorities, got.Priorities)
	require.Equal(t, want.Tags, got.Tags)
	require.Len(t, got.Tasks, 2)
	require.Equal(t, "task-a", got.Tasks[0].ID)
	require.Equal(t, []string{"tag-a"}, got.Tasks[0].TagIDs)
	require.NotNil(t, got.Tasks[0].EndDate)
	require.True(t, want.Tasks[0].EndDate.Equal(*got.Tasks[0].EndDate))
	require.Equal(t, "task-a", model.DerefString(got.Tasks[1].ParentID))
}

func TestSQLiteStateStore_EmptyDirLoadsEmptyState(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	got, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 1, got.Version)
	require.Empty(t, got.Tasks)
	require.NotNil(t, got.Tasks)
	require.NotNil(t, got.Workspaces)
}

func TestSQLiteStateStore_SaveReplacesPreviousRows(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	db := sampleDB()
	require.NoError(t, s.Save(db))

	db.DeleteTasks("task-b")
	require.NoError(t, s.Save(db))

	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	require.Equal(t, "task-a", got.Tasks[0].ID)
}

func TestSQLiteStateStore_SaveNil(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	require.Error(t, s.Save(nil))
}
