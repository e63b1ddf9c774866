package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"organizer/internal/model"
)

func taskIDs(db *DB) []string {
	var out []string
	for _, t := range db.Tasks {
		out = append(out, t.ID)
	}
	return out
}

func TestDeleteTasks_RemovesDescendants(t *testing.T) {
	db := sampleDB()
	db.Tasks = append(db.Tasks,
		model.Task{ID: "task-c", CategoryID: "cat-a", ParentID: model.StrPtr("task-b"), Title: "Grandchild"},
		model.Task{ID: "task-d", CategoryID: "cat-a", Title: "Other root"},
	)

	removed := db.DeleteTasks("task-a")
	require.ElementsMatch(t, []string{"task-a", "task-b", "task-c"}, removed)
	require.Equal(t, []string{"task-d"}, taskIDs(db))
}

func TestDeleteTasks_SurvivesParentCycle(t *testing.T) {
	db := &DB{Tasks: []model.Task{
		{ID: "task-a", ParentID: model.StrPtr("task-b")},
		{ID: "task-b", ParentID: model.StrPtr("task-a")},
	}}
	removed := db.DeleteTasks("task-a")
	require.ElementsMatch(t, []string{"task-a", "task-b"}, removed)
}

func TestDeleteCategory_RemovesChildCategoriesAndTheirTasks(t *testing.T) {
	db := sampleDB()
	db.Tasks = append(db.Tasks, model.Task{ID: "task-g", CategoryID: "cat-b", Title: "Weed"})

	cats, tasks := db.DeleteCategory("cat-a")
	require.ElementsMatch(t, []string{"cat-a", "cat-b"}, cats)
	require.ElementsMatch(t, []string{"task-a", "task-b", "task-g"}, tasks)
	require.Empty(t, db.Categories)
	require.Empty(t, db.Tasks)
}

func TestDeleteWorkspace_RemovesEverythingInside(t *testing.T) {
	db := sampleDB()
	db.DeleteWorkspace("ws-a")
	require.Empty(t, db.Workspaces)
	require.Empty(t, db.Categories)
	require.Empty(t, db.Statuses)
	require.Empty(t, db.Priorities)
	require.Empty(t, db.Tasks)
	require.Len(t, db.Tags, 1, "tags are owned by users, not workspaces")
}

func TestDeleteStatusPriorityTag_ClearTaskReferences(t *testing.T) {
	db := sampleDB()
	db.DeleteStatus("st-a")
	db.DeletePriority("pri-a")
	db.DeleteTag("tag-a")

	task, ok := db.FindTask("task-a")
	require.True(t, ok)
	require.Nil(t, task.StatusID)
	require.Nil(t, task.PriorityID)
	require.Empty(t, task.TagIDs)
	require.Empty(t, db.Statuses)
	require.Empty(t, db.Priorities)
	require.Empty(t, db.Tags)
}
