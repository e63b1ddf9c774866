package mutate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"organizer/internal/model"
	"organizer/internal/store"
)

// seeded returns a db with two users, a workspace owned by the first, and that workspace's
// default category.
func seeded(t *testing.T) (db *store.DB, userID string, ws *model.Workspace, cat *model.Category) {
	t.Helper()
	db = &store.DB{}
	u, err := CreateUser(db, UserInput{Name: "Ana"})
	require.NoError(t, err)
	_, err = CreateUser(db, UserInput{Name: "Bo"})
	require.NoError(t, err)
	ws, err = CreateWorkspace(db, u.ID, WorkspaceInput{Name: "Home"})
	require.NoError(t, err)
	cats := ListCategories(db, u.ID, ws.ID)
	require.Len(t, cats, 1)
	cat = &cats[0]
	return db, u.ID, ws, cat
}

func otherUser(t *testing.T, db *store.DB) string {
	t.Helper()
	u, err := ResolveUser(db, "bo")
	require.NoError(t, err)
	return u.ID
}

func mustTask(t *testing.T, db *store.DB, userID, catID, title string, parent *string) *model.Task {
	t.Helper()
	task, err := CreateTask(db, userID, TaskInput{CategoryID: catID, Title: title, ParentID: parent})
	require.NoError(t, err)
	return task
}
