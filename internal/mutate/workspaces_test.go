package mutate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"organizer/internal/store"
)

func TestCreateWorkspace_SeedsDefaults(t *testing.T) {
	db, userID, ws, cat := seeded(t)

	require.Equal(t, "Other", cat.Name)
	require.Equal(t, ws.ID, cat.WorkspaceID)

	statuses := ListStatuses(db, userID, ws.ID)
	require.Len(t, statuses, 4)
	var names []string
	for _, s := range statuses {
		names = append(names, s.Name)
	}
	require.Equal(t, []string{"Todo", "In-progress", "Cancelled", "Done"}, names)
	require.True(t, statuses[3].IsCompletion)
	require.Equal(t, "D", statuses[3].Code)

	prios := ListPriorities(db, userID, ws.ID)
	require.Len(t, prios, 3)
	require.Equal(t, "High", prios[2].Name)
	require.Equal(t, 3, prios[2].Order)
}

func TestCreateWorkspace_NameUniquePerOwner(t *testing.T) {
	db, userID, _, _ := seeded(t)

	_, err := CreateWorkspace(db, userID, WorkspaceInput{Name: " home "})
	require.Equal(t, []string{"Workspace with this name already exists."}, Messages(err))

	// Another user may reuse the name.
	_, err = CreateWorkspace(db, otherUser(t, db), WorkspaceInput{Name: "Home"})
	require.NoError(t, err)
}

func TestCreateWorkspace_Validation(t *testing.T) {
	db, userID, _, _ := seeded(t)
	_, err := CreateWorkspace(db, userID, WorkspaceInput{Name: "  "})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	require.Equal(t, []string{"Name cannot be empty!"}, ve.Messages)

	_, err = CreateWorkspace(db, "usr-ghost", WorkspaceInput{Name: "X"})
	require.ErrorAs(t, err, new(UnauthorizedError))
}

func TestUpdateWorkspace(t *testing.T) {
	db, userID, ws, _ := seeded(t)
	_, err := CreateWorkspace(db, userID, WorkspaceInput{Name: "Work"})
	require.NoError(t, err)

	got, err := UpdateWorkspace(db, userID, ws.ID, WorkspacePatch{Description: Some("chores")})
	require.NoError(t, err)
	require.Equal(t, "Home", got.Name)
	require.Equal(t, "chores", got.Description)

	// Changing only the case of its own name is allowed.
	_, err = UpdateWorkspace(db, userID, ws.ID, WorkspacePatch{Name: Some("HOME")})
	require.NoError(t, err)

	_, err = UpdateWorkspace(db, userID, ws.ID, WorkspacePatch{Name: Some("work")})
	require.ErrorAs(t, err, new(UniqueError))

	_, err = UpdateWorkspace(db, otherUser(t, db), ws.ID, WorkspacePatch{Name: Some("Mine")})
	require.Equal(t, []string{"Unauthorized."}, Messages(err))
}

func TestDeleteWorkspace_Cascades(t *testing.T) {
	db, userID, ws, cat := seeded(t)
	mustTask(t, db, userID, cat.ID, "a", nil)

	require.NoError(t, DeleteWorkspace(db, userID, ws.ID))
	require.Empty(t, db.Workspaces)
	require.Empty(t, db.Categories)
	require.Empty(t, db.Statuses)
	require.Empty(t, db.Priorities)
	require.Empty(t, db.Tasks)
}

func TestDeleteWorkspaces_AccumulatesErrors(t *testing.T) {
	db, userID, ws, _ := seeded(t)
	err := DeleteWorkspaces(db, userID, []string{"ws-missing", ws.ID, "ws-gone"})
	require.Equal(t, []string{
		"Workspace (id: ws-missing) not found.",
		"Workspace (id: ws-gone) not found.",
	}, Messages(err))
	require.Empty(t, db.Workspaces)
}

func TestStateRoundTripThroughStore(t *testing.T) {
	db, userID, _, cat := seeded(t)
	mustTask(t, db, userID, cat.ID, "persist me", nil)

	s := store.Store{Dir: t.TempDir()}
	require.NoError(t, s.Save(db))
	got, err := s.Load()
	require.NoError(t, err)
	require.Len(t, ListTasks(got, userID), 1)
}
