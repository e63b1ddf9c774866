package mutate

import (
	"testing"

	"github.com/stretchr/testify/require"

	"organizer/internal/model"
)

func TestCategory_CreateUniqueWithinParent(t *testing.T) {
	db, userID, ws, root := seeded(t)

	garden, err := CreateCategory(db, userID, CategoryInput{WorkspaceID: ws.ID, ParentID: model.StrPtr(root.ID), Name: "Garden"})
	require.NoError(t, err)

	_, err = CreateCategory(db, userID, CategoryInput{WorkspaceID: ws.ID, ParentID: model.StrPtr(root.ID), Name: "GARDEN"})
	require.Equal(t, []string{"Category name should be unique (case-insensitive) within a workspace and parent (if exists)."}, Messages(err))

	// Same name at the root level is a different scope.
	_, err = CreateCategory(db, userID, CategoryInput{WorkspaceID: ws.ID, Name: "Garden"})
	require.NoError(t, err)

	_, err = CreateCategory(db, userID, CategoryInput{WorkspaceID: ws.ID, Name: "x", Order: -1})
	require.Equal(t, []string{"Order must be a positive number."}, Messages(err))

	_, err = CreateCategory(db, otherUser(t, db), CategoryInput{WorkspaceID: ws.ID, Name: "intruder"})
	require.ErrorAs(t, err, new(UnauthorizedError))

	require.Equal(t, root.ID, model.DerefString(garden.ParentID))
}

func TestCategory_UpdateRejectsCycles(t *testing.T) {
	db, userID, ws, root := seeded(t)
	child, err := CreateCategory(db, userID, CategoryInput{WorkspaceID: ws.ID, ParentID: model.StrPtr(root.ID), Name: "Child"})
	require.NoError(t, err)

	_, err = UpdateCategory(db, userID, root.ID, CategoryPatch{ParentID: Some(model.StrPtr(child.ID))})
	require.ErrorAs(t, err, new(ValidationError))

	got, err := UpdateCategory(db, userID, child.ID, CategoryPatch{ParentID: Some[*string](nil), Order: Some(3)})
	require.NoError(t, err)
	require.Nil(t, got.ParentID)
	require.Equal(t, 3, got.Order)
}

func TestCategory_DeleteCascadesAndSkipsRemovedChildren(t *testing.T) {
	db, userID, ws, root := seeded(t)
	child, err := CreateCategory(db, userID, CategoryInput{WorkspaceID: ws.ID, ParentID: model.StrPtr(root.ID), Name: "Child"})
	require.NoError(t, err)
	mustTask(t, db, userID, child.ID, "in child", nil)

	require.NoError(t, DeleteCategories(db, userID, []string{root.ID, child.ID}))
	require.Empty(t, ListCategories(db, userID))
	require.Empty(t, ListTasks(db, userID))
}
