package perm

import (
	"strings"

	"organizer/internal/model"
	"organizer/internal/store"
)

// Ownership rules:
// - A workspace belongs to its creator.
// - Categories, statuses and priorities belong to whoever owns their workspace.
// - A task belongs to whoever owns its category's workspace.
// - A tag belongs to its creator.

func OwnsWorkspace(db *store.DB, userID string, workspaceID string) bool {
	userID = strings.TrimSpace(userID)
	if db == nil || userID == "" {
		return false
	}
	ws, ok := db.FindWorkspace(workspaceID)
	return ok && ws.CreatedBy == userID
}

func OwnsCategory(db *store.DB, userID string, categoryID string) bool {
	if db == nil {
		return false
	}
	wsID, ok := db.WorkspaceIDForCategory(categoryID)
	return ok && OwnsWorkspace(db, userID, wsID)
}

func OwnsTask(db *store.DB, userID string, t *model.Task) bool {
	if t == nil {
		return false
	}
	return OwnsCategory(db, userID, t.CategoryID)
}

func OwnsStatus(db *store.DB, userID string, statusID string) bool {
	if db == nil {
		return false
	}
	st, ok := db.FindStatus(statusID)
	return ok && OwnsWorkspace(db, userID, st.WorkspaceID)
}

func OwnsPriority(db *store.DB, userID string, priorityID string) bool {
	if db == nil {
		return false
	}
	p, ok := db.FindPriority(priorityID)
	return ok && OwnsWorkspace(db, userID, p.WorkspaceID)
}

func OwnsTag(db *store.DB, userID string, tagID string) bool {
	userID = strings.TrimSpace(userID)
	if db == nil || userID == "" {
		return false
	}
	t, ok := db.FindTag(tagID)
	return ok && t.CreatedBy == userID
}

// OwnedWorkspaceIDs returns the set of workspace ids owned by userID.
func OwnedWorkspaceIDs(db *store.DB, userID string) map[string]bool {
	out := map[string]bool{}
	if db == nil {
		return out
	}
	for _, w := range db.Workspaces {
		if w.CreatedBy == userID && userID != "" {
			out[w.ID] = true
		}
	}
	return out
}
