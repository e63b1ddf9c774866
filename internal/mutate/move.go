package mutate

import (
	"slices"
	"strings"

	"organizer/internal/model"
	"organizer/internal/store"
)

type MoveResult struct {
	Task *model.Task
	// Moved lists the task and every descendant that changed category.
	Moved []string
}

// MoveTask reparents a task and files its whole subtree under toCategoryID.
// Moving across workspaces resets status and priority to the target workspace defaults.
func MoveTask(db *store.DB, userID, taskID, toCategoryID string, toParentID *string) (MoveResult, error) {
	taskID = strings.TrimSpace(taskID)
	toCategoryID = strings.TrimSpace(toCategoryID)
	toParentID = normalizeParent(toParentID)

	t, err := getTask(db, userID, taskID)
	if err != nil {
		return MoveResult{}, err
	}
	if toCategoryID == "" {
		toCategoryID = t.CategoryID
	}
	cat, err := getCategory(db, userID, toCategoryID)
	if err != nil {
		return MoveResult{}, err
	}
	ids := db.TaskSubtreeIDs(t.ID)
	if toParentID != nil {
		parent, err := getTask(db, userID, *toParentID)
		if err != nil {
			return MoveResult{}, err
		}
		if slices.Contains(ids, parent.ID) {
			return MoveResult{}, ValidationError{Messages: []string{"Task cannot be moved under itself."}}
		}
		if parent.CategoryID != cat.ID {
			return MoveResult{}, ValidationError{Messages: []string{"Parent task must belong to the target category."}}
		}
	}
	if t.CategoryID != cat.ID || !sameParent(t.ParentID, toParentID) {
		if err := checkTaskTitle(db, cat.ID, toParentID, t.Title, t.ID); err != nil {
			return MoveResult{}, err
		}
	}

	fromWS, _ := db.WorkspaceIDForCategory(t.CategoryID)
	crossWorkspace := fromWS != cat.WorkspaceID
	now := nowUTC()

	var moved []string
	for _, id := range ids {
		x, ok := db.FindTask(id)
		if !ok {
			continue
		}
		if x.CategoryID != cat.ID {
			x.CategoryID = cat.ID
			moved = append(moved, x.ID)
		}
		if crossWorkspace {
			x.StatusID, x.PriorityID = nil, nil
			if st, ok := DefaultStatus(db, cat.WorkspaceID); ok {
				x.StatusID = model.StrPtr(st.ID)
			}
			if p, ok := DefaultPriority(db, cat.WorkspaceID); ok {
				x.PriorityID = model.StrPtr(p.ID)
			}
		}
		x.UpdatedAt = now
	}
	t.ParentID = toParentID
	return MoveResult{Task: detach(t), Moved: moved}, nil
}
