package mutate

import (
	"strings"

	"organizer/internal/model"
	"organizer/internal/store"
)

type SetStatusResult struct {
	Task     *model.Task
	Changed  bool
	Archived bool
}

// SetTaskStatus sets task.StatusID, validating it against the task's workspace (empty clears it).
// Reaching a completion status archives the task when ArchiveOnCompletion is set.
// Callers are responsible for saving db.
func SetTaskStatus(db *store.DB, userID, taskID, statusID string) (SetStatusResult, error) {
	taskID = strings.TrimSpace(taskID)
	statusID = strings.TrimSpace(statusID)
	if db == nil || taskID == "" {
		return SetStatusResult{}, nil
	}
	t, err := getTask(db, userID, taskID)
	if err != nil {
		return SetStatusResult{}, err
	}
	if model.DerefString(t.StatusID) == statusID {
		return SetStatusResult{Task: detach(t), Changed: false}, nil
	}
	if statusID != "" {
		ws, _ := db.WorkspaceIDForCategory(t.CategoryID)
		st, ok := db.FindStatus(statusID)
		if !ok || st.WorkspaceID != ws {
			return SetStatusResult{}, NotFoundError{Kind: "Status", ID: statusID}
		}
		t.StatusID = model.StrPtr(statusID)
	} else {
		t.StatusID = nil
	}
	wasArchived := t.IsArchived
	applyCompletion(db, t)
	t.UpdatedAt = nowUTC()
	return SetStatusResult{Task: detach(t), Changed: true, Archived: !wasArchived && t.IsArchived}, nil
}
