package mutate

import (
	"strings"

	"organizer/internal/model"
	"organizer/internal/store"
)

type ArchiveResult struct {
	Task    *model.Task
	Changed bool
}

// SetTaskArchived sets task.IsArchived. It enforces ownership via internal/perm.
// Callers are responsible for saving db.
func SetTaskArchived(db *store.DB, userID, taskID string, archived bool) (ArchiveResult, error) {
	taskID = strings.TrimSpace(taskID)
	userID = strings.TrimSpace(userID)
	if db == nil || taskID == "" {
		return ArchiveResult{}, nil
	}
	t, err := getTask(db, userID, taskID)
	if err != nil {
		return ArchiveResult{}, err
	}
	if t.IsArchived == archived {
		return ArchiveResult{Task: detach(t), Changed: false}, nil
	}
	t.IsArchived = archived
	t.UpdatedAt = nowUTC()
	return ArchiveResult{Task: detach(t), Changed: true}, nil
}
