package mutate

import (
	"errors"
	"slices"
	"strings"
	"time"

	"organizer/internal/model"
	"organizer/internal/perm"
	"organizer/internal/store"
	"organizer/internal/validate"
)

type TaskInput struct {
	CategoryID string  `validate:"nonblank"`
	ParentID   *string
	Title      string `validate:"nonblank,max=500"`

	Description         string
	IsArchived          bool
	ArchiveOnCompletion bool

	StartDate      *time.Time
	EndDate        *time.Time
	EstimatedStart *time.Time
	EstimatedEnd   *time.Time

	// Nil picks the workspace's lowest-order status/priority.
	StatusID   *string
	PriorityID *string
	TagIDs     []string
}

// TaskPatch changes only the fields that are Set. Moving between categories goes through MoveTask.
type TaskPatch struct {
	Title               Opt[string]
	Description         Opt[string]
	IsArchived          Opt[bool]
	ArchiveOnCompletion Opt[bool]

	StartDate      Opt[*time.Time]
	EndDate        Opt[*time.Time]
	EstimatedStart Opt[*time.Time]
	EstimatedEnd   Opt[*time.Time]

	StatusID   Opt[*string]
	PriorityID Opt[*string]
	// Set replaces the task's tags; an empty list clears them.
	TagIDs Opt[[]string]
}

func taskInputFrom(t *model.Task) TaskInput {
	return TaskInput{
		CategoryID:          t.CategoryID,
		ParentID:            t.ParentID,
		Title:               t.Title,
		Description:         t.Description,
		IsArchived:          t.IsArchived,
		ArchiveOnCompletion: t.ArchiveOnCompletion,
		StartDate:           t.StartDate,
		EndDate:             t.EndDate,
		EstimatedStart:      t.EstimatedStart,
		EstimatedEnd:        t.EstimatedEnd,
		StatusID:            t.StatusID,
		PriorityID:          t.PriorityID,
		TagIDs:              t.TagIDs,
	}
}

func (p TaskPatch) applyTo(in *TaskInput) {
	p.Title.apply(&in.Title)
	p.Description.apply(&in.Description)
	p.IsArchived.apply(&in.IsArchived)
	p.ArchiveOnCompletion.apply(&in.ArchiveOnCompletion)
	p.StartDate.apply(&in.StartDate)
	p.EndDate.apply(&in.EndDate)
	p.EstimatedStart.apply(&in.EstimatedStart)
	p.EstimatedEnd.apply(&in.EstimatedEnd)
	p.StatusID.apply(&in.StatusID)
	p.PriorityID.apply(&in.PriorityID)
	p.TagIDs.apply(&in.TagIDs)
}

func checkTaskTitle(db *store.DB, categoryID string, parentID *string, title, skipID string) error {
	for _, t := range db.Tasks {
		if t.ID == skipID || t.CategoryID != categoryID || !sameParent(t.ParentID, parentID) {
			continue
		}
		if sameFold(t.Title, title) {
			return UniqueError{Messages: []string{uniqueMsg("Task", "title", "a category and parent (if exists)", true)}}
		}
	}
	return nil
}

// checkTaskRefs verifies that the parent, status, priority and tags referenced by in are usable
// from workspaceID by userID. selfID is set on updates to reject cycles.
func checkTaskRefs(db *store.DB, userID, workspaceID string, in TaskInput, selfID string) error {
	if in.ParentID != nil {
		parent, ok := db.FindTask(*in.ParentID)
		if !ok {
			return NotFoundError{Kind: "Task", ID: *in.ParentID}
		}
		if ws, _ := db.WorkspaceIDForTask(parent.ID); ws != workspaceID {
			return ValidationError{Messages: []string{"Parent task must belong to the same workspace."}}
		}
		if selfID != "" && slices.Contains(db.TaskSubtreeIDs(selfID), parent.ID) {
			return ValidationError{Messages: []string{"Task cannot be moved under itself."}}
		}
	}
	if in.StatusID != nil {
		st, ok := db.FindStatus(*in.StatusID)
		if !ok || st.WorkspaceID != workspaceID {
			return NotFoundError{Kind: "Status", ID: *in.StatusID}
		}
	}
	if in.PriorityID != nil {
		p, ok := db.FindPriority(*in.PriorityID)
		if !ok || p.WorkspaceID != workspaceID {
			return NotFoundError{Kind: "Priority", ID: *in.PriorityID}
		}
	}
	for _, id := range in.TagIDs {
		if _, err := getTag(db, userID, id); err != nil {
			return err
		}
	}
	return nil
}

func normalizeTaskInput(in *TaskInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	in.ParentID = normalizeParent(in.ParentID)
	in.StatusID = normalizeParent(in.StatusID)
	in.PriorityID = normalizeParent(in.PriorityID)
	var tags []string
	for _, id := range in.TagIDs {
		if id = strings.TrimSpace(id); id != "" && !slices.Contains(tags, id) {
			tags = append(tags, id)
		}
	}
	in.TagIDs = tags
}

// applyCompletion archives the task when it reaches a completion status and opted in.
func applyCompletion(db *store.DB, t *model.Task) {
	if !t.ArchiveOnCompletion || t.StatusID == nil {
		return
	}
	if st, ok := db.FindStatus(*t.StatusID); ok && st.IsCompletion {
		t.IsArchived = true
	}
}

func CreateTask(db *store.DB, userID string, in TaskInput) (*model.Task, error) {
	normalizeTaskInput(&in)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	cat, err := getCategory(db, userID, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := checkTaskRefs(db, userID, cat.WorkspaceID, in, ""); err != nil {
		return nil, err
	}
	if err := checkTaskTitle(db, cat.ID, in.ParentID, in.Title, ""); err != nil {
		return nil, err
	}
	if in.StatusID == nil {
		if st, ok := DefaultStatus(db, cat.WorkspaceID); ok {
			in.StatusID = model.StrPtr(st.ID)
		}
	}
	if in.PriorityID == nil {
		if p, ok := DefaultPriority(db, cat.WorkspaceID); ok {
			in.PriorityID = model.StrPtr(p.ID)
		}
	}

	id, err := store.NewID(db, store.PrefixTask)
	if err != nil {
		return nil, err
	}
	now := nowUTC()
	db.Tasks = append(db.Tasks, model.Task{
		ID:                  id,
		CategoryID:          cat.ID,
		ParentID:            in.ParentID,
		Title:               in.Title,
		Description:         in.Description,
		IsArchived:          in.IsArchived,
		ArchiveOnCompletion: in.ArchiveOnCompletion,
		StartDate:           in.StartDate,
		EndDate:             in.EndDate,
		EstimatedStart:      in.EstimatedStart,
		EstimatedEnd:        in.EstimatedEnd,
		StatusID:            in.StatusID,
		PriorityID:          in.PriorityID,
		TagIDs:              in.TagIDs,
		CreatedBy:           userID,
		CreatedAt:           now,
		UpdatedAt:           now,
	})
	t, _ := db.FindTask(id)
	applyCompletion(db, t)
	return detach(t), nil
}

func getTask(db *store.DB, userID, id string) (*model.Task, error) {
	t, ok := db.FindTask(strings.TrimSpace(id))
	if !ok {
		return nil, NotFoundError{Kind: "Task", ID: id}
	}
	if !perm.OwnsTask(db, userID, t) {
		return nil, UnauthorizedError{UserID: userID, Kind: "Task", ID: id}
	}
	return t, nil
}

func GetTask(db *store.DB, userID, id string) (*model.Task, error) {
	x, err := getTask(db, userID, id)
	if err != nil {
		return nil, err
	}
	return detach(x), nil
}

// ListTasks returns every task in the user's workspaces, in storage order.
func ListTasks(db *store.DB, userID string) []model.Task {
	owned := perm.OwnedWorkspaceIDs(db, userID)
	out := []model.Task{}
	for _, t := range db.Tasks {
		if ws, ok := db.WorkspaceIDForCategory(t.CategoryID); ok && owned[ws] {
			out = append(out, t)
		}
	}
	return out
}

func UpdateTask(db *store.DB, userID, id string, p TaskPatch) (*model.Task, error) {
	t, err := getTask(db, userID, id)
	if err != nil {
		return nil, err
	}
	in := taskInputFrom(t)
	p.applyTo(&in)
	normalizeTaskInput(&in)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	ws, _ := db.WorkspaceIDForCategory(t.CategoryID)
	if err := checkTaskRefs(db, userID, ws, in, t.ID); err != nil {
		return nil, err
	}
	if !sameFold(in.Title, t.Title) {
		if err := checkTaskTitle(db, t.CategoryID, t.ParentID, in.Title, t.ID); err != nil {
			return nil, err
		}
	}

	t.Title = in.Title
	t.Description = in.Description
	t.IsArchived = in.IsArchived
	t.ArchiveOnCompletion = in.ArchiveOnCompletion
	t.StartDate = in.StartDate
	t.EndDate = in.EndDate
	t.EstimatedStart = in.EstimatedStart
	t.EstimatedEnd = in.EstimatedEnd
	t.StatusID = in.StatusID
	t.PriorityID = in.PriorityID
	t.TagIDs = in.TagIDs
	t.UpdatedAt = nowUTC()
	applyCompletion(db, t)
	return detach(t), nil
}

// DeleteTask removes the task and its descendants. It returns the removed ids.
func DeleteTask(db *store.DB, userID, id string) ([]string, error) {
	t, err := getTask(db, userID, id)
	if err != nil {
		return nil, err
	}
	return db.DeleteTasks(t.ID), nil
}

// DeleteTasks deletes each id, continuing past failures. Ids already removed as
// descendants of an earlier id are skipped.
func DeleteTasks(db *store.DB, userID string, ids []string) ([]string, error) {
	var errs []error
	var removed []string
	for _, id := range ids {
		if slices.Contains(removed, strings.TrimSpace(id)) {
			continue
		}
		xs, err := DeleteTask(db, userID, id)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		removed = append(removed, xs...)
	}
	return removed, errors.Join(errs...)
}
