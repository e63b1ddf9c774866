package mutate

import (
	"errors"
	"strings"

	"organizer/internal/model"
	"organizer/internal/perm"
	"organizer/internal/store"
	"organizer/internal/validate"
)

type WorkspaceInput struct {
	Name        string `validate:"nonblank,max=200"`
	Description string
}

type WorkspacePatch struct {
	Name        Opt[string]
	Description Opt[string]
}

func requireUser(db *store.DB, userID string) error {
	if _, ok := db.FindUser(strings.TrimSpace(userID)); !ok {
		return UnauthorizedError{UserID: userID}
	}
	return nil
}

func checkWorkspaceName(db *store.DB, userID, name, skipID string) error {
	for _, w := range db.Workspaces {
		if w.ID != skipID && w.CreatedBy == userID && sameFold(w.Name, name) {
			return UniqueError{Messages: []string{"Workspace with this name already exists."}}
		}
	}
	return nil
}

// CreateWorkspace creates a workspace owned by userID and seeds its default category,
// statuses and priorities.
func CreateWorkspace(db *store.DB, userID string, in WorkspaceInput) (*model.Workspace, error) {
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if err := checkWorkspaceName(db, userID, in.Name, ""); err != nil {
		return nil, err
	}

	now := nowUTC()
	id, err := store.NewID(db, store.PrefixWorkspace)
	if err != nil {
		return nil, err
	}
	db.Workspaces = append(db.Workspaces, model.Workspace{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})

	catID, err := store.NewID(db, store.PrefixCategory)
	if err != nil {
		return nil, err
	}
	db.Categories = append(db.Categories, model.Category{
		ID:          catID,
		WorkspaceID: id,
		Name:        model.DefaultCategoryName,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	for _, st := range model.DefaultStatuses() {
		if st.ID, err = store.NewID(db, store.PrefixStatus); err != nil {
			return nil, err
		}
		st.WorkspaceID = id
		db.Statuses = append(db.Statuses, st)
	}
	for _, p := range model.DefaultPriorities() {
		if p.ID, err = store.NewID(db, store.PrefixPriority); err != nil {
			return nil, err
		}
		p.WorkspaceID = id
		db.Priorities = append(db.Priorities, p)
	}

	ws, _ := db.FindWorkspace(id)
	return detach(ws), nil
}

func getWorkspace(db *store.DB, userID, id string) (*model.Workspace, error) {
	ws, ok := db.FindWorkspace(strings.TrimSpace(id))
	if !ok {
		return nil, NotFoundError{Kind: "Workspace", ID: id}
	}
	if !perm.OwnsWorkspace(db, userID, ws.ID) {
		return nil, UnauthorizedError{UserID: userID, Kind: "Workspace", ID: id}
	}
	return ws, nil
}

func GetWorkspace(db *store.DB, userID, id string) (*model.Workspace, error) {
	x, err := getWorkspace(db, userID, id)
	if err != nil {
		return nil, err
	}
	return detach(x), nil
}

// ListWorkspaces returns the workspaces owned by userID.
func ListWorkspaces(db *store.DB, userID string) []model.Workspace {
	out := []model.Workspace{}
	for _, w := range db.Workspaces {
		if w.CreatedBy == userID {
			out = append(out, w)
		}
	}
	return out
}

func UpdateWorkspace(db *store.DB, userID, id string, p WorkspacePatch) (*model.Workspace, error) {
	ws, err := getWorkspace(db, userID, id)
	if err != nil {
		return nil, err
	}
	in := WorkspaceInput{Name: ws.Name, Description: ws.Description}
	p.Name.apply(&in.Name)
	p.Description.apply(&in.Description)
	in.Name = strings.TrimSpace(in.Name)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if !sameFold(in.Name, ws.Name) {
		if err := checkWorkspaceName(db, userID, in.Name, ws.ID); err != nil {
			return nil, err
		}
	}
	ws.Name = in.Name
	ws.Description = in.Description
	ws.UpdatedAt = nowUTC()
	return detach(ws), nil
}

// DeleteWorkspace removes the workspace and everything filed under it.
func DeleteWorkspace(db *store.DB, userID, id string) error {
	if _, err := getWorkspace(db, userID, id); err != nil {
		return err
	}
	db.DeleteWorkspace(strings.TrimSpace(id))
	return nil
}

// DeleteWorkspaces deletes each id, continuing past failures.
func DeleteWorkspaces(db *store.DB, userID string, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := DeleteWorkspace(db, userID, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
