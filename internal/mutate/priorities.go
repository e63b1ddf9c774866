package mutate

import (
	"errors"
	"strings"

	"organizer/internal/model"
	"organizer/internal/perm"
	"organizer/internal/store"
	"organizer/internal/validate"
)

type PriorityInput struct {
	WorkspaceID string `validate:"nonblank"`
	Name        string `validate:"nonblank,max=100"`
	Code        string `validate:"nonblank,max=10"`
	Group       int    `validate:"gte=0"`
	Order       int    `validate:"gte=0"`
}

type PriorityPatch struct {
	Name  Opt[string]
	Code  Opt[string]
	Group Opt[int]
	Order Opt[int]
}

func (p PriorityPatch) applyTo(in *PriorityInput) {
	p.Name.apply(&in.Name)
	p.Code.apply(&in.Code)
	p.Group.apply(&in.Group)
	p.Order.apply(&in.Order)
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
}

func (in PriorityInput) asSetting() StatusInput {
	return StatusInput{WorkspaceID: in.WorkspaceID, Name: in.Name, Code: in.Code, Group: in.Group, Order: in.Order}
}

func priorityRows(db *store.DB, workspaceID string) []settingRow {
	var out []settingRow
	for _, p := range db.PrioritiesInWorkspace(workspaceID) {
		out = append(out, settingRow{ID: p.ID, Name: p.Name, Code: p.Code, Order: p.Order})
	}
	return out
}

func CreatePriority(db *store.DB, userID string, in PriorityInput) (*model.Priority, error) {
	PriorityPatch{}.applyTo(&in)
	in.WorkspaceID = strings.TrimSpace(in.WorkspaceID)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if _, err := getWorkspace(db, userID, in.WorkspaceID); err != nil {
		return nil, err
	}
	if err := checkSettingUnique("Priority", priorityRows(db, in.WorkspaceID), in.asSetting(), nil); err != nil {
		return nil, err
	}
	id, err := store.NewID(db, store.PrefixPriority)
	if err != nil {
		return nil, err
	}
	db.Priorities = append(db.Priorities, model.Priority{
		ID:          id,
		WorkspaceID: in.WorkspaceID,
		Name:        in.Name,
		Code:        in.Code,
		Group:       in.Group,
		Order:       in.Order,
	})
	p, _ := db.FindPriority(id)
	return detach(p), nil
}

func getPriority(db *store.DB, userID, id string) (*model.Priority, error) {
	p, ok := db.FindPriority(strings.TrimSpace(id))
	if !ok {
		return nil, NotFoundError{Kind: "Priority", ID: id}
	}
	if !perm.OwnsPriority(db, userID, p.ID) {
		return nil, UnauthorizedError{UserID: userID, Kind: "Priority", ID: id}
	}
	return p, nil
}

func GetPriority(db *store.DB, userID, id string) (*model.Priority, error) {
	x, err := getPriority(db, userID, id)
	if err != nil {
		return nil, err
	}
	return detach(x), nil
}

func ListPriorities(db *store.DB, userID string, workspaceIDs ...string) []model.Priority {
	owned := perm.OwnedWorkspaceIDs(db, userID)
	only := setOf(workspaceIDs)
	out := []model.Priority{}
	for _, p := range db.Priorities {
		if owned[p.WorkspaceID] && (len(only) == 0 || only[p.WorkspaceID]) {
			out = append(out, p)
		}
	}
	return out
}

func UpdatePriority(db *store.DB, userID, id string, patch PriorityPatch) (*model.Priority, error) {
	p, err := getPriority(db, userID, id)
	if err != nil {
		return nil, err
	}
	in := PriorityInput{WorkspaceID: p.WorkspaceID, Name: p.Name, Code: p.Code, Group: p.Group, Order: p.Order}
	patch.applyTo(&in)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	prev := settingRow{ID: p.ID, Name: p.Name, Code: p.Code, Order: p.Order}
	if err := checkSettingUnique("Priority", priorityRows(db, p.WorkspaceID), in.asSetting(), &prev); err != nil {
		return nil, err
	}
	p.Name, p.Code, p.Group, p.Order = in.Name, in.Code, in.Group, in.Order
	return detach(p), nil
}

// DeletePriority removes the priority and clears it from the tasks that used it.
func DeletePriority(db *store.DB, userID, id string) error {
	p, err := getPriority(db, userID, id)
	if err != nil {
		return err
	}
	db.DeletePriority(p.ID)
	return nil
}

func DeletePriorities(db *store.DB, userID string, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := DeletePriority(db, userID, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultPriority returns the lowest-order priority of the workspace.
func DefaultPriority(db *store.DB, workspaceID string) (*model.Priority, bool) {
	var best *model.Priority
	for i := range db.Priorities {
		p := &db.Priorities[i]
		if p.WorkspaceID == workspaceID && (best == nil || p.Order < best.Order) {
			best = p
		}
	}
	return detach(best), best != nil
}
