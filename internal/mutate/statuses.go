package mutate

import (
	"errors"
	"strings"

	"organizer/internal/model"
	"organizer/internal/perm"
	"organizer/internal/store"
	"organizer/internal/validate"
)

// StatusInput also backs priorities; IsCompletion is ignored there.
type StatusInput struct {
	WorkspaceID  string `validate:"nonblank"`
	Name         string `validate:"nonblank,max=100"`
	Code         string `validate:"nonblank,max=10"`
	Group        int    `validate:"gte=0"`
	Order        int    `validate:"gte=0"`
	IsCompletion bool
}

type StatusPatch struct {
	Name         Opt[string]
	Code         Opt[string]
	Group        Opt[int]
	Order        Opt[int]
	IsCompletion Opt[bool]
}

func (p StatusPatch) applyTo(in *StatusInput) {
	p.Name.apply(&in.Name)
	p.Code.apply(&in.Code)
	p.Group.apply(&in.Group)
	p.Order.apply(&in.Order)
	p.IsCompletion.apply(&in.IsCompletion)
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.TrimSpace(in.Code)
}

// settingRow is the shape shared by statuses and priorities for uniqueness checks.
type settingRow struct {
	ID, Name, Code string
	Order          int
}

// checkSettingUnique reports every clash at once: name and code case-insensitively, order exactly.
func checkSettingUnique(entity string, rows []settingRow, in StatusInput, prev *settingRow) error {
	var msgs []string
	checkName := prev == nil || !sameFold(prev.Name, in.Name)
	checkCode := prev == nil || !sameFold(prev.Code, in.Code)
	checkOrder := prev == nil || prev.Order != in.Order
	var nameHit, codeHit, orderHit bool
	for _, r := range rows {
		if prev != nil && r.ID == prev.ID {
			continue
		}
		nameHit = nameHit || (checkName && sameFold(r.Name, in.Name))
		codeHit = codeHit || (checkCode && sameFold(r.Code, in.Code))
		orderHit = orderHit || (checkOrder && r.Order == in.Order)
	}
	if nameHit {
		msgs = append(msgs, uniqueMsg(entity, "name", "a workspace", true))
	}
	if codeHit {
		msgs = append(msgs, uniqueMsg(entity, "code", "a workspace", true))
	}
	if orderHit {
		msgs = append(msgs, uniqueMsg(entity, "order", "a workspace", false))
	}
	if len(msgs) > 0 {
		return UniqueError{Messages: msgs}
	}
	return nil
}

func statusRows(db *store.DB, workspaceID string) []settingRow {
	var out []settingRow
	for _, s := range db.StatusesInWorkspace(workspaceID) {
		out = append(out, settingRow{ID: s.ID, Name: s.Name, Code: s.Code, Order: s.Order})
	}
	return out
}

func CreateStatus(db *store.DB, userID string, in StatusInput) (*model.Status, error) {
	StatusPatch{}.applyTo(&in)
	in.WorkspaceID = strings.TrimSpace(in.WorkspaceID)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if _, err := getWorkspace(db, userID, in.WorkspaceID); err != nil {
		return nil, err
	}
	if err := checkSettingUnique("Status", statusRows(db, in.WorkspaceID), in, nil); err != nil {
		return nil, err
	}
	id, err := store.NewID(db, store.PrefixStatus)
	if err != nil {
		return nil, err
	}
	db.Statuses = append(db.Statuses, model.Status{
		ID:           id,
		WorkspaceID:  in.WorkspaceID,
		Name:         in.Name,
		Code:         in.Code,
		Group:        in.Group,
		Order:        in.Order,
		IsCompletion: in.IsCompletion,
	})
	st, _ := db.FindStatus(id)
	return detach(st), nil
}

func getStatus(db *store.DB, userID, id string) (*model.Status, error) {
	st, ok := db.FindStatus(strings.TrimSpace(id))
	if !ok {
		return nil, NotFoundError{Kind: "Status", ID: id}
	}
	if !perm.OwnsStatus(db, userID, st.ID) {
		return nil, UnauthorizedError{UserID: userID, Kind: "Status", ID: id}
	}
	return st, nil
}

func GetStatus(db *store.DB, userID, id string) (*model.Status, error) {
	x, err := getStatus(db, userID, id)
	if err != nil {
		return nil, err
	}
	return detach(x), nil
}

func ListStatuses(db *store.DB, userID string, workspaceIDs ...string) []model.Status {
	owned := perm.OwnedWorkspaceIDs(db, userID)
	only := setOf(workspaceIDs)
	out := []model.Status{}
	for _, s := range db.Statuses {
		if owned[s.WorkspaceID] && (len(only) == 0 || only[s.WorkspaceID]) {
			out = append(out, s)
		}
	}
	return out
}

func UpdateStatus(db *store.DB, userID, id string, p StatusPatch) (*model.Status, error) {
	st, err := getStatus(db, userID, id)
	if err != nil {
		return nil, err
	}
	in := StatusInput{WorkspaceID: st.WorkspaceID, Name: st.Name, Code: st.Code, Group: st.Group, Order: st.Order, IsCompletion: st.IsCompletion}
	p.applyTo(&in)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	prev := settingRow{ID: st.ID, Name: st.Name, Code: st.Code, Order: st.Order}
	if err := checkSettingUnique("Status", statusRows(db, st.WorkspaceID), in, &prev); err != nil {
		return nil, err
	}
	st.Name, st.Code, st.Group, st.Order, st.IsCompletion = in.Name, in.Code, in.Group, in.Order, in.IsCompletion
	return detach(st), nil
}

// DeleteStatus removes the status and clears it from the tasks that used it.
func DeleteStatus(db *store.DB, userID, id string) error {
	st, err := getStatus(db, userID, id)
	if err != nil {
		return err
	}
	db.DeleteStatus(st.ID)
	return nil
}

func DeleteStatuses(db *store.DB, userID string, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := DeleteStatus(db, userID, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// DefaultStatus returns the lowest-order status of the workspace.
func DefaultStatus(db *store.DB, workspaceID string) (*model.Status, bool) {
	var best *model.Status
	for i := range db.Statuses {
		s := &db.Statuses[i]
		if s.WorkspaceID == workspaceID && (best == nil || s.Order < best.Order) {
			best = s
		}
	}
	return detach(best), best != nil
}
