package mutate

import (
	"errors"
	"strings"

	"organizer/internal/model"
	"organizer/internal/perm"
	"organizer/internal/store"
	"organizer/internal/validate"
)

type CategoryInput struct {
	WorkspaceID string  `validate:"nonblank"`
	ParentID    *string
	Name        string `validate:"nonblank,max=200"`
	Description string
	Order       int `validate:"gte=0"`
}

type CategoryPatch struct {
	ParentID    Opt[*string]
	Name        Opt[string]
	Description Opt[string]
	Order       Opt[int]
}

func checkCategoryName(db *store.DB, workspaceID string, parentID *string, name, skipID string) error {
	for _, c := range db.Categories {
		if c.ID == skipID || c.WorkspaceID != workspaceID || !sameParent(c.ParentID, parentID) {
			continue
		}
		if sameFold(c.Name, name) {
			return UniqueError{Messages: []string{uniqueMsg("Category", "name", "a workspace and parent (if exists)", true)}}
		}
	}
	return nil
}

// checkCategoryParent verifies parentID names a category in workspaceID that is not selfID
// or one of its descendants.
func checkCategoryParent(db *store.DB, workspaceID string, parentID *string, selfID string) error {
	if parentID == nil {
		return nil
	}
	parent, ok := db.FindCategory(*parentID)
	if !ok {
		return NotFoundError{Kind: "Category", ID: *parentID}
	}
	if parent.WorkspaceID != workspaceID {
		return ValidationError{Messages: []string{"Parent category must belong to the same workspace."}}
	}
	if selfID != "" {
		for _, id := range db.CategorySubtreeIDs(selfID) {
			if id == parent.ID {
				return ValidationError{Messages: []string{"Category cannot be moved under itself."}}
			}
		}
	}
	return nil
}

func normalizeParent(p *string) *string {
	if p == nil || strings.TrimSpace(*p) == "" {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

func CreateCategory(db *store.DB, userID string, in CategoryInput) (*model.Category, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.WorkspaceID = strings.TrimSpace(in.WorkspaceID)
	in.ParentID = normalizeParent(in.ParentID)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if _, err := getWorkspace(db, userID, in.WorkspaceID); err != nil {
		return nil, err
	}
	if err := checkCategoryParent(db, in.WorkspaceID, in.ParentID, ""); err != nil {
		return nil, err
	}
	if err := checkCategoryName(db, in.WorkspaceID, in.ParentID, in.Name, ""); err != nil {
		return nil, err
	}
	id, err := store.NewID(db, store.PrefixCategory)
	if err != nil {
		return nil, err
	}
	now := nowUTC()
	db.Categories = append(db.Categories, model.Category{
		ID:          id,
		WorkspaceID: in.WorkspaceID,
		ParentID:    in.ParentID,
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	c, _ := db.FindCategory(id)
	return detach(c), nil
}

func getCategory(db *store.DB, userID, id string) (*model.Category, error) {
	c, ok := db.FindCategory(strings.TrimSpace(id))
	if !ok {
		return nil, NotFoundError{Kind: "Category", ID: id}
	}
	if !perm.OwnsCategory(db, userID, c.ID) {
		return nil, UnauthorizedError{UserID: userID, Kind: "Category", ID: id}
	}
	return c, nil
}

func GetCategory(db *store.DB, userID, id string) (*model.Category, error) {
	x, err := getCategory(db, userID, id)
	if err != nil {
		return nil, err
	}
	return detach(x), nil
}

// ListCategories returns the user's categories, optionally narrowed to workspaceIDs.
func ListCategories(db *store.DB, userID string, workspaceIDs ...string) []model.Category {
	owned := perm.OwnedWorkspaceIDs(db, userID)
	only := setOf(workspaceIDs)
	out := []model.Category{}
	for _, c := range db.Categories {
		if owned[c.WorkspaceID] && (len(only) == 0 || only[c.WorkspaceID]) {
			out = append(out, c)
		}
	}
	return out
}

func UpdateCategory(db *store.DB, userID, id string, p CategoryPatch) (*model.Category, error) {
	c, err := getCategory(db, userID, id)
	if err != nil {
		return nil, err
	}
	in := CategoryInput{WorkspaceID: c.WorkspaceID, ParentID: c.ParentID, Name: c.Name, Description: c.Description, Order: c.Order}
	p.ParentID.apply(&in.ParentID)
	p.Name.apply(&in.Name)
	p.Description.apply(&in.Description)
	p.Order.apply(&in.Order)
	in.Name = strings.TrimSpace(in.Name)
	in.ParentID = normalizeParent(in.ParentID)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if !sameParent(in.ParentID, c.ParentID) {
		if err := checkCategoryParent(db, c.WorkspaceID, in.ParentID, c.ID); err != nil {
			return nil, err
		}
	}
	if !sameFold(in.Name, c.Name) || !sameParent(in.ParentID, c.ParentID) {
		if err := checkCategoryName(db, c.WorkspaceID, in.ParentID, in.Name, c.ID); err != nil {
			return nil, err
		}
	}
	c.ParentID = in.ParentID
	c.Name = in.Name
	c.Description = in.Description
	c.Order = in.Order
	c.UpdatedAt = nowUTC()
	return detach(c), nil
}

// DeleteCategory removes the category with its child categories and their tasks.
func DeleteCategory(db *store.DB, userID, id string) error {
	c, err := getCategory(db, userID, id)
	if err != nil {
		return err
	}
	db.DeleteCategory(c.ID)
	return nil
}

// DeleteCategories deletes each id, continuing past failures. Ids already removed as
// children of an earlier id are skipped.
func DeleteCategories(db *store.DB, userID string, ids []string) error {
	var errs []error
	removed := map[string]bool{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if removed[id] {
			continue
		}
		for _, x := range subtreeIfOwned(db, userID, id) {
			removed[x] = true
		}
		if err := DeleteCategory(db, userID, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func subtreeIfOwned(db *store.DB, userID, id string) []string {
	if !perm.OwnsCategory(db, userID, id) {
		return nil
	}
	return db.CategorySubtreeIDs(id)
}

func setOf(ids []string) map[string]bool {
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out[id] = true
		}
	}
	return out
}
