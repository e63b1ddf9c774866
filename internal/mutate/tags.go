package mutate

import (
	"errors"
	"strings"

	"organizer/internal/model"
	"organizer/internal/perm"
	"organizer/internal/store"
	"organizer/internal/validate"
)

type TagInput struct {
	Name string `validate:"nonblank,max=100"`
}

func checkTagName(db *store.DB, userID, name, skipID string) error {
	for _, t := range db.Tags {
		if t.ID != skipID && t.CreatedBy == userID && sameFold(t.Name, name) {
			return UniqueError{Messages: []string{uniqueMsg("Tag", "name", "a workspace", true)}}
		}
	}
	return nil
}

func CreateTag(db *store.DB, userID string, in TagInput) (*model.Tag, error) {
	if err := requireUser(db, userID); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if err := checkTagName(db, userID, in.Name, ""); err != nil {
		return nil, err
	}
	id, err := store.NewID(db, store.PrefixTag)
	if err != nil {
		return nil, err
	}
	db.Tags = append(db.Tags, model.Tag{ID: id, Name: in.Name, CreatedBy: userID, CreatedAt: nowUTC()})
	t, _ := db.FindTag(id)
	return detach(t), nil
}

// EnsureTags returns the ids of the named tags, creating missing ones.
func EnsureTags(db *store.DB, userID string, names []string) ([]string, error) {
	var ids []string
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		found := ""
		for _, t := range db.Tags {
			if t.CreatedBy == userID && sameFold(t.Name, name) {
				found = t.ID
				break
			}
		}
		if found == "" {
			t, err := CreateTag(db, userID, TagInput{Name: name})
			if err != nil {
				return nil, err
			}
			found = t.ID
		}
		ids = append(ids, found)
	}
	return ids, nil
}

func getTag(db *store.DB, userID, id string) (*model.Tag, error) {
	t, ok := db.FindTag(strings.TrimSpace(id))
	if !ok {
		return nil, NotFoundError{Kind: "Tag", ID: id}
	}
	if !perm.OwnsTag(db, userID, t.ID) {
		return nil, UnauthorizedError{UserID: userID, Kind: "Tag", ID: id}
	}
	return t, nil
}

func GetTag(db *store.DB, userID, id string) (*model.Tag, error) {
	x, err := getTag(db, userID, id)
	if err != nil {
		return nil, err
	}
	return detach(x), nil
}

func ListTags(db *store.DB, userID string) []model.Tag {
	out := []model.Tag{}
	for _, t := range db.Tags {
		if t.CreatedBy == userID {
			out = append(out, t)
		}
	}
	return out
}

// SearchTags returns the user's tags whose name contains q (case-insensitive).
func SearchTags(db *store.DB, userID, q string) []model.Tag {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []model.Tag{}
	for _, t := range ListTags(db, userID) {
		if q == "" || strings.Contains(strings.ToLower(t.Name), q) {
			out = append(out, t)
		}
	}
	return out
}

func UpdateTag(db *store.DB, userID, id string, name string) (*model.Tag, error) {
	t, err := getTag(db, userID, id)
	if err != nil {
		return nil, err
	}
	in := TagInput{Name: strings.TrimSpace(name)}
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	if !sameFold(in.Name, t.Name) {
		if err := checkTagName(db, userID, in.Name, t.ID); err != nil {
			return nil, err
		}
	}
	t.Name = in.Name
	return detach(t), nil
}

// DeleteTag removes the tag and strips it from every task.
func DeleteTag(db *store.DB, userID, id string) error {
	t, err := getTag(db, userID, id)
	if err != nil {
		return err
	}
	db.DeleteTag(t.ID)
	return nil
}

func DeleteTags(db *store.DB, userID string, ids []string) error {
	var errs []error
	for _, id := range ids {
		if err := DeleteTag(db, userID, id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
