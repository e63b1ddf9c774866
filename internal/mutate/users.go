package mutate

import (
	"strings"

	"organizer/internal/model"
	"organizer/internal/store"
	"organizer/internal/validate"
)

type UserInput struct {
	Name string `validate:"nonblank,max=200"`
}

// CreateUser registers a local user. The first user becomes the current one.
func CreateUser(db *store.DB, in UserInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validationErr(validate.Messages(in)); err != nil {
		return nil, err
	}
	for _, u := range db.Users {
		if sameFold(u.Name, in.Name) {
			return nil, UniqueError{Messages: []string{"User with this name already exists."}}
		}
	}
	id, err := store.NewID(db, store.PrefixUser)
	if err != nil {
		return nil, err
	}
	db.Users = append(db.Users, model.User{ID: id, Name: in.Name, CreatedAt: nowUTC()})
	if strings.TrimSpace(db.CurrentUserID) == "" {
		db.CurrentUserID = id
	}
	u, _ := db.FindUser(id)
	return detach(u), nil
}

// ResolveUser accepts a user id or a (case-insensitive) name.
func ResolveUser(db *store.DB, ref string) (*model.User, error) {
	ref = strings.TrimSpace(ref)
	if u, ok := db.FindUser(ref); ok {
		return detach(u), nil
	}
	for i := range db.Users {
		if sameFold(db.Users[i].Name, ref) {
			return detach(&db.Users[i]), nil
		}
	}
	return nil, NotFoundError{Kind: "User", ID: ref}
}

func UseUser(db *store.DB, ref string) (*model.User, error) {
	u, err := ResolveUser(db, ref)
	if err != nil {
		return nil, err
	}
	db.CurrentUserID = u.ID
	return u, nil
}
