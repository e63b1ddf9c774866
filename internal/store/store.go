package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"organizer/internal/model"
)

const sqliteFileName = "organizer.sqlite"

// DB is the full in-memory state loaded from SQLite. Callers mutate it and
// persist it back with Store.Save.
type DB struct {
	Version       int    `json:"version"`
	CurrentUserID string `json:"currentUserId,omitempty"`

	Users      []model.User      `json:"users"`
	Workspaces []model.Workspace `json:"workspaces"`
	Categories []model.Category  `json:"categories"`
	Statuses   []model.Status    `json:"statuses"`
	Priorities []model.Priority  `json:"priorities"`
	Tags       []model.Tag       `json:"tags"`
	Tasks      []model.Task      `json:"tasks"`
}

type Store struct {
	Dir string
}

// DefaultDir returns ~/.organizer/data unless ORGANIZER_DIR is set.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("ORGANIZER_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".organizer", "data"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), sqliteFileName)
}

func (s Store) Load() (*DB, error) {
	return s.LoadContext(context.Background())
}

func (s Store) LoadContext(ctx context.Context) (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(ctx)
}

func (s Store) Save(db *DB) error {
	return s.SaveContext(context.Background(), db)
}

func (s Store) SaveContext(ctx context.Context, db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(ctx, db)
}

// The Find methods return pointers into db. They go stale once a delete compacts the slice.
func (db *DB) FindUser(id string) (*model.User, bool) {
	for i := range db.Users {
		if db.Users[i].ID == id {
			return &db.Users[i], true
		}
	}
	return nil, false
}

func (db *DB) FindWorkspace(id string) (*model.Workspace, bool) {
	for i := range db.Workspaces {
		if db.Workspaces[i].ID == id {
			return &db.Workspaces[i], true
		}
	}
	return nil, false
}

func (db *DB) FindCategory(id string) (*model.Category, bool) {
	for i := range db.Categories {
		if db.Categories[i].ID == id {
			return &db.Categories[i], true
		}
	}
	return nil, false
}

func (db *DB) FindStatus(id string) (*model.Status, bool) {
	for i := range db.Statuses {
		if db.Statuses[i].ID == id {
			return &db.Statuses[i], true
		}
	}
	return nil, false
}

func (db *DB) FindPriority(id string) (*model.Priority, bool) {
	for i := range db.Priorities {
		if db.Priorities[i].ID == id {
			return &db.Priorities[i], true
		}
	}
	return nil, false
}

func (db *DB) FindTag(id string) (*model.Tag, bool) {
	for i := range db.Tags {
		if db.Tags[i].ID == id {
			return &db.Tags[i], true
		}
	}
	return nil, false
}

func (db *DB) FindTask(id string) (*model.Task, bool) {
	for i := range db.Tasks {
		if db.Tasks[i].ID == id {
			return &db.Tasks[i], true
		}
	}
	return nil, false
}

// WorkspaceIDForCategory returns the owning workspace of a category.
func (db *DB) WorkspaceIDForCategory(categoryID string) (string, bool) {
	c, ok := db.FindCategory(categoryID)
	if !ok {
		return "", false
	}
	return c.WorkspaceID, true
}

// WorkspaceIDForTask resolves task -> category -> workspace.
func (db *DB) WorkspaceIDForTask(taskID string) (string, bool) {
	t, ok := db.FindTask(taskID)
	if !ok {
		return "", false
	}
	return db.WorkspaceIDForCategory(t.CategoryID)
}

func (db *DB) CategoriesInWorkspace(workspaceID string) []model.Category {
	var out []model.Category
	for _, c := range db.Categories {
		if c.WorkspaceID == workspaceID {
			out = append(out, c)
		}
	}
	return out
}

func (db *DB) StatusesInWorkspace(workspaceID string) []model.Status {
	var out []model.Status
	for _, st := range db.Statuses {
		if st.WorkspaceID == workspaceID {
			out = append(out, st)
		}
	}
	return out
}

func (db *DB) PrioritiesInWorkspace(workspaceID string) []model.Priority {
	var out []model.Priority
	for _, p := range db.Priorities {
		if p.WorkspaceID == workspaceID {
			out = append(out, p)
		}
	}
	return out
}
