package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"organizer/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout helps the CLI and web server share a file.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA foreign_keys=ON;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLiteState(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// LoadSQLite reads every table into a fresh DB. A missing file yields an empty state.
func (s Store) LoadSQLite(ctx context.Context) (*DB, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return loadStateFromSQLite(ctx, db)
}

func (s Store) SaveSQLite(ctx context.Context, st *DB) error {
	if st == nil {
		return errors.New("nil db")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "version", strconv.Itoa(st.Version)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_user_id", strings.TrimSpace(st.CurrentUserID)); err != nil {
		return err
	}

	// Replace-all: the whole state is small and this keeps cascades trivially consistent.
	tables := []string{"users", "workspaces", "categories", "statuses", "priorities", "tags", "tasks"}
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+t); err != nil {
			return err
		}
	}

	nowMs := time.Now().UTC().UnixMilli()

	for _, u := range st.Users {
		raw, _ := json.Marshal(u)
		if _, err := tx.ExecContext(ctx, `INSERT INTO users(id, name, json, updated_at_unixms) VALUES(?, ?, ?, ?)`,
			u.ID, u.Name, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, w := range st.Workspaces {
		raw, _ := json.Marshal(w)
		if _, err := tx.ExecContext(ctx, `INSERT INTO workspaces(id, name, created_by, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			w.ID, w.Name, w.CreatedBy, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, c := range st.Categories {
		raw, _ := json.Marshal(c)
		if _, err := tx.ExecContext(ctx, `INSERT INTO categories(id, workspace_id, parent_id, name, sort_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.WorkspaceID, model.DerefString(c.ParentID), c.Name, c.Order, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, x := range st.Statuses {
		raw, _ := json.Marshal(x)
		if _, err := tx.ExecContext(ctx, `INSERT INTO statuses(id, workspace_id, name, sort_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			x.ID, x.WorkspaceID, x.Name, x.Order, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, x := range st.Priorities {
		raw, _ := json.Marshal(x)
		if _, err := tx.ExecContext(ctx, `INSERT INTO priorities(id, workspace_id, name, sort_order, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?, ?)`,
			x.ID, x.WorkspaceID, x.Name, x.Order, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, t := range st.Tags {
		raw, _ := json.Marshal(t)
		if _, err := tx.ExecContext(ctx, `INSERT INTO tags(id, name, created_by, json, updated_at_unixms) VALUES(?, ?, ?, ?, ?)`,
			t.ID, t.Name, t.CreatedBy, string(raw), nowMs); err != nil {
			return err
		}
	}
	for _, t := range st.Tasks {
		raw, _ := json.Marshal(t)
		if _, err := tx.ExecContext(ctx, `INSERT INTO tasks(
			id, category_id, parent_id, title,
			status_id, priority_id, archived,
			end_date, start_date, created_by,
			json, updated_at_unixms
		) VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.CategoryID, model.DerefString(t.ParentID), t.Title,
			model.DerefString(t.StatusID), model.DerefString(t.PriorityID), boolToInt(t.IsArchived),
			dateColumn(t.EndDate), dateColumn(t.StartDate), t.CreatedBy,
			string(raw), nowMs,
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func migrateSQLiteState(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS workspaces (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_by TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_workspaces_owner ON workspaces(created_by);`,
		`CREATE TABLE IF NOT EXISTS categories (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_categories_workspace ON categories(workspace_id);`,
		`CREATE TABLE IF NOT EXISTS statuses (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_statuses_workspace ON statuses(workspace_id);`,
		`CREATE TABLE IF NOT EXISTS priorities (
			id TEXT PRIMARY KEY,
			workspace_id TEXT NOT NULL,
			name TEXT NOT NULL,
			sort_order INTEGER NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_priorities_workspace ON priorities(workspace_id);`,
		`CREATE TABLE IF NOT EXISTS tags (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_by TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			category_id TEXT NOT NULL,
			parent_id TEXT NOT NULL,
			title TEXT NOT NULL,
			status_id TEXT NOT NULL,
			priority_id TEXT NOT NULL,
			archived INTEGER NOT NULL,
			end_date TEXT NOT NULL,
			start_date TEXT NOT NULL,
			created_by TEXT NOT NULL,
			json TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_category ON tasks(category_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_parent ON tasks(parent_id);`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_end ON tasks(end_date);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

func loadStateFromSQLite(ctx context.Context, db *sql.DB) (*DB, error) {
	out := &DB{Version: 1}

	readMeta := func(k string) string {
		var v string
		_ = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, k).Scan(&v)
		return strings.TrimSpace(v)
	}
	if v := readMeta("version"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			out.Version = n
		}
	}
	out.CurrentUserID = readMeta("current_user_id")

	var err error
	if out.Users, err = readJSONRows[model.User](ctx, db, `SELECT json FROM users ORDER BY name, id`); err != nil {
		return nil, err
	}
	if out.Workspaces, err = readJSONRows[model.Workspace](ctx, db, `SELECT json FROM workspaces ORDER BY name, id`); err != nil {
		return nil, err
	}
	if out.Categories, err = readJSONRows[model.Category](ctx, db, `SELECT json FROM categories ORDER BY sort_order, name, id`); err != nil {
		return nil, err
	}
	if out.Statuses, err = readJSONRows[model.Status](ctx, db, `SELECT json FROM statuses ORDER BY sort_order, id`); err != nil {
		return nil, err
	}
	if out.Priorities, err = readJSONRows[model.Priority](ctx, db, `SELECT json FROM priorities ORDER BY sort_order, id`); err != nil {
		return nil, err
	}
	if out.Tags, err = readJSONRows[model.Tag](ctx, db, `SELECT json FROM tags ORDER BY name, id`); err != nil {
		return nil, err
	}
	// Tasks keep insertion order; the tree engine applies user sorts on top.
	if out.Tasks, err = readJSONRows[model.Task](ctx, db, `SELECT json FROM tasks ORDER BY rowid`); err != nil {
		return nil, err
	}
	out.normalize()
	return out, nil
}

// normalize replaces nil slices with empty ones so JSON output is stable.
func (db *DB) normalize() {
	if db.Users == nil {
		db.Users = []model.User{}
	}
	if db.Workspaces == nil {
		db.Workspaces = []model.Workspace{}
	}
	if db.Categories == nil {
		db.Categories = []model.Category{}
	}
	if db.Statuses == nil {
		db.Statuses = []model.Status{}
	}
	if db.Priorities == nil {
		db.Priorities = []model.Priority{}
	}
	if db.Tags == nil {
		db.Tags = []model.Tag{}
	}
	if db.Tasks == nil {
		db.Tasks = []model.Task{}
	}
}

func readJSONRows[T any](ctx context.Context, db *sql.DB, query string) ([]T, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var js string
		if err := rows.Scan(&js); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal([]byte(js), &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func dateColumn(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
