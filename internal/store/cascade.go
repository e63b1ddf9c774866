package store

import (
	"slices"

	"organizer/internal/model"
)

// TaskSubtreeIDs returns id plus every transitive child task id.
func (db *DB) TaskSubtreeIDs(id string) []string {
	children := map[string][]string{}
	for _, t := range db.Tasks {
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], t.ID)
		}
	}
	return collectSubtree(id, children)
}

// CategorySubtreeIDs returns id plus every transitive child category id.
func (db *DB) CategorySubtreeIDs(id string) []string {
	children := map[string][]string{}
	for _, c := range db.Categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}
	return collectSubtree(id, children)
}

func collectSubtree(root string, children map[string][]string) []string {
	seen := map[string]bool{root: true}
	out := []string{root}
	queue := []string{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, ch := range children[cur] {
			if seen[ch] {
				continue
			}
			seen[ch] = true
			out = append(out, ch)
			queue = append(queue, ch)
		}
	}
	return out
}

// DeleteTasks removes the tasks and all of their descendants. It returns the removed ids.
func (db *DB) DeleteTasks(ids ...string) []string {
	drop := map[string]bool{}
	for _, id := range ids {
		for _, x := range db.TaskSubtreeIDs(id) {
			drop[x] = true
		}
	}
	var removed []string
	db.Tasks = slices.DeleteFunc(db.Tasks, func(t model.Task) bool {
		if drop[t.ID] {
			removed = append(removed, t.ID)
			return true
		}
		return false
	})
	return removed
}

// DeleteCategory removes the category, its child categories and every task filed under them.
func (db *DB) DeleteCategory(id string) (categoryIDs []string, taskIDs []string) {
	categoryIDs = db.CategorySubtreeIDs(id)
	drop := map[string]bool{}
	for _, x := range categoryIDs {
		drop[x] = true
	}
	var roots []string
	for _, t := range db.Tasks {
		if drop[t.CategoryID] {
			roots = append(roots, t.ID)
		}
	}
	taskIDs = db.DeleteTasks(roots...)
	db.Categories = slices.DeleteFunc(db.Categories, func(c model.Category) bool { return drop[c.ID] })
	return categoryIDs, taskIDs
}

// DeleteWorkspace removes the workspace with its categories, tasks, statuses and priorities.
func (db *DB) DeleteWorkspace(id string) {
	for _, c := range db.CategoriesInWorkspace(id) {
		if _, ok := db.FindCategory(c.ID); ok {
			db.DeleteCategory(c.ID)
		}
	}
	for _, st := range db.StatusesInWorkspace(id) {
		db.DeleteStatus(st.ID)
	}
	for _, p := range db.PrioritiesInWorkspace(id) {
		db.DeletePriority(p.ID)
	}
	db.Workspaces = slices.DeleteFunc(db.Workspaces, func(w model.Workspace) bool { return w.ID == id })
}

// DeleteStatus removes the status and clears it from tasks.
func (db *DB) DeleteStatus(id string) {
	for i := range db.Tasks {
		if model.DerefString(db.Tasks[i].StatusID) == id {
			db.Tasks[i].StatusID = nil
		}
	}
	db.Statuses = slices.DeleteFunc(db.Statuses, func(s model.Status) bool { return s.ID == id })
}

// DeletePriority removes the priority and clears it from tasks.
func (db *DB) DeletePriority(id string) {
	for i := range db.Tasks {
		if model.DerefString(db.Tasks[i].PriorityID) == id {
			db.Tasks[i].PriorityID = nil
		}
	}
	db.Priorities = slices.DeleteFunc(db.Priorities, func(p model.Priority) bool { return p.ID == id })
}

// DeleteTag removes the tag and strips it from every task.
func (db *DB) DeleteTag(id string) {
	for i := range db.Tasks {
		db.Tasks[i].TagIDs = slices.DeleteFunc(db.Tasks[i].TagIDs, func(x string) bool { return x == id })
	}
	db.Tags = slices.DeleteFunc(db.Tags, func(t model.Tag) bool { return t.ID == id })
}
