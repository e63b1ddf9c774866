package tree

import (
	"organizer/internal/model"
	"organizer/internal/store"
)

// Row is a task joined with the workspace and names the engine filters, sorts and renders by.
type Row struct {
	model.Task

	WorkspaceID  string   `json:"workspaceId"`
	CategoryName string   `json:"categoryName"`
	StatusName   string   `json:"statusName,omitempty"`
	StatusCode   string   `json:"statusCode,omitempty"`
	PriorityName string   `json:"priorityName,omitempty"`
	PriorityCode string   `json:"priorityCode,omitempty"`
	TagNames     []string `json:"tagNames,omitempty"`
}

// RowsFor joins tasks against db. Tasks whose category is gone get an empty WorkspaceID.
func RowsFor(db *store.DB, tasks []model.Task) []Row {
	out := make([]Row, 0, len(tasks))
	for _, t := range tasks {
		r := Row{Task: t}
		if c, ok := db.FindCategory(t.CategoryID); ok {
			r.WorkspaceID = c.WorkspaceID
			r.CategoryName = c.Name
		}
		if t.StatusID != nil {
			if st, ok := db.FindStatus(*t.StatusID); ok {
				r.StatusName, r.StatusCode = st.Name, st.Code
			}
		}
		if t.PriorityID != nil {
			if p, ok := db.FindPriority(*t.PriorityID); ok {
				r.PriorityName, r.PriorityCode = p.Name, p.Code
			}
		}
		for _, id := range t.TagIDs {
			if tag, ok := db.FindTag(id); ok {
				r.TagNames = append(r.TagNames, tag.Name)
			}
		}
		out = append(out, r)
	}
	return out
}

func RowIDs(rows []Row) []string {
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}
