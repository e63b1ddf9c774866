package model

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Workspace struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Category struct {
	ID          string  `json:"id"`
	WorkspaceID string  `json:"workspaceId"`
	ParentID    *string `json:"parentId,omitempty"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Order       int     `json:"order"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Status struct {
	ID           string `json:"id"`
	WorkspaceID  string `json:"workspaceId"`
	Name         string `json:"name"`
	Code         string `json:"code"`
	Group        int    `json:"group"`
	Order        int    `json:"order"`
	IsCompletion bool   `json:"isCompletion"`
}

type Priority struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspaceId"`
	Name        string `json:"name"`
	Code        string `json:"code"`
	Group       int    `json:"group"`
	Order       int    `json:"order"`
}

type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID         string  `json:"id"`
	CategoryID string  `json:"categoryId"`
	ParentID   *string `json:"parentId,omitempty"`

	Title               string `json:"title"`
	Description         string `json:"description,omitempty"`
	IsArchived          bool   `json:"isArchived"`
	ArchiveOnCompletion bool   `json:"archiveOnCompletion"`

	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	EstimatedStart *time.Time `json:"estimatedStart,omitempty"`
	EstimatedEnd   *time.Time `json:"estimatedEnd,omitempty"`

	// Nil when the referenced status/priority was deleted.
	StatusID   *string  `json:"statusId,omitempty"`
	PriorityID *string  `json:"priorityId,omitempty"`
	TagIDs     []string `json:"tagIds,omitempty"`

	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultStatuses are seeded into every new workspace.
func DefaultStatuses() []Status {
	return []Status{
		{Name: "Todo", Code: "T", Group: 1, Order: 1},
		{Name: "In-progress", Code: "I", Group: 2, Order: 2},
		{Name: "Cancelled", Code: "C", Group: 3, Order: 3},
		{Name: "Done", Code: "D", Group: 3, Order: 4, IsCompletion: true},
	}
}

// DefaultPriorities are seeded into every new workspace.
func DefaultPriorities() []Priority {
	return []Priority{
		{Name: "Low", Code: "L", Group: 1, Order: 1},
		{Name: "Medium", Code: "M", Group: 2, Order: 2},
		{Name: "High", Code: "H", Group: 3, Order: 3},
	}
}

const DefaultCategoryName = "Other"

func StrPtr(s string) *string { return &s }

// DerefString returns "" for nil.
func DerefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// NodeID and NodeParentID let tasks and categories be walked as trees.
func (t Task) NodeID() string       { return t.ID }
func (t Task) NodeParentID() string { return DerefString(t.ParentID) }

func (c Category) NodeID() string       { return c.ID }
func (c Category) NodeParentID() string { return DerefString(c.ParentID) }
