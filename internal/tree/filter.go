package tree

import (
	"slices"
	"time"

	"organizer/internal/model"
)

type Visibility string

const (
	VisibilityUnset    Visibility = ""
	VisibilityAll      Visibility = "all"
	VisibilityActive   Visibility = "active"
	VisibilityArchived Visibility = "archived"
)

func ParseVisibility(s string) (Visibility, bool) {
	switch v := Visibility(s); v {
	case VisibilityUnset, VisibilityAll, VisibilityActive, VisibilityArchived:
		return v, true
	default:
		return VisibilityUnset, false
	}
}

// Filters is the active filter set. An empty id list places no restriction on its dimension.
type Filters struct {
	WorkspaceIDs []string   `json:"workspaceIds,omitempty"`
	CategoryIDs  []string   `json:"categoryIds,omitempty"`
	PriorityIDs  []string   `json:"priorityIds,omitempty"`
	StatusIDs    []string   `json:"statusIds,omitempty"`
	TagIDs       []string   `json:"tagIds,omitempty"`
	Visibility   Visibility `json:"visibility,omitempty"`
	// Due and Start are inclusive upper bounds on the end and start dates.
	Due   *time.Time `json:"due,omitempty"`
	Start *time.Time `json:"start,omitempty"`
}

// Match reports whether r passes every dimension.
func (f Filters) Match(r Row) bool {
	return inList(f.WorkspaceIDs, r.WorkspaceID) &&
		inList(f.CategoryIDs, r.CategoryID) &&
		optionalInList(f.PriorityIDs, r.PriorityID) &&
		optionalInList(f.StatusIDs, r.StatusID) &&
		anyInList(f.TagIDs, r.TagIDs) &&
		f.Visibility.Match(r.IsArchived) &&
		notAfter(r.EndDate, f.Due) &&
		notAfter(r.StartDate, f.Start)
}

func (v Visibility) Match(archived bool) bool {
	switch v {
	case VisibilityArchived:
		return archived
	case VisibilityActive:
		return !archived
	default:
		return true
	}
}

// IsZero reports whether no dimension restricts anything.
func (f Filters) IsZero() bool {
	return len(f.WorkspaceIDs) == 0 && len(f.CategoryIDs) == 0 && len(f.PriorityIDs) == 0 &&
		len(f.StatusIDs) == 0 && len(f.TagIDs) == 0 &&
		(f.Visibility == VisibilityUnset || f.Visibility == VisibilityAll) &&
		f.Due == nil && f.Start == nil
}

func inList(list []string, id string) bool {
	return len(list) == 0 || slices.Contains(list, id)
}

// optionalInList passes entities with nothing assigned.
func optionalInList(list []string, id *string) bool {
	if len(list) == 0 || id == nil {
		return true
	}
	return slices.Contains(list, model.DerefString(id))
}

func anyInList(list []string, ids []string) bool {
	if len(list) == 0 {
		return true
	}
	for _, id := range ids {
		if slices.Contains(list, id) {
			return true
		}
	}
	return false
}

// notAfter passes when there is no bound, no date, or date <= bound.
func notAfter(date, bound *time.Time) bool {
	if bound == nil || date == nil {
		return true
	}
	return !date.After(*bound)
}
