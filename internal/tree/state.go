package tree

import (
	"slices"
	"time"

	"organizer/internal/store"
)

// Catalog maps settings ids to their workspace so workspace selection can prune the other filters.
type Catalog struct {
	CategoryWorkspace map[string]string
	StatusWorkspace   map[string]string
	PriorityWorkspace map[string]string
}

func CatalogFrom(db *store.DB) Catalog {
	c := Catalog{
		CategoryWorkspace: map[string]string{},
		StatusWorkspace:   map[string]string{},
		PriorityWorkspace: map[string]string{},
	}
	for _, x := range db.Categories {
		c.CategoryWorkspace[x.ID] = x.WorkspaceID
	}
	for _, x := range db.Statuses {
		c.StatusWorkspace[x.ID] = x.WorkspaceID
	}
	for _, x := range db.Priorities {
		c.PriorityWorkspace[x.ID] = x.WorkspaceID
	}
	return c
}

// State is the filter/search/sort state of one task list. Its methods are the reducer actions.
type State struct {
	Filters Filters
	// Search is nil when no search is active.
	Search []string
	Sorts  Sorts[Row]
}

// NewState starts with active tasks only, which is also what ResetFilters returns to.
func NewState() *State {
	return &State{Filters: Filters{Visibility: VisibilityActive}}
}

// SetWorkspaces selects workspaces and drops selected categories, statuses and priorities
// that belong to none of them.
func (s *State) SetWorkspaces(ids []string, cat Catalog) {
	s.Filters.WorkspaceIDs = slices.Clone(ids)
	if len(ids) == 0 {
		return
	}
	keep := func(list []string, ws map[string]string) []string {
		var out []string
		for _, id := range list {
			if slices.Contains(ids, ws[id]) {
				out = append(out, id)
			}
		}
		return out
	}
	s.Filters.CategoryIDs = keep(s.Filters.CategoryIDs, cat.CategoryWorkspace)
	s.Filters.StatusIDs = keep(s.Filters.StatusIDs, cat.StatusWorkspace)
	s.Filters.PriorityIDs = keep(s.Filters.PriorityIDs, cat.PriorityWorkspace)
}

func (s *State) SetCategories(ids []string) { s.Filters.CategoryIDs = slices.Clone(ids) }
func (s *State) SetPriorities(ids []string) { s.Filters.PriorityIDs = slices.Clone(ids) }
func (s *State) SetStatuses(ids []string)   { s.Filters.StatusIDs = slices.Clone(ids) }
func (s *State) SetTags(ids []string)       { s.Filters.TagIDs = slices.Clone(ids) }

func (s *State) SetVisibility(v Visibility) { s.Filters.Visibility = v }

func (s *State) SetDue(t *time.Time) { s.Filters.Due = t }

func (s *State) SetStart(t *time.Time) { s.Filters.Start = t }

// ResetFilters clears every dimension and returns visibility to active.
func (s *State) ResetFilters() {
	s.Filters = Filters{Visibility: VisibilityActive}
}

// SetSearch parses a comma separated query.
func (s *State) SetSearch(q string) { s.Search = ParseSearch(q) }

func (s *State) UpdateSort(spec SortSpec[Row]) { s.Sorts = s.Sorts.Update(spec) }

func (s *State) ResetSort() { s.Sorts = nil }

// Match combines the filters and the search.
func (s *State) Match(r Row) bool {
	return s.Filters.Match(r) && SearchRow(s.Search, r)
}

// Derive builds the task view for rows under the current state.
func (s *State) Derive(rows []Row) View[Row] {
	return Build(rows, s.Match, s.Sorts)
}
