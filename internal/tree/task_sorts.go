package tree

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Built-in task sort names.
const (
	SortTitle     = "title"
	SortCategory  = "category"
	SortEndDate   = "endDate"
	SortStartDate = "startDate"
)

var TaskSortNames = []string{SortTitle, SortCategory, SortEndDate, SortStartDate}

// textCompare returns a locale-aware string comparator. collate.Collator keeps scratch buffers,
// so calls are serialized.
func textCompare() func(a, b string) int {
	var mu sync.Mutex
	c := collate.New(language.Und)
	return func(a, b string) int {
		mu.Lock()
		defer mu.Unlock()
		return c.CompareString(a, b)
	}
}

// compareDates orders two present dates; a missing date compares equal to anything.
func compareDates(a, b *time.Time) int {
	if a == nil || b == nil {
		return 0
	}
	return a.Compare(*b)
}

// TaskSort returns the built-in spec called name.
func TaskSort(name string, dir Direction) (SortSpec[Row], error) {
	spec := SortSpec[Row]{Name: name, Direction: dir}
	switch name {
	case SortTitle:
		cmp := textCompare()
		spec.Compare = func(a, b Row) int { return cmp(a.Title, b.Title) }
	case SortCategory:
		cmp := textCompare()
		spec.Compare = func(a, b Row) int { return cmp(a.CategoryName, b.CategoryName) }
	case SortEndDate:
		spec.Compare = func(a, b Row) int { return compareDates(a.EndDate, b.EndDate) }
	case SortStartDate:
		spec.Compare = func(a, b Row) int { return compareDates(a.StartDate, b.StartDate) }
	default:
		return spec, fmt.Errorf("unknown sort %q (expected one of %s)", name, strings.Join(TaskSortNames, ", "))
	}
	return spec, nil
}

// ParseTaskSorts parses "title:asc,endDate:desc" into an active list. Entries without a
// direction are dropped, and a repeated name replaces the earlier entry in place.
func ParseTaskSorts(raw []string) (Sorts[Row], error) {
	var out Sorts[Row]
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			name, dirRaw, found := strings.Cut(part, ":")
			if !found {
				dirRaw = string(DirAsc)
			}
			dir, err := ParseDirection(dirRaw)
			if err != nil {
				return nil, err
			}
			spec, err := TaskSort(strings.TrimSpace(name), dir)
			if err != nil {
				return nil, err
			}
			out = out.Update(spec)
		}
	}
	return out, nil
}
