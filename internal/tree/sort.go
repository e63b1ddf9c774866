package tree

import (
	"fmt"
	"slices"
	"strings"
)

type Direction string

const (
	DirNone Direction = ""
	DirAsc  Direction = "asc"
	DirDesc Direction = "desc"
)

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return DirNone, nil
	case "asc", "ascending":
		return DirAsc, nil
	case "desc", "descending":
		return DirDesc, nil
	default:
		return DirNone, fmt.Errorf("invalid sort direction %q (expected asc|desc|none)", s)
	}
}

// SortSpec is a named ascending comparator plus the direction to apply it in.
type SortSpec[T any] struct {
	Name      string
	Direction Direction
	Compare   func(a, b T) int
}

func (s SortSpec[T]) cmp(a, b T) int {
	r := s.Compare(a, b)
	if s.Direction == DirDesc && r != 0 {
		return -r
	}
	return r
}

// Sorts is the active sort list. Apply runs one stable sort per spec in list order,
// so the last spec is the most significant key.
type Sorts[T any] []SortSpec[T]

// Update pushes spec when absent, replaces it by name when present, and removes it when
// spec has no direction.
func (s Sorts[T]) Update(spec SortSpec[T]) Sorts[T] {
	i := slices.IndexFunc(s, func(x SortSpec[T]) bool { return x.Name == spec.Name })
	out := slices.Clone(s)
	switch {
	case i < 0 && spec.Direction == DirNone:
		return out
	case i < 0:
		return append(out, spec)
	case spec.Direction == DirNone:
		return slices.Delete(out, i, i+1)
	default:
		out[i] = spec
		return out
	}
}

func (s Sorts[T]) Find(name string) (SortSpec[T], bool) {
	for _, x := range s {
		if x.Name == name {
			return x, true
		}
	}
	return SortSpec[T]{}, false
}

// Apply sorts items in place.
func (s Sorts[T]) Apply(items []T) {
	for _, spec := range s {
		if spec.Direction == DirNone || spec.Compare == nil {
			continue
		}
		slices.SortStableFunc(items, spec.cmp)
	}
}

// String renders the list as "name:dir,name:dir".
func (s Sorts[T]) String() string {
	parts := make([]string, 0, len(s))
	for _, x := range s {
		parts = append(parts, x.Name+":"+string(x.Direction))
	}
	return strings.Join(parts, ",")
}
