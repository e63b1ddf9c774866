package tree

import (
	"cmp"

	"organizer/internal/model"
)

// CategorySorts orders siblings by order, then name.
func CategorySorts() Sorts[model.Category] {
	byName := textCompare()
	return Sorts[model.Category]{
		{Name: "name", Direction: DirAsc, Compare: func(a, b model.Category) int { return byName(a.Name, b.Name) }},
		{Name: "order", Direction: DirAsc, Compare: func(a, b model.Category) int { return cmp.Compare(a.Order, b.Order) }},
	}
}

// CategoryTree builds the category view: name search, closure and roots.
func CategoryTree(cats []model.Category, search []string) View[model.Category] {
	match := func(c model.Category) bool { return MatchSearch(search, c.Name) }
	return Build(cats, match, CategorySorts())
}
