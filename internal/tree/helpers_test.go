package tree

import (
	"time"

	"organizer/internal/model"
)

func row(id, parent, title string) Row {
	r := Row{Task: model.Task{ID: id, Title: title, CategoryID: "cat-a"}, WorkspaceID: "ws-a", CategoryName: "A"}
	if parent != "" {
		r.ParentID = model.StrPtr(parent)
	}
	return r
}

func ids[T Node](xs []T) []string {
	out := []string{}
	for _, x := range xs {
		out = append(out, x.NodeID())
	}
	return out
}

func day(d int) *time.Time {
	t := time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// sampleRows:
//
//      r1 "Plan trip"
//        c1 "Book flights"
//          g1 "Compare prices"
//        c2 "Pack"
//      r2 "Foobar cleanup" (archived)
//      r3 "Groceries"
func sampleRows() []Row {
	r2 := row("r2", "", "Foobar cleanup")
	r2.IsArchived = true
	return []Row{
		row("r1", "", "Plan trip"),
		row("c1", "r1", "Book flights"),
		row("g1", "c1", "Compare prices"),
		row("c2", "r1", "Pack"),
		r2,
		row("r3", "", "Groceries"),
	}
}
