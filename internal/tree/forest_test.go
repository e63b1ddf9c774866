package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestForest_Navigation(t *testing.T) {
	f := NewForest(sampleRows())

	if diff := cmp.Diff([]string{"c1", "c2"}, ids(f.Children("r1"))); diff != "" {
		t.Fatalf("children (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "c2", "g1"}, f.DescendantIDs("r1")); diff != "" {
		t.Fatalf("descendants (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"c1", "r1"}, ids(f.Ancestors("g1"))); diff != "" {
		t.Fatalf("ancestors (-want +got):\n%s", diff)
	}
	if r, ok := f.Root("g1"); !ok || r.ID != "r1" {
		t.Fatalf("expected root r1, got %v %v", r.ID, ok)
	}
	if r, ok := f.Root("r3"); !ok || r.ID != "r3" {
		t.Fatalf("a root is its own root, got %v", r.ID)
	}
	if _, ok := f.Root("missing"); ok {
		t.Fatalf("expected no root for unknown id")
	}
}

func TestForest_ClosureContainsAncestorsOfEveryMatch(t *testing.T) {
	rows := sampleRows()
	f := NewForest(rows)
	g1, _ := f.Get("g1")
	r3, _ := f.Get("r3")

	got := f.Closure([]Row{g1, r3})
	if diff := cmp.Diff([]string{"g1", "c1", "r1", "r3"}, ids(got)); diff != "" {
		t.Fatalf("closure (-want +got):\n%s", diff)
	}
	in := map[string]bool{}
	for _, x := range got {
		in[x.ID] = true
	}
	for _, m := range []Row{g1, r3} {
		for _, a := range f.Ancestors(m.ID) {
			if !in[a.ID] {
				t.Fatalf("ancestor %s of %s missing from closure", a.ID, m.ID)
			}
		}
	}
}

func TestForest_ClosureDeduplicates(t *testing.T) {
	f := NewForest(sampleRows())
	c1, _ := f.Get("c1")
	c2, _ := f.Get("c2")
	got := f.Closure([]Row{c1, c2, c1})
	if diff := cmp.Diff([]string{"c1", "r1", "c2"}, ids(got)); diff != "" {
		t.Fatalf("closure (-want +got):\n%s", diff)
	}
}

func TestForest_RootsHaveNoParent(t *testing.T) {
	rows := sampleRows()
	f := NewForest(rows)
	roots := f.Roots(rows)
	if diff := cmp.Diff([]string{"r1", "r2", "r3"}, ids(roots)); diff != "" {
		t.Fatalf("roots (-want +got):\n%s", diff)
	}
	for _, r := range roots {
		if r.ParentID != nil {
			t.Fatalf("root %s has parent %s", r.ID, *r.ParentID)
		}
	}
}

func TestForest_DanglingParentIsItsOwnRoot(t *testing.T) {
	rows := []Row{row("a", "gone", "orphan"), row("b", "a", "child")}
	f := NewForest(rows)
	if r, _ := f.Root("b"); r.ID != "a" {
		t.Fatalf("expected a as root, got %s", r.ID)
	}
}

func TestForest_CycleDoesNotHang(t *testing.T) {
	rows := []Row{row("a", "b", "a"), row("b", "a", "b")}
	f := NewForest(rows)
	if got := len(f.Ancestors("a")); got != 1 {
		t.Fatalf("expected one ancestor before the cycle repeats, got %d", got)
	}
	if got := f.DescendantIDs("a"); len(got) != 1 || got[0] != "b" {
		t.Fatalf("unexpected descendants %v", got)
	}
}
