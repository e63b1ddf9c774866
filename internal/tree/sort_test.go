package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func titleSort(t *testing.T, dir Direction) SortSpec[Row] {
	t.Helper()
	s, err := TaskSort(SortTitle, dir)
	if err != nil {
		t.Fatalf("TaskSort: %v", err)
	}
	return s
}

func TestSorts_StableByTitle(t *testing.T) {
	rows := []Row{row("b", "", "b"), row("a", "", "a"), row("b2", "", "b")}
	Sorts[Row]{titleSort(t, DirAsc)}.Apply(rows)
	if diff := cmp.Diff([]string{"a", "b", "b2"}, ids(rows)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestSorts_DescendingKeepsTiesStable(t *testing.T) {
	rows := []Row{row("b", "", "b"), row("a", "", "a"), row("b2", "", "b")}
	Sorts[Row]{titleSort(t, DirDesc)}.Apply(rows)
	if diff := cmp.Diff([]string{"b", "b2", "a"}, ids(rows)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestSorts_LastSpecIsMostSignificant(t *testing.T) {
	a := row("a", "", "alpha")
	a.EndDate = day(2)
	b := row("b", "", "beta")
	b.EndDate = day(1)
	c := row("c", "", "gamma")
	c.EndDate = day(2)

	end, err := TaskSort(SortEndDate, DirAsc)
	if err != nil {
		t.Fatal(err)
	}
	rows := []Row{c, a, b}
	Sorts[Row]{titleSort(t, DirAsc), end}.Apply(rows)
	if diff := cmp.Diff([]string{"b", "a", "c"}, ids(rows)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestSorts_MissingDatesCompareEqual(t *testing.T) {
	a := row("a", "", "a")
	b := row("b", "", "b")
	b.EndDate = day(1)
	end, _ := TaskSort(SortEndDate, DirDesc)
	rows := []Row{a, b}
	Sorts[Row]{end}.Apply(rows)
	if diff := cmp.Diff([]string{"a", "b"}, ids(rows)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}

func TestSorts_Update(t *testing.T) {
	var s Sorts[Row]
	s = s.Update(titleSort(t, DirAsc))
	cat, _ := TaskSort(SortCategory, DirAsc)
	s = s.Update(cat)
	if got := s.String(); got != "title:asc,category:asc" {
		t.Fatalf("push: %s", got)
	}
	s = s.Update(titleSort(t, DirDesc))
	if got := s.String(); got != "title:desc,category:asc" {
		t.Fatalf("replace in place: %s", got)
	}
	s = s.Update(titleSort(t, DirNone))
	if got := s.String(); got != "category:asc" {
		t.Fatalf("remove: %s", got)
	}
	s = s.Update(SortSpec[Row]{Name: "startDate"})
	if got := s.String(); got != "category:asc" {
		t.Fatalf("no-direction push must be ignored: %s", got)
	}
	if _, ok := s.Find(SortCategory); !ok {
		t.Fatalf("Find category")
	}
}

func TestParseTaskSorts(t *testing.T) {
	s, err := ParseTaskSorts([]string{"title:desc,endDate", "category:none"})
	if err != nil {
		t.Fatalf("ParseTaskSorts: %v", err)
	}
	if got := s.String(); got != "title:desc,endDate:asc" {
		t.Fatalf("unexpected sorts %s", got)
	}
	if _, err := ParseTaskSorts([]string{"color:asc"}); err == nil {
		t.Fatalf("expected unknown sort error")
	}
	if _, err := ParseTaskSorts([]string{"title:sideways"}); err == nil {
		t.Fatalf("expected bad direction error")
	}
}

func TestTaskSort_CollatesLocaleAware(t *testing.T) {
	rows := []Row{row("z", "", "zebra"), row("e", "", "Éclair"), row("a", "", "apple")}
	Sorts[Row]{titleSort(t, DirAsc)}.Apply(rows)
	if diff := cmp.Diff([]string{"a", "e", "z"}, ids(rows)); diff != "" {
		t.Fatalf("order (-want +got):\n%s", diff)
	}
}
