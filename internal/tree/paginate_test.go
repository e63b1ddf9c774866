package tree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	cases := []struct {
		page, size int
		want       []int
	}{
		{1, 10, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{2, 10, []int{11, 12}},
		{3, 10, []int{}},
		{0, 5, []int{1, 2, 3, 4, 5}},
		{2, 0, []int{2}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, Paginate(items, tc.page, tc.size)); diff != "" {
			t.Fatalf("Paginate(%d, %d) (-want +got):\n%s", tc.page, tc.size, diff)
		}
	}
}

func TestPageCount(t *testing.T) {
	cases := []struct{ n, size, want int }{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{3, 0, 3},
	}
	for _, tc := range cases {
		if got := PageCount(tc.n, tc.size); got != tc.want {
			t.Fatalf("PageCount(%d, %d) = %d, want %d", tc.n, tc.size, got, tc.want)
		}
	}
}
