package tree

const DefaultPageSize = 10

// Paginate returns items[size*(page-1) : size*page], clamped to the slice bounds.
// page and size below 1 are treated as 1.
func Paginate[T any](items []T, page, size int) []T {
	page, size = max(page, 1), max(size, 1)
	lo := size * (page - 1)
	if lo >= len(items) {
		return []T{}
	}
	hi := min(lo+size, len(items))
	return items[lo:hi]
}

// PageCount is ceil(n/size), with size below 1 treated as 1.
func PageCount(n, size int) int {
	size = max(size, 1)
	if n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
