package pagination

// TotalPages returns how many pages count items fill at perPage per page.
// It is at least 1.
func TotalPages(count, perPage int) int {
	if perPage < 1 || count <= 0 {
		return 1
	}
	return (count + perPage - 1) / perPage
}

// ClampPage moves page into [1, total].
func ClampPage(page, total int) int {
	if total < 1 {
		total = 1
	}
	if page < 1 {
		return 1
	}
	if page > total {
		return total
	}
	return page
}

// Slice returns the items on the given one-based page. Pages past the end
// yield an empty slice.
func Slice[T any](items []T, page, perPage int) []T {
	if perPage < 1 || page < 1 {
		return []T{}
	}
	start := (page - 1) * perPage
	if start >= len(items) {
		return []T{}
	}
	end := min(start+perPage, len(items))
	return items[start:end]
}
