package tabular

// DefaultPageSize is the number of rows per page when none is configured.
const DefaultPageSize = 7

// DefaultWindowSize is the number of page buttons shown by the pager.
const DefaultWindowSize = 7

// TotalPages returns ceil(n/size), never less than 1.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// PageSlice returns the records shown on the 1-based page. Out-of-range
// pages yield an empty slice.
func PageSlice(records []Record, page, size int) []Record {
	if size <= 0 || page < 1 {
		return nil
	}
	start := (page - 1) * size
	if start >= len(records) {
		return nil
	}
	end := min(start+size, len(records))
	return records[start:end]
}

// Window is the set of page buttons the pager renders around the current
// page.
type Window struct {
	Pages            []int
	Current          int
	Total            int
	LeadingEllipsis  bool // pages before Pages[0] exist
	TrailingEllipsis bool // pages after the last entry exist
}

// CanPrev reports whether a previous page exists.
func (w Window) CanPrev() bool { return w.Current > 1 }

// CanNext reports whether a following page exists.
func (w Window) CanNext() bool { return w.Current < w.Total }

// PageWindow centers a window of at most size page numbers on page,
// shifting it so it never runs past total.
func PageWindow(page, total, size int) Window {
	if total < 1 {
		total = 1
	}
	if size < 1 {
		size = DefaultWindowSize
	}
	page = min(max(page, 1), total)

	start := max(1, page-size/2)
	end := min(total, start+size-1)
	if end-start+1 < size {
		start = max(1, end-size+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}

	return Window{
		Pages:            pages,
		Current:          page,
		Total:            total,
		LeadingEllipsis:  start > 1,
		TrailingEllipsis: end < total,
	}
}
