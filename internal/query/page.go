package query

import "math"

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
	// MaxPage bounds page numbers accepted from callers.
	MaxPage = 1_000_000
)

// PageMeta describes one page of a result set.
type PageMeta struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Paginate slices items for the requested page. Out-of-range pages yield an empty slice.
func Paginate[T any](items []T, page, pageSize int) ([]T, PageMeta) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total := len(items)
	meta := PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}

	// compare pages before multiplying so huge page numbers cannot overflow
	if page > meta.TotalPages {
		return []T{}, meta
	}
	start := (page - 1) * pageSize
	end := min(start+pageSize, total)
	return items[start:end], meta
}
