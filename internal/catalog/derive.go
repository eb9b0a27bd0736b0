package catalog

import (
	"iter"
	"strings"

	"golang.org/x/text/cases"
)

// Searchable is anything FilterBySearch can match against.
type Searchable interface {
	SearchFields() (title, description string)
}

// FilterBySearch keeps the items whose title or description contains query,
// compared under Unicode case folding. A blank query returns items unchanged.
func FilterBySearch[T Searchable](items []T, query string) []T {
	query = strings.TrimSpace(query)
	if query == "" {
		return items
	}
	out := make([]T, 0, len(items))
	for item := range SearchSeq(items, query) {
		out = append(out, item)
	}
	return out
}

// SearchSeq yields the matches of FilterBySearch lazily. The sequence can be
// ranged over more than once.
func SearchSeq[T Searchable](items []T, query string) iter.Seq[T] {
	query = strings.TrimSpace(query)
	return func(yield func(T) bool) {
		if query == "" {
			for _, item := range items {
				if !yield(item) {
					return
				}
			}
			return
		}
		// Casers keep state, so each iteration gets its own.
		fold := cases.Fold()
		needle := fold.String(query)
		for _, item := range items {
			title, desc := item.SearchFields()
			if strings.Contains(fold.String(title), needle) || strings.Contains(fold.String(desc), needle) {
				if !yield(item) {
					return
				}
			}
		}
	}
}

// PageMeta describes the position of a page inside a filtered list.
type PageMeta struct {
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
	Start      int
	End        int
}

// HasPrev reports whether a previous page exists.
func (m PageMeta) HasPrev() bool { return m.Page > 1 }

// HasNext reports whether a following page exists.
func (m PageMeta) HasNext() bool { return m.Page >= 1 && m.Page < m.TotalPages }

// TotalPages returns ceil(totalItems/pageSize), never less than 1.
func TotalPages(totalItems, pageSize int) int {
	if pageSize <= 0 || totalItems <= 0 {
		return 1
	}
	return (totalItems + pageSize - 1) / pageSize
}

// Paginate returns the page-th slice of items. page is 1-based and is not
// clamped: a page past the end, a page below 1 or a non-positive page size
// yield an empty page with the metadata still filled in.
func Paginate[T any](items []T, pageSize, page int) ([]T, PageMeta) {
	total := len(items)
	meta := PageMeta{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: TotalPages(total, pageSize),
	}
	if pageSize <= 0 || page < 1 {
		return []T{}, meta
	}
	start := (page - 1) * pageSize
	if start >= total {
		meta.Start, meta.End = total, total
		return []T{}, meta
	}
	end := min(start+pageSize, total)
	meta.Start, meta.End = start, end
	return items[start:end], meta
}

// ClampPage brings page into [1, totalPages].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// PageWindow returns up to size page numbers centred on current.
func PageWindow(current, totalPages, size int) []int {
	if totalPages < 1 || size < 1 {
		return nil
	}
	current = ClampPage(current, totalPages)
	if size > totalPages {
		size = totalPages
	}
	first := current - size/2
	if first < 1 {
		first = 1
	}
	if first+size-1 > totalPages {
		first = totalPages - size + 1
	}
	pages := make([]int, 0, size)
	for p := first; p < first+size; p++ {
		pages = append(pages, p)
	}
	return pages
}

// Counters are decorative marketing figures derived from the real catalog
// size. They are not measurements of anything.
type Counters struct {
	SimulatedTotal  int64
	SoldToday       int64
	PositiveReviews int64
}

// Ratios applied to the simulated total, kept integral so floor is exact.
const (
	soldTodayNum       = 291
	soldTodayDen       = 1_000_000
	positiveReviewsNum = 45
	positiveReviewsDen = 10_000
)

// InflateCounters scales the real item count by factor and derives the daily
// sales and review figures from the result.
func InflateCounters(totalItems int, factor int64) Counters {
	if totalItems <= 0 || factor <= 0 {
		return Counters{}
	}
	simulated := int64(totalItems) * factor
	return Counters{
		SimulatedTotal:  simulated,
		SoldToday:       simulated * soldTodayNum / soldTodayDen,
		PositiveReviews: simulated * positiveReviewsNum / positiveReviewsDen,
	}
}
