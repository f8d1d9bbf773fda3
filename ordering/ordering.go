// Package ordering holds the display-order rules of the catalog: how new
// products get their positions, how listings are sorted and paged, and how a
// client turns a moved row into a reorder payload.
//
// Order values are never renumbered on delete. Only their relative order is
// meaningful, with the product id as the final tie-break.
package ordering

import (
	"math"
	"sort"
)

// Entry is the part of a product that takes part in ordering.
type Entry struct {
	ID         int64
	CategoryID int64
	Global     int
	Category   int
}

// Next returns max(orders)+1, or 1 for an empty set.
func Next(orders []int) int {
	if len(orders) == 0 {
		return 1
	}
	top := orders[0]
	for _, o := range orders[1:] {
		if o > top {
			top = o
		}
	}
	return top + 1
}

// Less reports whether a sorts before b. With scoped set the category order
// leads, then the global order; the id always breaks the remaining ties so the
// result is a strict total order.
func Less(a, b Entry, scoped bool) bool {
	if scoped && a.Category != b.Category {
		return a.Category < b.Category
	}
	if a.Global != b.Global {
		return a.Global < b.Global
	}
	return a.ID < b.ID
}

// Sort orders entries in place, see Less.
func Sort(entries []Entry, scoped bool) {
	sort.Slice(entries, func(i, j int) bool {
		return Less(entries[i], entries[j], scoped)
	})
}

// Offset converts a 1-based page number into a row offset. Offsets that do
// not fit in an int saturate at math.MaxInt, which lands past any result.
func Offset(page, pageSize int) int {
	if page < 1 || pageSize < 1 {
		return 0
	}
	if page-1 > math.MaxInt/pageSize {
		return math.MaxInt
	}
	return (page - 1) * pageSize
}

// Window returns the [start, end) bounds of limit rows starting at offset
// inside a result of total rows. Offsets past the end yield an empty window.
func Window(total, offset, limit int) (start, end int) {
	start = offset
	if start < 0 {
		start = 0
	}
	if limit < 0 {
		limit = 0
	}
	if start > total {
		start = total
	}
	if limit > total-start {
		return start, total
	}
	return start, start + limit
}
