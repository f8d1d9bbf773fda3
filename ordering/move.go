package ordering

// Change is a single {productId, order} assignment sent to a reorder endpoint.
type Change struct {
	ProductID int64
	Order     int
}

// Move relocates the element at index from to index to, shifting the elements
// in between. Both indexes are clamped to the slice bounds.
func Move[T any](items []T, from, to int) {
	if len(items) == 0 {
		return
	}
	from = clamp(from, len(items)-1)
	to = clamp(to, len(items)-1)
	if from == to {
		return
	}
	moved := items[from]
	if from < to {
		copy(items[from:to], items[from+1:to+1])
	} else {
		copy(items[to+1:from+1], items[to:from])
	}
	items[to] = moved
}

// Delta assigns positions 1..n to ids in their current sequence and returns
// only the assignments that differ from current. Applying the delta leaves
// every id in the sequence at its position.
func Delta(ids []int64, current map[int64]int) []Change {
	var out []Change
	for i, id := range ids {
		pos := i + 1
		if v, ok := current[id]; ok && v == pos {
			continue
		}
		out = append(out, Change{ProductID: id, Order: pos})
	}
	return out
}

func clamp(i, hi int) int {
	if i < 0 {
		return 0
	}
	if i > hi {
		return hi
	}
	return i
}
