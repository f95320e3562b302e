package repo

import "time"

const (
	queryTimeout = 3 * time.Second
	defaultLimit = 100
)

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// page slices items by the optional offset and limit. A limit of zero or
// less means no limit.
func page[T any](items []T, offset, limit *int) []T {
	start := 0
	if offset != nil {
		start = clamp(*offset, 0, len(items))
	}
	end := len(items)
	if limit != nil && *limit > 0 {
		end = clamp(start+*limit, start, len(items))
	}
	return items[start:end]
}
