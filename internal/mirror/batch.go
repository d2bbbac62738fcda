package mirror

// maxBatchSize is Firestore's ceiling on operations in one atomic write
// batch. This is a hard platform limit, not a tunable.
const maxBatchSize = 500

// chunk splits items into slices of at most size elements. The final
// chunk holds the remainder.
func chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}

	var out [][]T

	for size < len(items) {
		out = append(out, items[:size])
		items = items[size:]
	}

	return append(out, items)
}
