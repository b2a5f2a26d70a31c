package subtitles

import "iter"

// withNext yields every item paired with a pointer to its successor. The
// successor is nil for the final item.
func withNext[T any](items []T) iter.Seq2[T, *T] {
	return func(yield func(T, *T) bool) {
		for i := range items {
			var next *T
			if i+1 < len(items) {
				next = &items[i+1]
			}
			if !yield(items[i], next) {
				return
			}
		}
	}
}
