package cache

// ReplacingRecord swaps in each fetched value whole.
type ReplacingRecord[V any] struct{}

func (ReplacingRecord[V]) Update(fetched V) V {
	return fetched
}

func (ReplacingRecord[V]) Size(V) int {
	return 1
}

// MergingRecord holds a collection keyed by Key.  After an update it
// holds exactly the keys of the fetched items, in first-observed order,
// and the last fetched item for a repeated key wins.
type MergingRecord[K comparable, E any] struct {
	Key func(E) K
}

func NewMergingRecord[K comparable, E any](key func(E) K) MergingRecord[K, E] {
	return MergingRecord[K, E]{Key: key}
}

func (m MergingRecord[K, E]) Update(fetched []E) []E {
	index := make(map[K]int, len(fetched))
	out := make([]E, 0, len(fetched))
	for _, e := range fetched {
		k := m.Key(e)
		if i, ok := index[k]; ok {
			out[i] = e
			continue
		}
		index[k] = len(out)
		out = append(out, e)
	}
	return out
}

func (MergingRecord[K, E]) Size(v []E) int {
	return len(v)
}
