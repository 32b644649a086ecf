package bucketsort

// SortByKey returns a copy of s ordered ascending by key, keeping items with
// equal keys in their original relative order. The input is not modified.
//
// The keys of all items must lie within the inclusive range [lo, hi]. The sort
// runs in O(N + R) time and allocates O(N + R) memory, where N is len(s) and R
// is hi-lo, so the tightest accurate bounds should be declared.
//
// The key function is called exactly once per item. It should be
// deterministic; its result for each item is the one the item is sorted by.
//
// SortByKey never returns partial output. It fails with an [*Error] wrapping:
//
//   - [ErrInvalidRange] if hi < lo, before allocating anything;
//   - [ErrCastOverflow] if the range or some key's offset within it cannot
//     be used as a bucket index (too wide, fractional or infinite);
//   - [ErrKeyOutOfRange] if some key lies outside [lo, hi].
//
// An empty s yields an empty result once the range has been validated. A nil s
// yields nil.
func SortByKey[S ~[]E, E any, K Key](s S, key func(E) K, lo, hi K) (S, error) {
	if !(lo <= hi) {
		return nil, rangeError(lo, hi, ErrInvalidRange)
	}
	span, ok := distance(lo, hi)
	if !ok {
		return nil, rangeError(lo, hi, ErrCastOverflow)
	}
	if len(s) == 0 {
		return s[:0:0], nil
	}

	// The histogram is shifted up by one bucket: slot 0 stays zero, so that
	// after the prefix sum histogram[off] is where the first item with offset
	// off goes.
	histogram := make([]int, span+2)
	offsets := make([]int, len(s))
	for i, e := range s {
		k := key(e)
		if !(lo <= k && k <= hi) {
			return nil, keyError(i, k, lo, hi, ErrKeyOutOfRange)
		}
		off, ok := distance(lo, k)
		if !ok {
			return nil, keyError(i, k, lo, hi, ErrCastOverflow)
		}
		if off > span {
			return nil, keyError(i, k, lo, hi, ErrKeyOutOfRange)
		}
		offsets[i] = off
		histogram[off+1]++
	}

	for i := 2; i < len(histogram); i++ {
		histogram[i] += histogram[i-1]
	}

	// Walking the input in order while each bucket's cursor only moves forward
	// is what makes the sort stable.
	out := make(S, len(s))
	for i, e := range s {
		off := offsets[i]
		out[histogram[off]] = e
		histogram[off]++
	}
	return out, nil
}

// SortAllByKey is like [SortByKey] with the range set to the whole domain of K,
// as reported by [Bounds].
//
// This is only practical for narrow key types: sorting by a uint16 key
// allocates 65537 buckets, while 64-bit keys fail with [ErrCastOverflow].
func SortAllByKey[S ~[]E, E any, K Bounded](s S, key func(E) K) (S, error) {
	lo, hi := Bounds[K]()
	return SortByKey(s, key, lo, hi)
}

// Sort returns a sorted copy of a slice of keys in the range [lo, hi].
func Sort[S ~[]K, K Key](s S, lo, hi K) (S, error) {
	return SortByKey(s, identity[K], lo, hi)
}

// SortAll returns a sorted copy of a slice of keys, using the whole domain of
// K as the range.
func SortAll[S ~[]K, K Bounded](s S) (S, error) {
	return SortAllByKey(s, identity[K])
}

func identity[K any](k K) K { return k }
