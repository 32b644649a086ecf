// Package bucketsort provides a stable counting sort over slices of arbitrary
// items, ordered by a numeric key drawn from a bounded range.
//
// Unlike comparison sorts, a counting sort never compares two items. It counts
// how many items fall into each possible key value (a bucket), turns the counts
// into starting positions with a prefix sum, and then places every item at its
// bucket's next free position. This runs in O(N + R) time, where N is the number
// of items and R the width of the key range, which beats O(N log N) whenever the
// range is small compared to the input. Compression stages that group symbols
// by frequency or by byte value are the typical consumers.
//
// # Sorting by Key
//
// The caller supplies the key function and the inclusive range its results are
// guaranteed to fall in:
//
//	type Symbol struct {
//	    Value byte
//	    Count uint16
//	}
//	sorted, err := bucketsort.SortByKey(symbols, func(s Symbol) uint16 {
//	    return s.Count
//	}, 0, 300)
//
// The result is a new slice; the input is left untouched. Items with equal keys
// keep their relative order from the input, so several sorts can be chained
// from the least significant key to the most significant one.
//
// When the key type is narrow, the range can be left implicit and taken from
// the type itself:
//
//	sorted, err := bucketsort.SortAllByKey(symbols, func(s Symbol) byte {
//	    return s.Value
//	})
//
// [Sort] and [SortAll] sort slices of bare keys.
//
// # Key Types
//
// Keys are integers or floats ([Key]). The full-range functions are restricted
// to types with intrinsic bounds ([Bounded]), the fixed-width integers, so
// calling them with a float key does not compile.
//
// # Errors
//
// A declared range that does not hold is never trusted. Every key is checked
// against the range before it is used as an index, and the function fails with
// an [*Error] instead of writing out of bounds or returning a silently
// misordered result. The sentinels [ErrInvalidRange], [ErrKeyOutOfRange] and
// [ErrCastOverflow] classify the failure:
//
//	sorted, err := bucketsort.SortByKey(items, key, 1, 3)
//	var serr *bucketsort.Error
//	if errors.As(err, &serr) && errors.Is(err, bucketsort.ErrKeyOutOfRange) {
//	    log.Printf("item %d has key %v", serr.Index, serr.Key)
//	}
//
// These are contract violations by the caller, not transient failures;
// retrying with the same bounds fails the same way.
//
// # Memory
//
// Every call allocates a histogram of R+2 counters and an output slice of N
// items, both discarded or handed to the caller on return. Declaring a range
// much wider than the keys actually used wastes memory in proportion to the
// width, so prefer the tightest bounds that are known to hold.
//
// The functions keep no state and are safe to call concurrently.
package bucketsort
