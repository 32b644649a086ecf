// Package sorttest provides utilities for testing stable key-ordered sorts,
// such as the ones in the bucketsort package.
//
// # Overview
//
// The primary function [Check] verifies that an output slice is a stable sort
// of an input slice by a given key. It checks the three properties separately
// so that a failing test reports which one was violated:
//
//   - Permutation: the output holds exactly the items of the input, no item
//     lost and none duplicated.
//   - Order: the keys of the output never decrease.
//   - Stability: items with equal keys appear in the same relative order as
//     in the input.
//
// [Stable] computes the expected result with a comparison sort from the
// standard library, for tests that would rather compare whole slices.
//
// # Example Usage
//
//	input := []Pair{{3, "a"}, {1, "b"}, {3, "c"}}
//	output, err := bucketsort.SortByKey(input, Pair.Key, 1, 3)
//	if err != nil {
//		t.Fatal(err)
//	}
//	sorttest.Check(t, input, output, Pair.Key)
package sorttest

import (
	"cmp"
	"maps"
	"slices"
	"testing"
)

// Check verifies that output is input sorted ascending by key and stable on
// equal keys. Violations are reported as test errors; Check returns whether
// none were found.
//
// Items must be comparable so that the permutation can be verified. Items that
// are equal are indistinguishable, so their relative order is not checked.
func Check[E comparable, K cmp.Ordered](t testing.TB, input, output []E, key func(E) K) bool {
	t.Helper()

	if len(input) != len(output) {
		t.Errorf("output has %d items, want %d", len(output), len(input))
		return false
	}

	ok := Permutation(t, input, output)
	ok = Ordered(t, output, key) && ok
	if !ok {
		// Stability is meaningless for an output that is not even a sorted
		// permutation; the report would only repeat the errors above.
		return false
	}
	return Stability(t, input, output, key)
}

// Permutation verifies that output holds the same multiset of items as input.
func Permutation[E comparable](t testing.TB, input, output []E) bool {
	t.Helper()

	counts := make(map[E]int, len(input))
	for _, e := range input {
		counts[e]++
	}
	for _, e := range output {
		counts[e]--
	}

	ok := true
	for e, n := range counts {
		switch {
		case n > 0:
			t.Errorf("item %v: %d occurrence(s) lost", e, n)
			ok = false
		case n < 0:
			t.Errorf("item %v: %d unexpected occurrence(s)", e, -n)
			ok = false
		}
	}
	return ok
}

// Ordered verifies that the keys of output never decrease.
func Ordered[E any, K cmp.Ordered](t testing.TB, output []E, key func(E) K) bool {
	t.Helper()

	ok := true
	for i := 1; i < len(output); i++ {
		prev, next := key(output[i-1]), key(output[i])
		if cmp.Less(next, prev) {
			t.Errorf("output[%d] has key %v, after output[%d] with key %v", i, next, i-1, prev)
			ok = false
		}
	}
	return ok
}

// Stability verifies that, for every key, the items of output with that key
// appear in the same order as they do in input.
func Stability[E comparable, K cmp.Ordered](t testing.TB, input, output []E, key func(E) K) bool {
	t.Helper()

	want := groups(input, key)
	got := groups(output, key)

	ok := true
	for _, k := range slices.Sorted(maps.Keys(want)) {
		if !slices.Equal(want[k], got[k]) {
			t.Errorf("key %v: items in order %v, want %v", k, got[k], want[k])
			ok = false
		}
	}
	return ok
}

// Stable returns a copy of input sorted stably by key, using a comparison sort.
func Stable[E any, K cmp.Ordered](input []E, key func(E) K) []E {
	out := slices.Clone(input)
	slices.SortStableFunc(out, func(a, b E) int {
		return cmp.Compare(key(a), key(b))
	})
	return out
}

// groups splits items by key, keeping their relative order.
func groups[E any, K cmp.Ordered](items []E, key func(E) K) map[K][]E {
	m := make(map[K][]E)
	for _, e := range items {
		k := key(e)
		m[k] = append(m[k], e)
	}
	return m
}
