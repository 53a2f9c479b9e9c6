// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package compair provides the generic ordered-container abstraction called
// for by an explicit replacement for the reference
// implementation's ad-hoc vector-plus-sorted-flag containers (QueryAlignment
// lists that were sorted in place with a bespoke comparator per call site).
// A Compair accumulates elements with Add, is brought into descending order
// once with Sort, and thereafter exposes an immutable view through View.
package compair

// Compair holds a growable list of T that is sorted on demand. It mirrors
// the reference preference (blast/blast.go, cmd/ins/main.go's
// bySubjectPosition) for a small concrete sort.Interface-shaped type per
// use, generalized here with a better-than function passed to Sort.
type Compair[T any] struct {
	items  []T
	sorted bool
}

// New returns an empty Compair.
func New[T any]() *Compair[T] {
	return &Compair[T]{}
}

// Add appends v. The container is marked unsorted; only the next call to
// Sort re-establishes order (View does not sort).
func (c *Compair[T]) Add(v T) {
	c.items = append(c.items, v)
	c.sorted = false
}

// Len returns the number of elements held.
func (c *Compair[T]) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// Sort orders the elements in descending order of "better than", using
// better(a, b) to mean "a ranks ahead of b".
// A stable sort preserves first-insertion order for elements that compare
// equal ("Selection is deterministic").
func (c *Compair[T]) Sort(better func(a, b T) bool) {
	stableSortDescending(c.items, better)
	c.sorted = true
}

// View returns the current element order. Callers must have called Sort
// first if they require the descending "better than" order; View itself
// performs no sorting so that repeated reads after a single Sort call are
// O(1) ("re-ordered exactly once at end of parse").
func (c *Compair[T]) View() []T {
	if c == nil {
		return nil
	}
	return c.items
}

// Best returns the first (best) element and true, or the zero value and
// false if the container is empty.
func (c *Compair[T]) Best() (v T, ok bool) {
	if c.Len() == 0 {
		return v, false
	}
	return c.items[0], true
}

// stableSortDescending performs a stable insertion sort ordering
// items so that for any i<j, better(items[i], items[j]) holds or neither
// holds (tie, original order preserved). Insertion sort is adequate here:
// per-bucket alignment counts are small (one database's hits for one
// sequence), and determinism under ties matters more than asymptotic
// performance.
func stableSortDescending[T any](items []T, better func(a, b T) bool) {
	for i := 1; i < len(items); i++ {
		j := i
		for j > 0 && better(items[j], items[j-1]) {
			items[j], items[j-1] = items[j-1], items[j]
			j--
		}
	}
}
