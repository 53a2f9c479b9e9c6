// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package compair

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scored struct {
	name  string
	score int
}

func byScoreDescending(a, b scored) bool { return a.score > b.score }

func TestSortOrdersDescending(t *testing.T) {
	c := New[scored]()
	c.Add(scored{"low", 1})
	c.Add(scored{"high", 9})
	c.Add(scored{"mid", 5})

	c.Sort(byScoreDescending)

	view := c.View()
	require.Len(t, view, 3)
	assert.Equal(t, "high", view[0].name)
	assert.Equal(t, "mid", view[1].name)
	assert.Equal(t, "low", view[2].name)
}

// TestSortIsStableOnTies pins "selection is deterministic: for equal
// comparison keys the first-inserted alignment wins" (spec.md §4.7).
func TestSortIsStableOnTies(t *testing.T) {
	c := New[scored]()
	c.Add(scored{"first", 5})
	c.Add(scored{"second", 5})
	c.Add(scored{"third", 5})

	c.Sort(byScoreDescending)

	view := c.View()
	require.Len(t, view, 3)
	assert.Equal(t, "first", view[0].name)
	assert.Equal(t, "second", view[1].name)
	assert.Equal(t, "third", view[2].name)
}

func TestBestReturnsFirstElementAfterSort(t *testing.T) {
	c := New[scored]()
	c.Add(scored{"low", 1})
	c.Add(scored{"high", 9})
	c.Sort(byScoreDescending)

	best, ok := c.Best()
	require.True(t, ok)
	assert.Equal(t, "high", best.name)
}

func TestBestOnEmptyIsFalse(t *testing.T) {
	c := New[scored]()
	_, ok := c.Best()
	assert.False(t, ok)
}

func TestLenOnNilIsZero(t *testing.T) {
	var c *Compair[scored]
	assert.Equal(t, 0, c.Len())
}

func TestViewOnNilIsNil(t *testing.T) {
	var c *Compair[scored]
	assert.Nil(t, c.View())
}

func TestAddMarksUnsortedForNextSort(t *testing.T) {
	c := New[scored]()
	c.Add(scored{"a", 1})
	c.Sort(byScoreDescending)
	c.Add(scored{"b", 9})
	// View before a second Sort call reflects insertion order, not the stale
	// sorted order, since Sort must be called again after any Add.
	assert.Equal(t, "a", c.View()[0].name)
	c.Sort(byScoreDescending)
	assert.Equal(t, "b", c.View()[0].name)
}
