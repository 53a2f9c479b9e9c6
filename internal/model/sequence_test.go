// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestGoEntryMatchesLevel covers P5: level L returns exactly the entries
// with level_int >= L, or level_int = UNKNOWN, or L == 0.
func TestGoEntryMatchesLevel(t *testing.T) {
	known := GoEntry{GoID: "GO:1", Level: 3}
	unknown := GoEntry{GoID: "GO:2", Level: LevelUnknown}

	assert.True(t, known.MatchesLevel(0), "level 0 means all")
	assert.True(t, known.MatchesLevel(3))
	assert.True(t, known.MatchesLevel(2))
	assert.False(t, known.MatchesLevel(4))

	assert.True(t, unknown.MatchesLevel(0))
	assert.True(t, unknown.MatchesLevel(5), "unknown level always matches a nonzero level filter")
}

// TestRecomputeContaminantEnforcesI3 covers invariant I3: Contaminant is set
// iff SimSearchContam or FamilyContam is set.
func TestRecomputeContaminantEnforcesI3(t *testing.T) {
	seq := NewSequence("q1")
	seq.RecomputeContaminant()
	assert.False(t, seq.Flags.Has(Contaminant))

	seq.Flags = seq.Flags.Set(SimSearchContam)
	seq.RecomputeContaminant()
	assert.True(t, seq.Flags.Has(Contaminant))

	seq.Flags = seq.Flags.Clear(SimSearchContam)
	seq.RecomputeContaminant()
	assert.False(t, seq.Flags.Has(Contaminant))

	seq.Flags = seq.Flags.Set(FamilyContam)
	seq.RecomputeContaminant()
	assert.True(t, seq.Flags.Has(Contaminant))
}

// TestFlagBitsetOperations covers invariant I4 at the Flag level:
// nothing in the bitset itself prevents setting HgtConfirmed without
// HgtCandidate, so callers (internal/hgt) must maintain this; this test
// pins the flag values used to do so.
func TestFlagBitsetOperations(t *testing.T) {
	var f Flag
	f = f.Set(HgtCandidate)
	f = f.Set(HgtConfirmed)
	assert.True(t, f.Has(HgtCandidate|HgtConfirmed))

	f = f.Clear(HgtCandidate)
	assert.False(t, f.Has(HgtCandidate))
	assert.True(t, f.Has(HgtConfirmed))

	f = f.With(IsProtein, true)
	assert.True(t, f.Any(IsProtein))
	f = f.With(IsProtein, false)
	assert.False(t, f.Any(IsProtein))
}

func TestNewSequenceDefaults(t *testing.T) {
	seq := NewSequence("q1")
	assert.Equal(t, "q1", seq.ID)
	assert.Equal(t, -1, seq.Upstream)
	assert.Equal(t, -1, seq.Downstream)
	assert.NotNil(t, seq.Alignments)
	assert.NotNil(t, seq.GoTerms)
}
