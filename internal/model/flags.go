// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// Flag is a bit in QuerySequence's flag set. It replaces the reference
// implementation's scattered boolean fields (is_protein, _is_informative,
// _is_database_hit, _is_family_assigned,...) with a single bitset, following
// the reference preference for small, explicit value types over ad-hoc
// boolean fields.
type Flag uint32

const (
	IsProtein Flag = 1 << iota
	ExpressionKept
	FrameKept
	SimHit
	FamilyAssigned
	FamilyOneGO
	FamilyOneKegg
	Contaminant
	SimSearchContam
	FamilyContam
	HgtBlasted
	HgtCandidate
	HgtConfirmed
	Blasted
)

// Has reports whether all bits of mask are set in f.
func (f Flag) Has(mask Flag) bool { return f&mask == mask }

// Any reports whether any bit of mask is set in f.
func (f Flag) Any(mask Flag) bool { return f&mask != 0 }

// Set returns f with mask's bits set.
func (f Flag) Set(mask Flag) Flag { return f | mask }

// Clear returns f with mask's bits cleared.
func (f Flag) Clear(mask Flag) Flag { return f &^ mask }

// With returns f with mask's bits set to val.
func (f Flag) With(mask Flag, val bool) Flag {
	if val {
		return f.Set(mask)
	}
	return f.Clear(mask)
}
