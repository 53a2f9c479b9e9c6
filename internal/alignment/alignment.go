// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package alignment implements the concrete Alignment variants of
// (SimSearchHit, EggnogHit, InterproHit, BuscoHit, HgtHit). Each variant
// satisfies model.Alignment; dispatch between them is by Go interface
// satisfaction rather than the reference implementation's dynamic_cast
// chain, per the  note.
package alignment

import "github.com/harta55/entap/internal/model"

// base carries the fields common to every alignment variant: the owning
// sequence and the database path. Each variant holds its own e-value and
// coverage, and the "overall" comparator choice is an IsBetterThan argument.
type base struct {
	parent       *model.QuerySequence
	databasePath string
}

func (b *base) Parent() *model.QuerySequence { return b.parent }
func (b *base) DatabasePath() string         { return b.databasePath }

// clampEValue returns e, or 1e-300 when e is zero, avoiding a -Inf log10
// (original: "Avoid error on taking log").
func clampEValue(e float64) float64 {
	if e == 0 {
		return 1e-300
	}
	return e
}
