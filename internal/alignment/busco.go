// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignment

import (
	"strconv"

	"github.com/harta55/entap/internal/model"
)

// BuscoStatus is a BUSCO full_table.tsv status column value.
type BuscoStatus int

const (
	BuscoMissing BuscoStatus = iota
	BuscoComplete
	BuscoDuplicated
	BuscoFragmented
)

func (s BuscoStatus) String() string {
	switch s {
	case BuscoComplete:
		return "Complete"
	case BuscoDuplicated:
		return "Duplicated"
	case BuscoFragmented:
		return "Fragmented"
	default:
		return "Missing"
	}
}

// BuscoHit is one row of BUSCO's full_table.tsv.
type BuscoHit struct {
	base

	BuscoID string
	Status  BuscoStatus
	Score   float64
	Length  int
}

// NewBuscoHit constructs a BuscoHit.
func NewBuscoHit(parent *model.QuerySequence, databasePath string, hit BuscoHit) *BuscoHit {
	hit.base = base{parent: parent, databasePath: databasePath}
	return &hit
}

// IsBetterThan ranks by score, matching BuscoAlignment::operator> in the
// reference implementation ("BUSCO does not produce additional alignments
// but just in case this changes, use the best score").
func (h *BuscoHit) IsBetterThan(otherAlign model.Alignment, overall bool) bool {
	other, ok := otherAlign.(*BuscoHit)
	if !ok {
		return false
	}
	return h.Score > other.Score
}

// RefreshHeaders is a no-op: BUSCO produces no cross-reference data.
func (h *BuscoHit) RefreshHeaders() {}

// Get implements model.Alignment. BUSCO carries no GO information.
func (h *BuscoHit) Get(header model.HeaderID, goLevel int) (string, bool) {
	switch header {
	case model.HeaderBuscoID:
		return h.BuscoID, true
	case model.HeaderBuscoStatus:
		return h.Status.String(), true
	case model.HeaderBuscoScore:
		return strconv.FormatFloat(h.Score, 'f', 1, 64), true
	case model.HeaderBuscoLength:
		return strconv.Itoa(h.Length), true
	case model.HeaderDatabase:
		return h.DatabasePath(), true
	default:
		return "", false
	}
}
