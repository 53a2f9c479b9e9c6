// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignment

import (
	"strconv"

	"github.com/harta55/entap/internal/model"
)

// HgtHit is one similarity-search hit against either a donor or a recipient
// reference database, gathered during the HGT stage (supplemented feature 4:
// multi-database donor/recipient voting).
type HgtHit struct {
	base

	IsDonor  bool
	EValue   float64
	Coverage float64
}

// NewHgtHit constructs an HgtHit.
func NewHgtHit(parent *model.QuerySequence, databasePath string, hit HgtHit) *HgtHit {
	hit.base = base{parent: parent, databasePath: databasePath}
	return &hit
}

// IsBetterThan ranks by raw e-value; HGT does not select a single best hit
// per sequence the way SimilaritySearch does (every donor/recipient database
// vote is counted), but the ordering is kept available for consistency with
// the other variants and for stable rendering of the strongest hit first.
func (h *HgtHit) IsBetterThan(otherAlign model.Alignment, overall bool) bool {
	other, ok := otherAlign.(*HgtHit)
	if !ok {
		return false
	}
	return clampEValue(h.EValue) < clampEValue(other.EValue)
}

func (h *HgtHit) RefreshHeaders() {}

// Get implements model.Alignment.
func (h *HgtHit) Get(header model.HeaderID, goLevel int) (string, bool) {
	switch header {
	case model.HeaderEValue:
		return formatEValue(h.EValue), true
	case model.HeaderCoverage:
		return strconv.FormatFloat(h.Coverage, 'f', 2, 64), true
	case model.HeaderDatabase:
		return h.DatabasePath(), true
	case model.HeaderHGTDonor:
		return yesNo(h.IsDonor), true
	case model.HeaderHGTRecipient:
		return yesNo(!h.IsDonor), true
	default:
		return "", false
	}
}
