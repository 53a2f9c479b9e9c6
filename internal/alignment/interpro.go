// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignment

import (
	"github.com/harta55/entap/internal/model"
)

// InterproHit is one InterProScan annotation.
type InterproHit struct {
	base

	EValue           float64
	InterproDescID   string
	DatabaseDescID   string
	DatabaseType     string
	Pathways         string
	ParsedGO         []model.GoEntry
}

// NewInterproHit constructs an InterproHit.
func NewInterproHit(parent *model.QuerySequence, databasePath string, hit InterproHit) *InterproHit {
	hit.base = base{parent: parent, databasePath: databasePath}
	return &hit
}

// IsBetterThan ranks by raw e-value, per InterproAlignment::operator> in the
// reference implementation.
func (h *InterproHit) IsBetterThan(otherAlign model.Alignment, overall bool) bool {
	other, ok := otherAlign.(*InterproHit)
	if !ok {
		return false
	}
	return clampEValue(h.EValue) < clampEValue(other.EValue)
}

func (h *InterproHit) RefreshHeaders() {}

// Get implements model.Alignment.
func (h *InterproHit) Get(header model.HeaderID, goLevel int) (string, bool) {
	switch header {
	case model.HeaderEValue:
		return formatEValue(h.EValue), true
	case model.HeaderInterproID:
		return h.InterproDescID, true
	case model.HeaderInterproDatabase:
		return h.DatabaseDescID, true
	case model.HeaderInterproDescription:
		return h.DatabaseType, true
	case model.HeaderInterproPathway:
		return h.Pathways, true
	case model.HeaderDatabase:
		return h.DatabasePath(), true
	case model.HeaderInterproGO:
		return formatGoList(h.ParsedGO, goLevel)
	case model.HeaderEggGOBio:
		return formatGoList(goByCategory(h.ParsedGO, model.GoCategoryBiological), goLevel)
	case model.HeaderEggGOCell:
		return formatGoList(goByCategory(h.ParsedGO, model.GoCategoryCellular), goLevel)
	case model.HeaderEggGOMole:
		return formatGoList(goByCategory(h.ParsedGO, model.GoCategoryMolecular), goLevel)
	default:
		return "", false
	}
}
