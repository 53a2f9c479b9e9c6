// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignment

import (
	"strconv"
	"strings"

	"github.com/harta55/entap/internal/model"
)

// EggnogHit is one EggNOG-mapper annotation row, or an EggNOG-via-SQL result
// derived from a surviving similarity-search seed ortholog.
type EggnogHit struct {
	base

	SeedOrtholog string
	SeedEValue   float64
	SeedScore    float64

	MemberOGs         string
	TaxScopeLvlMax    string
	TaxScopeReadable  string
	COGCategory       string
	COGDescription    string
	Description       string
	PredictedGene     string
	KEGG              string
	BiGG              string
	BRITE             string
	EC                string
	CAZy              string
	ProteinDomains    string

	ParsedGO      []model.GoEntry
	IsContaminant bool
}

// NewEggnogHit constructs an EggnogHit.
func NewEggnogHit(parent *model.QuerySequence, databasePath string, hit EggnogHit) *EggnogHit {
	hit.base = base{parent: parent, databasePath: databasePath}
	return &hit
}

// IsBetterThan ranks EggNOG hits by seed e-value alone, per
// EggnogDmndAlignment::operator> in the reference implementation.
func (h *EggnogHit) IsBetterThan(otherAlign model.Alignment, overall bool) bool {
	other, ok := otherAlign.(*EggnogHit)
	if !ok {
		return false
	}
	return clampEValue(h.SeedEValue) < clampEValue(other.SeedEValue)
}

// RefreshHeaders is invoked after the EggNOG SQL enrichment populates
// MemberOGs/KEGG/BiGG/Description/PredictedGene.
func (h *EggnogHit) RefreshHeaders() {}

func goByCategory(entries []model.GoEntry, cat model.GoCategory) []model.GoEntry {
	var out []model.GoEntry
	for _, e := range entries {
		if e.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Get implements model.Alignment.
func (h *EggnogHit) Get(header model.HeaderID, goLevel int) (string, bool) {
	switch header {
	case model.HeaderSeedOrtholog:
		return h.SeedOrtholog, true
	case model.HeaderSeedEValue:
		return formatEValue(h.SeedEValue), true
	case model.HeaderSeedScore:
		return strconv.FormatFloat(h.SeedScore, 'f', 2, 64), true
	case model.HeaderEggOGs:
		return h.MemberOGs, true
	case model.HeaderEggLevel:
		return h.TaxScopeLvlMax, true
	case model.HeaderTaxScope:
		return h.TaxScopeReadable, true
	case model.HeaderCOGCategory:
		return h.COGCategory, true
	case model.HeaderCOGDescription:
		return h.COGDescription, true
	case model.HeaderEggDescription:
		return h.Description, true
	case model.HeaderPredictedGene:
		return h.PredictedGene, true
	case model.HeaderEggKEGG:
		return h.KEGG, true
	case model.HeaderBiGG:
		return h.BiGG, true
	case model.HeaderBRITE:
		return h.BRITE, true
	case model.HeaderEC:
		return h.EC, true
	case model.HeaderCAZy:
		return h.CAZy, true
	case model.HeaderEggProteinDomains:
		return h.ProteinDomains, true
	case model.HeaderDatabase:
		return h.DatabasePath(), true
	case model.HeaderContaminant:
		return yesNo(h.IsContaminant), true
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

// ParseMemberOGs parses the "<OG>@<taxid>|<name>,..." form described in into
// (og, taxid, name) triples.
func ParseMemberOGs(raw string) [][3]string {
	var out [][3]string
	for _, group := range strings.Split(raw, ",") {
		group = strings.TrimSpace(group)
		if group == "" {
			continue
		}
		at := strings.IndexByte(group, '@')
		if at < 0 {
			continue
		}
		og := group[:at]
		rest := group[at+1:]
		bar := strings.IndexByte(rest, '|')
		taxid, name := rest, ""
		if bar >= 0 {
			taxid, name = rest[:bar], rest[bar+1:]
		}
		out = append(out, [3]string{og, taxid, name})
	}
	return out
}
