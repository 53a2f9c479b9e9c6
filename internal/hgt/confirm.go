// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hgt

import (
	"fmt"

	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runspec"
)

// DetermineCandidates applies the HGT candidate/confirmed rule to every
// sequence in store, after every donor and recipient database has been voted
// with ParseSimilarity and every GFF neighbour link has been established
// with LinkNeighbours.
//
// A sequence is a candidate when it aligns to at least DonorMinHits donor
// databases, but not every configured donor database, and no recipient
// database (ModHorizontalGeneTransferDiamond.cpp:503's
// "query_donor_ct >= HGT_DONOR_DATABASE_MIN && query_donor_ct <
// mDonorDatabaseCt" gate, reproduced exactly: a sequence that hits ALL donor
// databases is treated as native to the donor lineage rather than a transfer
// candidate, not merely "enough" donor hits). A candidate is confirmed when
// both of its GFF neighbours exist, are themselves not candidates, and have
// a donor hit count no greater than DonorNeighborMaxHits. A candidate
// missing either neighbour link is discarded (a warning, not a fatal error)
// rather than confirmed, per
//
// the own worked scenario 6 labels the middle of three candidate records
// (the one with both donor and recipient hits) as itself a candidate, which
// contradicts the glossary's "not recipient" rule stated a few lines later;
// DESIGN.md records this as an Open Question resolved in favor of the
// glossary's unambiguous definition.
func DetermineCandidates(store *querystore.QueryStore, spec *runspec.Spec) []string {
	donorDatabaseCount := len(spec.HgtDonorDatabases)
	for _, seq := range store.All() {
		hitsAllDonorDatabases := donorDatabaseCount > 0 && seq.DonorHitCount >= donorDatabaseCount
		if seq.DonorHitCount >= spec.DonorMinHits && !hitsAllDonorDatabases && seq.RecipientHitCount == 0 {
			seq.Flags = seq.Flags.Set(model.HgtCandidate)
		}
	}

	var warnings []string
	for _, seq := range store.All() {
		if !seq.Flags.Has(model.HgtCandidate) {
			continue
		}
		up := store.At(seq.Upstream)
		down := store.At(seq.Downstream)
		if up == nil || down == nil {
			warnings = append(warnings, fmt.Sprintf("hgt candidate %s discarded: GFF neighbour missing", seq.ID))
			continue
		}
		if neighbourDisqualifies(up, spec.DonorNeighborMaxHits) || neighbourDisqualifies(down, spec.DonorNeighborMaxHits) {
			continue
		}
		seq.Flags = seq.Flags.Set(model.HgtConfirmed)
	}
	return warnings
}

func neighbourDisqualifies(neighbour *model.QuerySequence, donorNeighborMax int) bool {
	return neighbour.Flags.Has(model.HgtCandidate) || neighbour.DonorHitCount > donorNeighborMax
}
