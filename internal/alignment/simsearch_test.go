// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/harta55/entap/internal/model"
)

// newHit builds a SimSearchHit directly (bypassing NewSimSearchHit, which
// recomputes TaxScore from Lineage/target) so tests can pin an arbitrary
// TaxScore to exercise IsBetterThan's tie-break ladder in isolation.
func newHit(t *testing.T, eValue, coverage, taxScore float64, contaminant bool) *SimSearchHit {
	t.Helper()
	seq := model.NewSequence("q1")
	return &SimSearchHit{
		base:        base{parent: seq, databasePath: "db"},
		EValue:      eValue,
		QCovHSP:     coverage,
		TaxScore:    taxScore,
		Contaminant: contaminant,
	}
}

// TestIsBetterThanTotalOrder checks P3: for any two alignments exactly one
// of A>B, B>A, or neither (tie, first-insertion order decides) holds.
func TestIsBetterThanTotalOrder(t *testing.T) {
	a := newHit(t, 1e-5, 80, 3, false)
	b := newHit(t, 1e-30, 70, 3, false)

	aBetter := a.IsBetterThan(b, false)
	bBetter := b.IsBetterThan(a, false)
	assert.False(t, aBetter && bBetter, "both cannot be strictly better than the other")
}

// TestIsBetterThanPerDatabaseCoverageWins covers §4.7's per-database rule:
// within evalDif, a coverage gap over covDif decides regardless of e-value.
func TestIsBetterThanPerDatabaseCoverageWins(t *testing.T) {
	a := newHit(t, 1e-5, 80, 1, false) // higher coverage, weaker e-value
	b := newHit(t, 1e-7, 70, 1, false)
	assert.True(t, a.IsBetterThan(b, false))
	assert.False(t, b.IsBetterThan(a, false))
}

// TestIsBetterThanPerDatabaseContaminantLoses: equal coverage and tax score,
// non-contaminant wins.
func TestIsBetterThanPerDatabaseContaminantLoses(t *testing.T) {
	a := newHit(t, 1e-5, 80, 1, false)
	b := newHit(t, 1e-5, 80, 1, true)
	assert.True(t, a.IsBetterThan(b, false))
	assert.False(t, b.IsBetterThan(a, false))
}

// TestIsBetterThanPerDatabaseTaxScoreTieBreak: equal coverage, same
// contaminant status, higher tax score wins.
func TestIsBetterThanPerDatabaseTaxScoreTieBreak(t *testing.T) {
	a := newHit(t, 1e-5, 80, 5, false)
	b := newHit(t, 1e-5, 80, 2, false)
	assert.True(t, a.IsBetterThan(b, false))
	assert.False(t, b.IsBetterThan(a, false))
}

// TestIsBetterThanPerDatabaseEvalueTieBreak: everything else equal, lower
// e-value wins.
func TestIsBetterThanPerDatabaseEvalueTieBreak(t *testing.T) {
	a := newHit(t, 1e-10, 80, 1, false)
	b := newHit(t, 1e-5, 80, 1, false)
	assert.True(t, a.IsBetterThan(b, false))
	assert.False(t, b.IsBetterThan(a, false))
}

// TestIsBetterThanEvalueDominatesBeyondThreshold: a Δlog10(e) >= evalDif
// bypasses the coverage/contaminant/tax-score tie-break entirely, even when
// the worse-e-value hit has far higher coverage.
func TestIsBetterThanEvalueDominatesBeyondThreshold(t *testing.T) {
	a := newHit(t, 1e-50, 10, 0, true) // much lower e-value, low coverage, contaminant
	b := newHit(t, 1e-5, 95, 5, false) // weak e-value, high coverage, clean
	assert.True(t, a.IsBetterThan(b, false))
	assert.False(t, b.IsBetterThan(a, false))
}

// TestIsBetterThanOverallCoverageWinsThenFallsBackToCoverage matches scenario
// 3 of §8: the cross-database comparator lets a coverage gap over covDif
// decide even against a far lower e-value (its final tie-break is coverage
// too; e-value is never consulted).
func TestIsBetterThanOverallCoverageWinsThenFallsBackToCoverage(t *testing.T) {
	a := newHit(t, 1e-5, 80, 3, false)
	b := newHit(t, 1e-30, 70, 3, false)
	assert.True(t, a.IsBetterThan(b, true), "scenario 3: |cov diff|=10 > 5 decides overall comparison")
	assert.False(t, b.IsBetterThan(a, true))
}

// TestTaxScoreMonotonicity covers P4: a lineage strictly dominating (more
// prefixes matching the target) never scores lower, all else equal.
func TestTaxScoreMonotonicity(t *testing.T) {
	target := "cellular organisms;Eukaryota;Metazoa;Chordata;Mammalia;Primates;Hominidae;Homo;Homo sapiens"

	shallow := TaxScore("cellular organisms;Eukaryota", target, true)
	deep := TaxScore("cellular organisms;Eukaryota;Metazoa;Chordata;Mammalia", target, true)
	assert.GreaterOrEqual(t, deep, shallow)
}

func TestTaxScoreNoMatchInformativeGetsFlatBonus(t *testing.T) {
	score := TaxScore("totally;unrelated;lineage", "cellular organisms;Eukaryota", true)
	assert.Equal(t, informAdd, score)
}

func TestTaxScoreNoMatchUninformativeIsZero(t *testing.T) {
	score := TaxScore("totally;unrelated;lineage", "cellular organisms;Eukaryota", false)
	assert.Equal(t, 0.0, score)
}

func TestTaxScoreMatchInformativeAppliesFactor(t *testing.T) {
	baseScore := TaxScore("cellular organisms", "cellular organisms;Eukaryota", false)
	boosted := TaxScore("cellular organisms", "cellular organisms;Eukaryota", true)
	assert.Equal(t, baseScore*informFactor, boosted)
}

func TestClampEValueAvoidsNegativeInfinity(t *testing.T) {
	assert.Equal(t, 1e-300, clampEValue(0))
	assert.Equal(t, 1e-5, clampEValue(1e-5))
}
