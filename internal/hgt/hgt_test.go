// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hgt

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runspec"
)

func newStoreWith(t *testing.T, ids ...string) *querystore.QueryStore {
	t.Helper()
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(">" + id + "\nATGACGATGACG\n")
	}
	s := querystore.New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(b.String()), false))
	return s
}

func TestParseGFFLinksConsecutiveFeatures(t *testing.T) {
	store := newStoreWith(t, "a", "b", "c")
	gff := strings.Join([]string{
		"chr1\tsrc\tmRNA\t1\t100\t.\t+\t.\tID=a;Name=x",
		"chr1\tsrc\tgene\t1\t100\t.\t+\t.\tID=ignored",
		"chr1\tsrc\ttranscript\t200\t300\t.\t+\t.\tID=b;Name=y",
		"chr1\tsrc\tmRNA\t400\t500\t.\t+\t.\tID=c",
	}, "\n")

	ids, err := ParseGFF(bufio.NewScanner(strings.NewReader(gff)))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids)

	LinkNeighbours(store, ids)
	a, _ := store.Get("a")
	b, _ := store.Get("b")
	c, _ := store.Get("c")
	assert.Equal(t, -1, a.Upstream)
	bIdx, _ := store.IndexOf("b")
	assert.Equal(t, bIdx, a.Downstream)
	aIdx, _ := store.IndexOf("a")
	cIdx, _ := store.IndexOf("c")
	assert.Equal(t, aIdx, b.Upstream)
	assert.Equal(t, cIdx, b.Downstream)
	assert.Equal(t, -1, c.Downstream)
}

func TestParseSimilarityCountsOnePerDatabase(t *testing.T) {
	store := newStoreWith(t, "q1")
	rows := strings.Join([]string{
		"q1\tsseq1\t95\t100\t0\t0\t1\t100\t1\t100\t1e-30\t200\t80",
		"q1\tsseq2\t90\t100\t0\t0\t1\t100\t1\t100\t1e-20\t180\t75",
	}, "\n")

	err := ParseSimilarity(store, true, "donor.dmnd", bufio.NewScanner(strings.NewReader(rows)))
	require.NoError(t, err)

	seq, ok := store.Get("q1")
	require.True(t, ok)
	assert.Equal(t, 1, seq.DonorHitCount)
	assert.Equal(t, 0, seq.RecipientHitCount)
	assert.True(t, seq.Flags.Has(model.HgtBlasted))
}

// TestDetermineCandidatesConfirmsIsolatedCandidate exercises the unambiguous
// reading of the candidate/confirmed rule: a sequence with only donor hits
// is a candidate, and is confirmed when both GFF neighbours exist, are not
// themselves candidates, and carry no more than DonorNeighborMaxHits donor
// hits.
func TestDetermineCandidatesConfirmsIsolatedCandidate(t *testing.T) {
	store := newStoreWith(t, "up", "mid", "down")
	up, _ := store.Get("up")
	mid, _ := store.Get("mid")
	down, _ := store.Get("down")

	midIdx, _ := store.IndexOf("mid")
	upIdx, _ := store.IndexOf("up")
	downIdx, _ := store.IndexOf("down")
	up.Downstream = midIdx
	mid.Upstream = upIdx
	mid.Downstream = downIdx
	down.Upstream = midIdx

	mid.DonorHitCount = 2
	mid.RecipientHitCount = 0

	spec := &runspec.Spec{DonorMinHits: 1, DonorNeighborMaxHits: 0}
	warnings := DetermineCandidates(store, spec)
	assert.Empty(t, warnings)

	assert.True(t, mid.Flags.Has(model.HgtCandidate))
	assert.True(t, mid.Flags.Has(model.HgtConfirmed))
	assert.False(t, up.Flags.Has(model.HgtCandidate))
	assert.False(t, down.Flags.Has(model.HgtCandidate))
}

func TestDetermineCandidatesRejectsWhenNeighbourIsCandidate(t *testing.T) {
	store := newStoreWith(t, "up", "mid")
	up, _ := store.Get("up")
	mid, _ := store.Get("mid")
	upIdx, _ := store.IndexOf("up")
	midIdx, _ := store.IndexOf("mid")
	up.Downstream = midIdx
	mid.Upstream = upIdx

	up.DonorHitCount = 1
	mid.DonorHitCount = 1

	spec := &runspec.Spec{DonorMinHits: 1, DonorNeighborMaxHits: 0}
	DetermineCandidates(store, spec)

	assert.True(t, up.Flags.Has(model.HgtCandidate))
	assert.True(t, mid.Flags.Has(model.HgtCandidate))
	assert.False(t, mid.Flags.Has(model.HgtConfirmed))
}

// TestDetermineCandidatesExcludesHitsAgainstEveryDonorDatabase reproduces
// ModHorizontalGeneTransferDiamond.cpp:503's "query_donor_ct < mDonorDatabaseCt"
// gate: a sequence hitting all configured donor databases (and no
// recipient database) is not eligible, even though its donor hit count
// clears DonorMinHits.
func TestDetermineCandidatesExcludesHitsAgainstEveryDonorDatabase(t *testing.T) {
	store := newStoreWith(t, "solo")
	solo, _ := store.Get("solo")
	solo.DonorHitCount = 2
	solo.RecipientHitCount = 0

	spec := &runspec.Spec{
		DonorMinHits:      1,
		HgtDonorDatabases: []string{"donor1.dmnd", "donor2.dmnd"},
	}
	warnings := DetermineCandidates(store, spec)
	assert.Empty(t, warnings)
	assert.False(t, solo.Flags.Has(model.HgtCandidate))
}

func TestDetermineCandidatesDiscardsMissingNeighbour(t *testing.T) {
	store := newStoreWith(t, "solo")
	solo, _ := store.Get("solo")
	solo.DonorHitCount = 1

	spec := &runspec.Spec{DonorMinHits: 1, DonorNeighborMaxHits: 0}
	warnings := DetermineCandidates(store, spec)

	assert.True(t, solo.Flags.Has(model.HgtCandidate))
	assert.False(t, solo.Flags.Has(model.HgtConfirmed))
	assert.Len(t, warnings, 1)
}
