// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package family

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/refdata"
	"github.com/harta55/entap/internal/runspec"
)

func newStoreWith(t *testing.T, ids ...string) *querystore.QueryStore {
	t.Helper()
	var b strings.Builder
	for _, id := range ids {
		b.WriteString(">" + id + "\nMKV\n")
	}
	s := querystore.New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(b.String()), false))
	return s
}

func TestParseEggnogMapperRow(t *testing.T) {
	store := newStoreWith(t, "q1")
	goGraph, err := refdata.NewGoGraph(strings.NewReader("GO:0008150\tbiological_process\tbiological_process\t\n"))
	require.NoError(t, err)
	spec := &runspec.Spec{EggnogContamAnalysis: true, ContaminantTags: []string{"bacteria"}}

	row := strings.Join([]string{
		"q1", "9606.ENSP00000123", "1e-50", "200",
		"2CN31@1|root,38H0C@2759|Eukaryota", "euNOG", "JK",
		"some description", "genX", "GO:0008150", "EC1", "ko1", "path1",
		"mod1", "reac1", "rclass1", "brite1", "tc1", "cazy1", "bigg1", "pfam1",
	}, "\t")

	err = ParseEggnogMapper(store, spec, goGraph, "eggnog.dmnd", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)

	seq, ok := store.Get("q1")
	require.True(t, ok)
	assert.True(t, seq.Flags.Has(model.FamilyAssigned))

	best, ok := seq.BestOverall()
	require.True(t, ok)
	readable, _ := best.Get(model.HeaderTaxScope, 0)
	assert.Equal(t, "Eukaryota", readable)
	cog, _ := best.Get(model.HeaderCOGDescription, 0)
	assert.Contains(t, cog, "Transcription")
	assert.Contains(t, seq.GoTerms, "GO:0008150")
}

func TestParseEggnogMapperSkipsComments(t *testing.T) {
	store := newStoreWith(t, "q1")
	spec := &runspec.Spec{}
	header := "#query\tseed_ortholog\n"
	err := ParseEggnogMapper(store, spec, nil, "db", bufio.NewScanner(strings.NewReader(header)))
	require.NoError(t, err)
	seq, _ := store.Get("q1")
	assert.False(t, seq.Flags.Has(model.FamilyAssigned))
}

func TestParseEggnogMapperUnknownIDIsFatal(t *testing.T) {
	store := newStoreWith(t, "q1")
	spec := &runspec.Spec{}
	row := strings.Repeat("x\t", 20) + "x"
	err := ParseEggnogMapper(store, spec, nil, "db", bufio.NewScanner(strings.NewReader(row)))
	require.Error(t, err)
}

func TestExpandCOGMultiLetter(t *testing.T) {
	out := expandCOG("JK")
	assert.Contains(t, out, "Translation")
	assert.Contains(t, out, "Transcription")
}
