// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package simsearch

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
		b.WriteString(">" + id + "\nATGACGATGACG\n")
	}
	s := querystore.New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(b.String()), false))
	return s
}

func TestExtractSpeciesUniprotPattern(t *testing.T) {
	assert.Equal(t, "Homo sapiens", extractSpecies("Some protein OS=Homo sapiens GN=X PE=1 SV=1"))
}

func TestExtractSpeciesNCBIPattern(t *testing.T) {
	assert.Equal(t, "Homo sapiens", extractSpecies("hypothetical protein [Homo sapiens]"))
}

func TestParseFileSingleNonContaminant(t *testing.T) {
	store := newStoreWith(t, "q1")
	tax, err := refdata.NewTaxonomy(strings.NewReader("9606\thomo sapiens\tcellular organisms;Eukaryota;Metazoa;Homo sapiens\n"))
	require.NoError(t, err)

	spec := &runspec.Spec{TargetLineage: "cellular organisms;Eukaryota;Metazoa;Homo sapiens"}
	p := NewParser(store, spec, tax, nil)

	row := "q1\tsp|P01111\t95.1\t100\t2\t0\t1\t100\t1\t100\t1e-50\t200\t80\tOS=Homo sapiens GN=X PE=1 SV=1"
	_, err = p.ParseFile(model.StageSimilaritySearch, "diamond", "swissprot", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)

	seq, ok := store.Get("q1")
	require.True(t, ok)
	best, ok := seq.BestOverall()
	require.True(t, ok)
	species, ok := best.Get(model.HeaderSpecies, 0)
	require.True(t, ok)
	assert.Equal(t, "Homo sapiens", species)

	contam, _ := best.Get(model.HeaderContaminant, 0)
	assert.Equal(t, "No", contam)
	assert.False(t, seq.Flags.Has(model.Contaminant))

	taxScore, _ := best.Get(model.HeaderTaxScore, 0)
	assert.NotEqual(t, "0.000", taxScore)
}

func TestParseFileContaminantDetection(t *testing.T) {
	store := newStoreWith(t, "q1")
	tax, err := refdata.NewTaxonomy(strings.NewReader("562\tescherichia coli\tcellular organisms;Bacteria;Proteobacteria\n"))
	require.NoError(t, err)

	spec := &runspec.Spec{
		TargetLineage:   "cellular organisms;Eukaryota",
		ContaminantTags: []string{"bacteria"},
	}
	p := NewParser(store, spec, tax, nil)

	row := "q1\tsp|P99999\t80.0\t50\t1\t0\t1\t50\t1\t50\t1e-10\t90\t60\tOS=Escherichia coli GN=Y"
	_, err = p.ParseFile(model.StageSimilaritySearch, "diamond", "swissprot", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)

	seq, ok := store.Get("q1")
	require.True(t, ok)
	assert.True(t, seq.Flags.Has(model.Contaminant))
	assert.True(t, seq.Flags.Has(model.SimSearchContam))
}

func TestParseFileUnknownQueryIDIsFatal(t *testing.T) {
	store := newStoreWith(t, "q1")
	spec := &runspec.Spec{}
	p := NewParser(store, spec, nil, nil)

	row := "missing\tsp|P0\t80.0\t50\t1\t0\t1\t50\t1\t50\t1e-10\t90\t60\thypothetical protein [Mus musculus]"
	_, err := p.ParseFile(model.StageSimilaritySearch, "diamond", "swissprot", bufio.NewScanner(strings.NewReader(row)))
	require.Error(t, err)
}

func TestParseFileDetectsUniprotWithinAttempts(t *testing.T) {
	store := newStoreWith(t, "q1")
	graph, err := refdata.NewGoGraph(strings.NewReader(""))
	require.NoError(t, err)
	uni, err := refdata.NewUniprot(strings.NewReader("P01111\tGO;KEGG\tko:K1\tsome comment\t\n"), graph)
	require.NoError(t, err)

	spec := &runspec.Spec{}
	p := NewParser(store, spec, nil, uni)

	row := "q1\tP01111\t95.1\t100\t2\t0\t1\t100\t1\t100\t1e-50\t200\t80\tOS=Homo sapiens GN=X"
	toggle, err := p.ParseFile(model.StageSimilaritySearch, "diamond", "swissprot", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)
	assert.True(t, toggle.Enable)
	assert.Contains(t, toggle.Headers, model.HeaderUniprotKEGG)

	seq, _ := store.Get("q1")
	best, _ := seq.BestOverall()
	xref, ok := best.Get(model.HeaderUniprotXRef, 0)
	require.True(t, ok)
	assert.Equal(t, "GO;KEGG", xref)
}

func TestParseFileAttachesEntrezGeneIDWhenLineageUnresolved(t *testing.T) {
	store := newStoreWith(t, "q1")
	spec := &runspec.Spec{}
	// No taxonomy lookup (tax=nil), so hit.Lineage stays empty and the Entrez
	// fallback is consulted.
	p := NewParser(store, spec, nil, nil)
	p.SetGeneIDs(map[string]string{"XP_014245616.1": "112233"})

	row := "q1\tXP_014245616.1\t95.1\t100\t2\t0\t1\t100\t1\t100\t1e-50\t200\t80\tsome hypothetical protein [Mus musculus]"
	toggle, err := p.ParseFile(model.StageSimilaritySearch, "diamond", "refseq", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)
	assert.True(t, toggle.Enable)
	assert.Contains(t, toggle.Headers, model.HeaderNCBIGeneID)

	seq, _ := store.Get("q1")
	best, _ := seq.BestOverall()
	geneID, ok := best.Get(model.HeaderNCBIGeneID, 0)
	require.True(t, ok)
	assert.Equal(t, "112233", geneID)
}

func TestParseFileSkipsEntrezWhenLineageResolved(t *testing.T) {
	store := newStoreWith(t, "q1")
	tax, err := refdata.NewTaxonomy(strings.NewReader("9606\tHomo sapiens\tcellular organisms;Eukaryota;Metazoa;Chordata;Mammalia;Primates;Hominidae;Homo;Homo sapiens\n"))
	require.NoError(t, err)
	spec := &runspec.Spec{}
	p := NewParser(store, spec, tax, nil)
	p.SetGeneIDs(map[string]string{"P01111": "999"})

	row := "q1\tP01111\t95.1\t100\t2\t0\t1\t100\t1\t100\t1e-50\t200\t80\tOS=Homo sapiens GN=X"
	toggle, err := p.ParseFile(model.StageSimilaritySearch, "diamond", "swissprot", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)
	assert.False(t, toggle.Enable)

	seq, _ := store.Get("q1")
	best, _ := seq.BestOverall()
	_, ok := best.Get(model.HeaderNCBIGeneID, 0)
	assert.False(t, ok)
}
