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
	"github.com/harta55/entap/internal/refdata"
)

func TestParseInterproRow(t *testing.T) {
	store := newStoreWith(t, "q1")
	goGraph, err := refdata.NewGoGraph(strings.NewReader("GO:0005515\tprotein binding\tmolecular_function\t\n"))
	require.NoError(t, err)

	row := strings.Join([]string{
		"q1", "md5", "120", "Pfam", "PF00001", "7tm_1", "10", "100", "1.2e-30", "T", "01-01-2020",
		"IPR000276", "Rhodopsin", "GO:0005515", "REACTOME:R-HSA-123",
	}, "\t")

	err = ParseInterpro(store, goGraph, "interpro.tsv", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)

	seq, ok := store.Get("q1")
	require.True(t, ok)
	assert.True(t, seq.Flags.Has(model.FamilyAssigned))

	best, ok := seq.BestOverall()
	require.True(t, ok)
	id, _ := best.Get(model.HeaderInterproID, 0)
	assert.Equal(t, "IPR000276", id)
	assert.Contains(t, seq.GoTerms, "GO:0005515")
}

func TestParseInterproFallsBackToSignatureAccession(t *testing.T) {
	store := newStoreWith(t, "q1")
	row := strings.Join([]string{
		"q1", "md5", "120", "Pfam", "PF00001", "7tm_1", "10", "100", "1.2e-30", "T", "01-01-2020",
	}, "\t")

	err := ParseInterpro(store, nil, "interpro.tsv", bufio.NewScanner(strings.NewReader(row)))
	require.NoError(t, err)

	seq, _ := store.Get("q1")
	best, ok := seq.BestOverall()
	require.True(t, ok)
	id, _ := best.Get(model.HeaderInterproID, 0)
	assert.Equal(t, "PF00001", id)
}

func TestParseInterproUnknownIDIsFatal(t *testing.T) {
	store := newStoreWith(t, "q1")
	row := strings.Join([]string{
		"unknown", "md5", "120", "Pfam", "PF00001", "7tm_1", "10", "100", "1.2e-30", "T", "01-01-2020",
	}, "\t")
	err := ParseInterpro(store, nil, "interpro.tsv", bufio.NewScanner(strings.NewReader(row)))
	require.Error(t, err)
}
