// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runspec"
)

func newSpec() *runspec.Spec {
	return &runspec.Spec{
		OutputFormats: []runspec.OutputFormat{
			runspec.FormatTSV,
			runspec.FormatFAA,
			runspec.FormatGoEnrichIDLen,
			runspec.FormatGoEnrichIDGo,
			runspec.FormatGoTerms,
		},
		GoLevels: []int{0},
	}
}

func TestComposerAddWritesRowAndFasta(t *testing.T) {
	root := t.TempDir()
	fs := filestore.New(root, false, runctx.NewDiscard(root))
	spec := newSpec()
	c := New(fs, spec)

	base := filepath.Join(root, "annotated")
	opened, err := c.Open(base, true)
	require.NoError(t, err)
	require.True(t, opened)

	seq := model.NewSequence("q1")
	seq.Protein = "MKVL"
	seq.Flags = seq.Flags.Set(model.IsProtein)
	seq.GoTerms["GO:0001"] = model.GoEntry{GoID: "GO:0001", Term: "metabolic process", Category: model.GoCategoryBiological, Level: model.LevelUnknown}

	require.NoError(t, c.Add(base, seq, nil, true))
	require.NoError(t, c.Close(base))

	tsv, err := os.ReadFile(base + ".tsv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(tsv), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], "q1")

	faa, err := os.ReadFile(base + ".faa")
	require.NoError(t, err)
	assert.Contains(t, string(faa), ">q1")
	assert.Contains(t, string(faa), "MKVL")

	goTerms, err := os.ReadFile(base + ".go_terms_0.tsv")
	require.NoError(t, err)
	assert.Contains(t, string(goTerms), "GO:0001")
	assert.Contains(t, string(goTerms), "metabolic process")
}

func TestComposerRespectsDisabledHeaders(t *testing.T) {
	root := t.TempDir()
	fs := filestore.New(root, false, runctx.NewDiscard(root))
	spec := newSpec()
	spec.EnabledHeaders = map[model.HeaderID]bool{
		model.HeaderQueryID: true,
		model.HeaderGeneID:  true,
	}
	c := New(fs, spec)
	require.Len(t, c.headers, 2)

	base := filepath.Join(root, "annotated")
	_, err := c.Open(base, false)
	require.NoError(t, err)

	header, err := os.ReadFile(base + ".tsv")
	require.NoError(t, err)
	firstLine := strings.SplitN(string(header), "\n", 2)[0]
	assert.Equal(t, "Query Sequence\tGene ID", firstLine)
	require.NoError(t, c.Close(base))
}

func TestComposerFallsBackToSequenceWhenNoAlignment(t *testing.T) {
	root := t.TempDir()
	fs := filestore.New(root, false, runctx.NewDiscard(root))
	spec := newSpec()
	spec.EnabledHeaders = map[model.HeaderID]bool{model.HeaderEffectiveLength: true}
	c := New(fs, spec)

	base := filepath.Join(root, "annotated")
	_, err := c.Open(base, true)
	require.NoError(t, err)

	seq := model.NewSequence("q1")
	seq.EffectiveLength = 123.45
	require.NoError(t, c.Add(base, seq, nil, true))
	require.NoError(t, c.Close(base))

	data, err := os.ReadFile(base + ".tsv")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, "123.45", lines[1])
}
