// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package querystore

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/model"
)

func TestLoadFASTANucleotide(t *testing.T) {
	const fa = ">q1 some description\nATGACGATGACG\nATG\n>q2\nATGACG\n"
	s := New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(fa), false))

	assert.Equal(t, 2, s.Len())
	assert.False(t, s.IsProtein())

	q1, ok := s.Get("q1")
	require.True(t, ok)
	assert.Equal(t, "ATGACGATGACGATG", q1.Nucleotide)
	assert.Equal(t, 15, q1.LengthBP)

	q2, ok := s.Get("q2")
	require.True(t, ok)
	assert.Equal(t, "ATGACG", q2.Nucleotide)
}

func TestLoadFASTAProtein(t *testing.T) {
	const fa = ">p1\nMKVLWAALLVTFLAGCQAKVE\n"
	s := New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(fa), false))
	assert.True(t, s.IsProtein())

	q1, ok := s.Get("p1")
	require.True(t, ok)
	assert.Equal(t, "MKVLWAALLVTFLAGCQAKVE", q1.Protein)
	assert.True(t, q1.Flags.Has(model.IsProtein))
}

func TestLoadFASTADuplicateIDIsFatal(t *testing.T) {
	const fa = ">q1\nATG\n>q1\nATG\n"
	s := New()
	err := s.LoadFASTA(strings.NewReader(fa), false)
	require.Error(t, err)
}

func TestHeaderTrimRules(t *testing.T) {
	const fa = ">q1 extra description here\nATG\n"
	trimmed := New()
	require.NoError(t, trimmed.LoadFASTA(strings.NewReader(fa), false))
	_, ok := trimmed.Get("q1")
	assert.True(t, ok)

	untrimmed := New()
	require.NoError(t, untrimmed.LoadFASTA(strings.NewReader(fa), true))
	_, ok = untrimmed.Get("q1extradescriptionhere")
	assert.True(t, ok)
}

func TestSummaryN50N90(t *testing.T) {
	// lengths 100,90,10; total 200. N50 threshold 100: cum 100 not >100,
	// cum 190 >100 -> N50=90. N90 threshold 180: cum190>180 -> N90=90.
	fa := ">a\n" + strings.Repeat("A", 100) + "\n" +
		">b\n" + strings.Repeat("A", 90) + "\n" +
		">c\n" + strings.Repeat("A", 10) + "\n"
	s := New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(fa), false))
	sum := s.Summary()
	assert.Equal(t, 3, sum.Count)
	assert.Equal(t, 200, sum.TotalLength)
	assert.Equal(t, 100, sum.Max)
	assert.Equal(t, 10, sum.Min)
	assert.Equal(t, 90, sum.N50)
	assert.Equal(t, 90, sum.N90)
}

func TestFilterAndCountWhere(t *testing.T) {
	s := New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(">a\nATG\n>b\nATG\n"), false))
	a, _ := s.Get("a")
	a.Flags = a.Flags.Set(model.ExpressionKept)

	assert.Equal(t, 1, s.CountWhere(model.ExpressionKept))
	kept := s.Filter(model.ExpressionKept)
	require.Len(t, kept, 1)
	assert.Equal(t, "a", kept[0].ID)
}

func TestArenaIndices(t *testing.T) {
	s := New()
	require.NoError(t, s.LoadFASTA(strings.NewReader(">a\nATG\n>b\nATG\n"), false))
	ia, ok := s.IndexOf("a")
	require.True(t, ok)
	ib, ok := s.IndexOf("b")
	require.True(t, ok)

	a := s.At(ia)
	a.Downstream = ib
	assert.Same(t, s.At(a.Downstream), s.At(ib))
	assert.Nil(t, s.At(-1))
}
