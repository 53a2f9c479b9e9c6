// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniprotEntry(t *testing.T) {
	g, err := NewGoGraph(strings.NewReader(testGoTable))
	require.NoError(t, err)

	table := "P12345\tPDB:1ABC;InterPro:IPR000001\tK00001;K00002\tsome comment\tGO:0008150,GO:0009987\n"
	u, err := NewUniprot(strings.NewReader(table), g)
	require.NoError(t, err)

	p, ok := u.UniprotEntry("P12345")
	require.True(t, ok)
	assert.Equal(t, []string{"PDB:1ABC", "InterPro:IPR000001"}, p.DatabaseXRefs)
	assert.Len(t, p.GOBiological, 2)

	_, ok = u.UniprotEntry("Q99999")
	assert.False(t, ok)
}
