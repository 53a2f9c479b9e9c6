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

	"github.com/harta55/entap/internal/alignment"
	"github.com/harta55/entap/internal/model"
)

func TestParseBuscoFullTableCompleteRow(t *testing.T) {
	store := newStoreWith(t, "q1")
	table := "10663at33208\tComplete\tq1\t205.4\t412\n"

	result, err := ParseBuscoFullTable(store, "busco_db", bufio.NewScanner(strings.NewReader(table)))
	require.NoError(t, err)
	assert.Empty(t, result.Missing)

	seq, ok := store.Get("q1")
	require.True(t, ok)
	best, ok := seq.BestOverall()
	require.True(t, ok)
	status, _ := best.Get(model.HeaderBuscoStatus, 0)
	assert.Equal(t, alignment.BuscoComplete.String(), status)
}

func TestParseBuscoFullTableMissingRow(t *testing.T) {
	store := newStoreWith(t, "q1")
	table := "10664at33208\tMissing\n"

	result, err := ParseBuscoFullTable(store, "busco_db", bufio.NewScanner(strings.NewReader(table)))
	require.NoError(t, err)
	assert.Equal(t, []string{"10664at33208"}, result.Missing)
}

func TestParseBuscoFullTableIgnoresComments(t *testing.T) {
	store := newStoreWith(t, "q1")
	table := "# BUSCO full table\n# complete\n10663at33208\tComplete\tq1\t205.4\t412\n"

	result, err := ParseBuscoFullTable(store, "busco_db", bufio.NewScanner(strings.NewReader(table)))
	require.NoError(t, err)
	assert.Empty(t, result.Missing)
}

func TestParseBuscoFullTableUnknownIDIsFatal(t *testing.T) {
	store := newStoreWith(t, "q1")
	table := "10663at33208\tComplete\tunknown\t205.4\t412\n"
	_, err := ParseBuscoFullTable(store, "busco_db", bufio.NewScanner(strings.NewReader(table)))
	require.Error(t, err)
}

func TestParseBuscoFullTableCollapsesPaddedWhitespace(t *testing.T) {
	store := newStoreWith(t, "q1")
	table := "10663at33208    Complete    q1    205.4    412\n"
	result, err := ParseBuscoFullTable(store, "busco_db", bufio.NewScanner(strings.NewReader(table)))
	require.NoError(t, err)
	assert.Empty(t, result.Missing)
	seq, ok := store.Get("q1")
	require.True(t, ok)
	_, ok = seq.BestOverall()
	require.True(t, ok)
}
