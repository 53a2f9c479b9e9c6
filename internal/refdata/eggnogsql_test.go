// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEggnogDB(t *testing.T) *EggnogSQL {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)

	stmts := []string{
		`CREATE TABLE version (version TEXT)`,
		`INSERT INTO version (version) VALUES ('5.0')`,
		`CREATE TABLE member (name TEXT, groups TEXT, orthoindex TEXT)`,
		`INSERT INTO member (name, groups, orthoindex) VALUES ('9606.ENSP001', 'COG0001', '1,2')`,
		`CREATE TABLE event (i INTEGER, level TEXT, side1 TEXT, side2 TEXT)`,
		`INSERT INTO event (i, level, side1, side2) VALUES (1, 'euNOG', '9606.ENSP001', '10090.ENSP002')`,
		`INSERT INTO event (i, level, side1, side2) VALUES (2, 'NOG', '9606.ENSP001', '10090.ENSP002,7227.ENSP003')`,
		`CREATE TABLE eggnog_or_member (name TEXT, pname TEXT, go TEXT, kegg TEXT)`,
		`INSERT INTO eggnog_or_member (name, pname, go, kegg) VALUES ('10090.ENSP002', 'geneA', 'GO:0008150', 'K00001')`,
		`INSERT INTO eggnog_or_member (name, pname, go, kegg) VALUES ('7227.ENSP003', 'geneA', 'GO:0009987', 'K00002')`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err)
	}
	return &EggnogSQL{db: db, memberTable: "member"}
}

func TestEggnogSQLWalk(t *testing.T) {
	e := newTestEggnogDB(t)
	defer e.Close()

	groups, err := e.MemberOGs("9606.ENSP001")
	require.NoError(t, err)
	assert.Equal(t, "COG0001", groups)

	indexes, err := e.EventIndexes("9606.ENSP001")
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{1, 2}, indexes)

	levels := TargetLevels("euNOG")
	assert.Contains(t, levels, "euNOG")
	assert.Contains(t, levels, "NOG")
	assert.NotContains(t, levels, "apiNOG")

	events, err := e.Events(indexes, levels)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, OneToOne, Classify(events[0]))
	assert.Equal(t, OneToMany, Classify(events[1]))

	goUnion, keggUnion, predicted, err := e.Annotations([]string{"10090.ENSP002", "7227.ENSP003"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"GO:0008150", "GO:0009987"}, goUnion)
	assert.ElementsMatch(t, []string{"K00001", "K00002"}, keggUnion)
	assert.Equal(t, "geneA", predicted)
}

func TestTargetLevelsUnknownScope(t *testing.T) {
	assert.Nil(t, TargetLevels("notAScope"))
}

func TestSplitSide(t *testing.T) {
	sides := SplitSide("9606.ENSP001,10090.ENSP002")
	require.Len(t, sides, 2)
	assert.Equal(t, "9606", sides[0].TaxID)
	assert.Equal(t, "ENSP001", sides[0].ID)
}
