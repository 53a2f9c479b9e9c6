// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/harta55/entap/internal/entaperr"
)

// eggnogTaxScopes is the fixed outer -> inner taxonomic-resolution list
// walked by the EggNOG-mapper path to derive tax_scope_readable, and is also
// the full transitive closure table consulted by EggnogSQL.TargetLevels for
// the SQL path.
var eggnogTaxScopes = []string{
	"apiNOG", "virNOG", "nemNOG", "artNOG", "maNOG", "fiNOG",
	"aveNOG", "meNOG", "fuNOG", "opiNOG", "euNOG", "arNOG", "bactNOG", "NOG",
}

// EggnogSQL wraps a read-only handle to the EggNOG-mapper reference SQL
// database, implementing the query sequence in the "EggNOG via SQL" path.
// Queries are serialised at the handle ("the reference SQL database (shared
// read-only handle, queries are serialised at the handle)").
type EggnogSQL struct {
	db            *sql.DB
	memberTable   string
	schemaVersion string
}

// OpenEggnogSQL opens path as a read-only SQLite database and detects the
// schema version and membership table name ("Database schema version
// detection is performed once from the version table and gates... the
// membership table name (member vs orthologs)").
func OpenEggnogSQL(path string) (*EggnogSQL, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: path, Err: err}
	}
	e := &EggnogSQL{db: db, memberTable: "member"}

	var version string
	row := db.QueryRow(`SELECT version FROM version LIMIT 1`)
	if err := row.Scan(&version); err == nil {
		e.schemaVersion = version
	}
	if hasOrthologsTable(db) {
		e.memberTable = "orthologs"
	}
	return e, nil
}

func hasOrthologsTable(db *sql.DB) bool {
	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='orthologs'`).Scan(&name)
	return err == nil
}

// Close releases the underlying handle.
func (e *EggnogSQL) Close() error { return e.db.Close() }

// SchemaVersion is the detected `version` table value, or "" if absent.
func (e *EggnogSQL) SchemaVersion() string { return e.schemaVersion }

// MemberOGs implements step 1 of the SQL path: `member_ogs:= SELECT groups
// FROM member WHERE name = seed_ortholog`.
func (e *EggnogSQL) MemberOGs(seedOrtholog string) (string, error) {
	query := fmt.Sprintf(`SELECT groups FROM %s WHERE name = ?`, e.memberTable)
	var groups string
	err := e.db.QueryRow(query, seedOrtholog).Scan(&groups)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: seedOrtholog, Err: err}
	}
	return groups, nil
}

// TargetLevels resolves the full transitive closure of readable scope from
// eggnogTaxScopes, per step 2: every scope at or "inside" readableScope in
// the outer->inner ordering.
func TargetLevels(readableScope string) []string {
	idx := -1
	for i, s := range eggnogTaxScopes {
		if strings.EqualFold(s, readableScope) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	return append([]string(nil), eggnogTaxScopes[idx:]...)
}

// scopeNames maps an eggnogTaxScopes code to the human-readable clade name
// attached to the matching member_ogs group ("a readable name is obtained
// from a static {code -> name} table").
var scopeNames = map[string]string{
	"apiNOG":  "Apicomplexa",
	"virNOG":  "Viruses",
	"nemNOG":  "Nematoda",
	"artNOG":  "Arthropoda",
	"maNOG":   "Mammalia",
	"fiNOG":   "Fishes",
	"aveNOG":  "Aves",
	"meNOG":   "Metazoa",
	"fuNOG":   "Fungi",
	"opiNOG":  "Opisthokonta",
	"euNOG":   "Eukaryota",
	"arNOG":   "Archaea",
	"bactNOG": "Bacteria",
	"NOG":     "root",
}

// ReadableScope implements the EggNOG-mapper tax_scope_readable derivation:
// walk eggnogTaxScopes outer->inner and return the first scope whose
// readable name appears as a member_ogs group's clade name. groups is the
// [og, taxid, name] triple list ParseMemberOGs returns.
func ReadableScope(groups [][3]string) (code, readable string) {
	for _, scope := range eggnogTaxScopes {
		name := scopeNames[scope]
		for _, g := range groups {
			if strings.EqualFold(strings.TrimSpace(g[2]), name) {
				return scope, name
			}
		}
	}
	return "", ""
}

// EventIndexes implements step 3: `event_indexes:= SELECT orthoindex FROM
// member WHERE name = seed_ortholog`. Each orthoindex value is a
// comma-separated list of event indexes, split and parsed here.
func (e *EggnogSQL) EventIndexes(seedOrtholog string) ([]int, error) {
	query := fmt.Sprintf(`SELECT orthoindex FROM %s WHERE name = ?`, e.memberTable)
	rows, err := e.db.Query(query, seedOrtholog)
	if err != nil {
		return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: seedOrtholog, Err: err}
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: seedOrtholog, Err: err}
		}
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			var idx int
			if _, err := fmt.Sscan(part, &idx); err != nil {
				return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: seedOrtholog, Err: err}
			}
			out = append(out, idx)
		}
	}
	return out, rows.Err()
}

// Event is one row of the `event` table (step 4).
type Event struct {
	Level string
	Side1 string
	Side2 string
}

// Events implements step 4: `events:= SELECT level,side1,side2 FROM event
// WHERE i IN event_indexes AND level IN target_levels`.
func (e *EggnogSQL) Events(indexes []int, levels []string) ([]Event, error) {
	if len(indexes) == 0 || len(levels) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(
		`SELECT level, side1, side2 FROM event WHERE i IN (%s) AND level IN (%s)`,
		placeholders(len(indexes)), placeholders(len(levels)),
	)
	args := make([]interface{}, 0, len(indexes)+len(levels))
	for _, i := range indexes {
		args = append(args, i)
	}
	for _, l := range levels {
		args = append(args, l)
	}
	rows, err := e.db.Query(query, args...)
	if err != nil {
		return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: "events", Err: err}
	}
	defer rows.Close()
	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.Level, &ev.Side1, &ev.Side2); err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: "events", Err: err}
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "?"
	}
	return strings.Join(parts, ",")
}

// OrthologSide classifies one side of an event by species prefix
// (`<taxid>.<id>`), per step 5.
type OrthologSide struct {
	TaxID string
	ID    string
}

// SplitSide parses a comma-separated event side ("9606.ENSP1,9606.ENSP2")
// into its per-member taxid/id pairs.
func SplitSide(side string) []OrthologSide {
	var out []OrthologSide
	for _, raw := range strings.Split(side, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		dot := strings.IndexByte(raw, '.')
		if dot < 0 {
			out = append(out, OrthologSide{ID: raw})
			continue
		}
		out = append(out, OrthologSide{TaxID: raw[:dot], ID: raw[dot+1:]})
	}
	return out
}

// OrthologKind classifies an event by the cardinality of its two sides, per
// step 5.
type OrthologKind int

const (
	OneToOne OrthologKind = iota
	OneToMany
	ManyToMany
	ManyToOne
)

// Classify buckets ev by the one-to-one / one-to-many / many-to-many /
// many-to-one distinction.
func Classify(ev Event) OrthologKind {
	n1 := len(SplitSide(ev.Side1))
	n2 := len(SplitSide(ev.Side2))
	switch {
	case n1 <= 1 && n2 <= 1:
		return OneToOne
	case n1 <= 1 && n2 > 1:
		return OneToMany
	case n1 > 1 && n2 <= 1:
		return ManyToOne
	default:
		return ManyToMany
	}
}

// Annotation is one row of the final pname/go/kegg[/bigg] union query, step
// 6.
type Annotation struct {
	Name string
	GO   []string
	KEGG []string
	BiGG []string
}

// Annotations implements step 6: `SELECT pname, go, kegg[, bigg] FROM
// eggnog_or_member WHERE name IN orthologs`, unioning GO and KEGG and
// histogramming pnames (a pname is promoted to predicted_gene iff it occurs
// >= 2 times).
func (e *EggnogSQL) Annotations(orthologs []string) (goUnion, keggUnion []string, predictedGene string, err error) {
	if len(orthologs) == 0 {
		return nil, nil, "", nil
	}
	query := fmt.Sprintf(`SELECT pname, go, kegg FROM eggnog_or_member WHERE name IN (%s)`, placeholders(len(orthologs)))
	args := make([]interface{}, len(orthologs))
	for i, o := range orthologs {
		args[i] = o
	}
	rows, qerr := e.db.Query(query, args...)
	if qerr != nil {
		return nil, nil, "", &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: "annotations", Err: qerr}
	}
	defer rows.Close()

	goSeen := make(map[string]bool)
	keggSeen := make(map[string]bool)
	nameCount := make(map[string]int)
	for rows.Next() {
		var pname, goIDs, keggIDs string
		if serr := rows.Scan(&pname, &goIDs, &keggIDs); serr != nil {
			return nil, nil, "", &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: "annotations", Err: serr}
		}
		if pname != "" {
			nameCount[pname]++
		}
		for _, g := range strings.Split(goIDs, ",") {
			g = strings.TrimSpace(g)
			if g != "" && !goSeen[g] {
				goSeen[g] = true
				goUnion = append(goUnion, g)
			}
		}
		for _, k := range strings.Split(keggIDs, ",") {
			k = strings.TrimSpace(k)
			if k != "" && !keggSeen[k] {
				keggSeen[k] = true
				keggUnion = append(keggUnion, k)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, "", &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: "annotations", Err: err}
	}

	best, bestCount := "", 1
	for name, count := range nameCount {
		if count >= 2 && count > bestCount {
			best, bestCount = name, count
		}
	}
	return goUnion, keggUnion, best, nil
}
