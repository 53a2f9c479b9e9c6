// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hgt implements the HGT-specific neighbour logic of the stage
// executor (supplemented feature 4): GFF ingest to link upstream/downstream
// QuerySequence neighbours, multi-database donor/recipient similarity-search
// voting, and the candidate/confirmed determination the worked scenario 6
// describes.
package hgt

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/querystore"
)

// gffColumns is the minimal GFF3 column count needed to reach the attributes
// column ("for every line whose feature column (index 2) is mRNA or
// transcript, the record id is parsed between ID= and;").
const gffColumns = 9

// ParseGFF reads a tab-delimited GFF file and returns, in file order, the id
// of every mRNA/transcript feature. Parsing is hand-rolled against the exact
// textual rule rather than the reference
// github.com/biogo/biogo/io/featio/gff, whose Read side has no observed
// usage anywhere in the example pack (the reference implementation only ever
// writes GFF, in cmd/ins/main.go) and whose Feature/Attributes model does
// not map cleanly onto a single-pass "find ID= between the = and the next;"
// extraction.
func ParseGFF(r *bufio.Scanner) ([]string, error) {
	var ids []string
	lineNo := 0
	for r.Scan() {
		lineNo++
		line := r.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < gffColumns {
			continue
		}
		feature := fields[2]
		if feature != "mRNA" && feature != "transcript" {
			continue
		}
		id, ok := extractID(fields[8])
		if !ok {
			return nil, &entaperr.ParseError{File: "<gff>", Line: lineNo, Reason: fmt.Sprintf("no ID= attribute in %q", fields[8])}
		}
		ids = append(ids, id)
	}
	if err := r.Err(); err != nil {
		return nil, &entaperr.IoError{Kind: entaperr.IoRead, Path: "<gff>", Err: err}
	}
	return ids, nil
}

func extractID(attrs string) (string, bool) {
	i := strings.Index(attrs, "ID=")
	if i < 0 {
		return "", false
	}
	rest := attrs[i+len("ID="):]
	if j := strings.IndexByte(rest, ';'); j >= 0 {
		return rest[:j], true
	}
	return rest, true
}

// LinkNeighbours establishes Upstream/Downstream arena-index links on every
// QuerySequence whose id appears in ids, in the relative order ids gives
// them ("consecutive records establish upstream/downstream links on the
// matching QuerySequences in input order within the file"). ids not present
// in store are skipped rather than breaking the chain.
func LinkNeighbours(store *querystore.QueryStore, ids []string) {
	var matched []int
	for _, id := range ids {
		if idx, ok := store.IndexOf(id); ok {
			matched = append(matched, idx)
		}
	}
	for i, idx := range matched {
		seq := store.At(idx)
		if i > 0 {
			seq.Upstream = matched[i-1]
		}
		if i < len(matched)-1 {
			seq.Downstream = matched[i+1]
		}
	}
}
