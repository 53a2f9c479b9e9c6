// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package family

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/harta55/entap/internal/alignment"
	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/refdata"
)

// interproBaseColumns is InterProScan's standard TSV layout: protein
// accession, sequence MD5, sequence length, analysis (member database),
// signature accession, signature description, start, stop, score,
// status, date. Four further columns (InterPro accession, InterPro
// description, GO annotations, pathways annotations) are appended only
// when InterProScan is run with --goterms/--pathways and are treated as
// optional here.
const interproBaseColumns = 11

// ParseInterpro ingests an InterProScan TSV file, attaching one InterproHit
// per row to its owning QuerySequence ("ingests... InterPro... outputs";:
// "InterproHit... analogous typed fields" to EggnogHit/BuscoHit).
func ParseInterpro(store *querystore.QueryStore, goGraph *refdata.GoGraph, databasePath string, r *bufio.Scanner) error {
	lineNo := 0
	for r.Scan() {
		lineNo++
		line := r.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < interproBaseColumns {
			return &entaperr.ParseError{
				File: databasePath, Line: lineNo,
				Reason: fmt.Sprintf("expected at least %d tab-separated columns, got %d", interproBaseColumns, len(fields)),
			}
		}

		queryID := fields[0]
		seq, ok := store.Get(queryID)
		if !ok {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: fmt.Sprintf("unknown query id %q", queryID)}
		}

		score := 0.0
		if raw := strings.TrimSpace(fields[8]); raw != "" && raw != "-" {
			var err error
			if score, err = strconv.ParseFloat(raw, 64); err != nil {
				return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "score: " + err.Error()}
			}
		}

		hit := alignment.InterproHit{
			EValue:         score,
			InterproDescID: optionalField(fields, 11, fields[4]),
			DatabaseDescID: fields[5],
			DatabaseType:   fields[3],
		}
		if len(fields) > 14 {
			hit.Pathways = fields[14]
		}
		if goGraph != nil && len(fields) > 13 && fields[13] != "" && fields[13] != "-" {
			hit.ParsedGO = goGraph.FormatGoDelim(fields[13], "|")
		}

		built := alignment.NewInterproHit(seq, databasePath, hit)
		key := model.AlignmentKey{Stage: model.StageGeneFamily, Tool: "interproscan", Database: databasePath}
		seq.Bucket(key).Add(model.Alignment(built))
		seq.Flags = seq.Flags.Set(model.FamilyAssigned)
		addGoTerms(seq, hit.ParsedGO)
	}
	if err := r.Err(); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoRead, Path: databasePath, Err: err}
	}
	return nil
}

// optionalField returns fields[i] when present and not a "-" placeholder,
// otherwise fallback.
func optionalField(fields []string, i int, fallback string) string {
	if i >= len(fields) {
		return fallback
	}
	v := strings.TrimSpace(fields[i])
	if v == "" || v == "-" {
		return fallback
	}
	return v
}
