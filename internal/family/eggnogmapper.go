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
	"github.com/harta55/entap/internal/runspec"
)

// eggnogMapperColumns is the 21-column layout: "#query, seed_ortholog,
// evalue, score, eggNOG_OGs, max_annot_lvl, COG_category, Description,
// Preferred_name, GOs, EC, KEGG_ko, KEGG_Pathway, KEGG_Module,
// KEGG_Reaction, KEGG_rclass, BRITE, KEGG_TC, CAZy, BiGG_Reaction, PFAMs".
const eggnogMapperColumns = 21

// ParseEggnogMapper ingests an emapper.py annotations TSV (the "EggNOG-
// Mapper path"), attaching one EggnogHit per row to its owning QuerySequence
// and folding every resolved GO term into the sequence's GoTerms map. Lines
// starting with '#' (including the header) are skipped.
func ParseEggnogMapper(store *querystore.QueryStore, spec *runspec.Spec, goGraph *refdata.GoGraph, databasePath string, r *bufio.Scanner) error {
	lineNo := 0
	for r.Scan() {
		lineNo++
		line := r.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < eggnogMapperColumns {
			return &entaperr.ParseError{
				File: databasePath, Line: lineNo,
				Reason: fmt.Sprintf("expected %d tab-separated columns, got %d", eggnogMapperColumns, len(fields)),
			}
		}

		queryID := fields[0]
		seq, ok := store.Get(queryID)
		if !ok {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: fmt.Sprintf("unknown query id %q", queryID)}
		}

		evalue, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "evalue: " + err.Error()}
		}
		score, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "score: " + err.Error()}
		}

		memberOGs := fields[4]
		groups := alignment.ParseMemberOGs(memberOGs)
		_, readable := refdata.ReadableScope(groups)

		var parsedGO []model.GoEntry
		if goGraph != nil {
			parsedGO = goGraph.FormatGoDelim(fields[9], ",")
		}

		hit := alignment.EggnogHit{
			SeedOrtholog:     fields[1],
			SeedEValue:       evalue,
			SeedScore:        score,
			MemberOGs:        memberOGs,
			TaxScopeLvlMax:   fields[5],
			TaxScopeReadable: readable,
			COGCategory:      fields[6],
			COGDescription:   expandCOG(fields[6]),
			Description:      fields[7],
			PredictedGene:    fields[8],
			KEGG:             joinNonEmpty(";", fields[11], fields[12], fields[13], fields[14], fields[15]),
			EC:               fields[10],
			BRITE:            fields[16],
			CAZy:             fields[18],
			BiGG:             fields[19],
			ProteinDomains:   fields[20],
			ParsedGO:         parsedGO,
		}
		if spec.EggnogContamAnalysis {
			hit.IsContaminant = matchesTag(readable, spec.ContaminantTags)
		}

		built := alignment.NewEggnogHit(seq, databasePath, hit)
		key := model.AlignmentKey{Stage: model.StageGeneFamily, Tool: "eggnog_mapper", Database: databasePath}
		seq.Bucket(key).Add(model.Alignment(built))
		seq.Flags = seq.Flags.Set(model.FamilyAssigned)
		if hit.IsContaminant {
			seq.Flags = seq.Flags.Set(model.FamilyContam)
		}
		seq.RecomputeContaminant()
		addGoTerms(seq, parsedGO)
	}
	if err := r.Err(); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoRead, Path: databasePath, Err: err}
	}
	return nil
}

// joinNonEmpty joins the non-empty, non-"-" members of fields with sep,
// matching the eggnog-mapper convention of rendering an absent KEGG
// sub-field as a literal "-".
func joinNonEmpty(sep string, fields ...string) string {
	var out []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" || f == "-" {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, sep)
}

// matchesTag reports whether value case-insensitively equals or contains any
// of tags, mirroring internal/simsearch's plain substring rule since P7
// gives tax_scope_readable contaminant matching the same shape as the
// SimSearch lineage check.
func matchesTag(value string, tags []string) bool {
	if value == "" {
		return false
	}
	lower := strings.ToLower(value)
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && strings.Contains(lower, tag) {
			return true
		}
	}
	return false
}
