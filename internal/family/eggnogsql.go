// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package family

import (
	"strings"

	"github.com/harta55/entap/internal/alignment"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/refdata"
	"github.com/harta55/entap/internal/runspec"
)

// ResolveEggnogSQL runs the "EggNOG via SQL" algorithm for a single
// surviving seed ortholog (the seed of the best similarity-search hit, when
// a raw DIAMOND search against the EggNOG database is used instead of
// emapper.py), attaching the resulting EggnogHit to seq.
func ResolveEggnogSQL(seq *model.QuerySequence, spec *runspec.Spec, goGraph *refdata.GoGraph, sql *refdata.EggnogSQL, databasePath, seedOrtholog string) (*alignment.EggnogHit, error) {
	memberOGs, err := sql.MemberOGs(seedOrtholog)
	if err != nil {
		return nil, err
	}
	groups := alignment.ParseMemberOGs(memberOGs)
	code, readable := refdata.ReadableScope(groups)
	targetLevels := refdata.TargetLevels(code)

	indexes, err := sql.EventIndexes(seedOrtholog)
	if err != nil {
		return nil, err
	}
	events, err := sql.Events(indexes, targetLevels)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var orthologs []string
	for _, ev := range events {
		for _, side := range append(refdata.SplitSide(ev.Side1), refdata.SplitSide(ev.Side2)...) {
			name := sideName(side)
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			orthologs = append(orthologs, name)
		}
	}

	goUnion, keggUnion, predictedGene, err := sql.Annotations(orthologs)
	if err != nil {
		return nil, err
	}

	var parsedGO []model.GoEntry
	if goGraph != nil && len(goUnion) > 0 {
		parsedGO = goGraph.FormatGoDelim(strings.Join(goUnion, ","), ",")
	}

	hit := alignment.EggnogHit{
		SeedOrtholog:     seedOrtholog,
		MemberOGs:        memberOGs,
		TaxScopeLvlMax:   code,
		TaxScopeReadable: readable,
		KEGG:             strings.Join(keggUnion, ";"),
		PredictedGene:    predictedGene,
		ParsedGO:         parsedGO,
	}
	if spec.EggnogContamAnalysis {
		hit.IsContaminant = matchesTag(readable, spec.ContaminantTags)
	}

	built := alignment.NewEggnogHit(seq, databasePath, hit)
	key := model.AlignmentKey{Stage: model.StageGeneFamily, Tool: "eggnog_sql", Database: databasePath}
	seq.Bucket(key).Add(model.Alignment(built))
	seq.Flags = seq.Flags.Set(model.FamilyAssigned)
	if hit.IsContaminant {
		seq.Flags = seq.Flags.Set(model.FamilyContam)
	}
	seq.RecomputeContaminant()
	addGoTerms(seq, parsedGO)
	return built, nil
}

// sideName reconstructs the "<taxid>.<id>" form the member/orthologs
// table's name column uses, reversing refdata.SplitSide.
func sideName(s refdata.OrthologSide) string {
	if s.TaxID == "" {
		return s.ID
	}
	return s.TaxID + "." + s.ID
}
