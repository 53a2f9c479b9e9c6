// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package family implements the family/ontology parser : it ingests
// EggNOG-mapper and EggNOG-via-SQL annotations, InterProScan TSV output and
// BUSCO's full_table.tsv, resolving each to a model.Alignment variant and,
// for EggNOG/InterPro, a set of model.GoEntry values folded into the owning
// QuerySequence's GoTerms map for enrichment output.
package family

import "github.com/harta55/entap/internal/model"

// cogDescriptions is the static COG single-letter category table walked
// character by character to expand a COG_category field ("COG abbreviations
// are expanded character by character through a static description table").
var cogDescriptions = map[byte]string{
	'J': "Translation, ribosomal structure and biogenesis",
	'A': "RNA processing and modification",
	'K': "Transcription",
	'L': "Replication, recombination and repair",
	'B': "Chromatin structure and dynamics",
	'D': "Cell cycle control, cell division, chromosome partitioning",
	'Y': "Nuclear structure",
	'V': "Defense mechanisms",
	'T': "Signal transduction mechanisms",
	'M': "Cell wall/membrane/envelope biogenesis",
	'N': "Cell motility",
	'Z': "Cytoskeleton",
	'W': "Extracellular structures",
	'U': "Intracellular trafficking, secretion, and vesicular transport",
	'O': "Posttranslational modification, protein turnover, chaperones",
	'C': "Energy production and conversion",
	'G': "Carbohydrate transport and metabolism",
	'E': "Amino acid transport and metabolism",
	'F': "Nucleotide transport and metabolism",
	'H': "Coenzyme transport and metabolism",
	'I': "Lipid transport and metabolism",
	'P': "Inorganic ion transport and metabolism",
	'Q': "Secondary metabolites biosynthesis, transport and catabolism",
	'R': "General function prediction only",
	'S': "Function unknown",
}

// expandCOG renders a (possibly multi-letter) COG_category field as a
// "; "-joined list of descriptions, skipping letters the table doesn't
// recognise.
func expandCOG(category string) string {
	var out []byte
	first := true
	for i := 0; i < len(category); i++ {
		desc, ok := cogDescriptions[category[i]]
		if !ok {
			continue
		}
		if !first {
			out = append(out, ';', ' ')
		}
		out = append(out, desc...)
		first = false
	}
	return string(out)
}

// addGoTerms folds every entry in entries into seq's GoTerms map, for
// GoEnrichIdGo/GoTerms output.
func addGoTerms(seq *model.QuerySequence, entries []model.GoEntry) {
	for _, e := range entries {
		seq.AddGoTerm(e)
	}
}
