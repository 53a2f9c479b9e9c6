// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package simsearch implements the similarity-search parser and best-hit
// selector : it ingests a DIAMOND/BLAST outformat-6 style tabular hit
// table, attaches taxonomy, contaminant and informativeness data to every
// row, lazily detects a UniProt database within the first rows of a file,
// and appends the resulting SimSearchHit alignments to their owning
// QuerySequence for the selector (internal/compair, via
// QuerySequence.Bucket) to sort.
package simsearch

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

// uniprotAttempts is the the UniProt-detection attempt limit: the number of unresolved leading
// rows tried before a database is given up on as UniProt, modeled on the
// reference implementation its the UniProt-detection attempt limit constant.
const uniprotAttempts = 15

// uniprotHeaders is folded in by a HeaderToggle once a database is detected
// as UniProt ("enable the six UniProt headers").
var uniprotHeaders = []model.HeaderID{
	model.HeaderUniprotXRef,
	model.HeaderUniprotKEGG,
	model.HeaderUniprotGOBio,
	model.HeaderUniprotGOCell,
	model.HeaderUniprotGOMole,
	model.HeaderUniprotComments,
}

// entrezHeaders is folded in by a HeaderToggle once at least one subject id
// in a file was resolved via the optional Entrez GeneID fallback.
var entrezHeaders = []model.HeaderID{
	model.HeaderNCBIGeneID,
}

// Parser holds the per-database UniProt-detection state across calls
// to ParseFile for the same database path; construct one Parser per
// database search.
type Parser struct {
	store *querystore.QueryStore
	spec  *runspec.Spec
	tax   *refdata.Taxonomy
	uni   *refdata.Uniprot

	isUniprot       bool
	uniprotAttempts int

	// geneIDs is an optional pre-fetched accession->GeneID map built by the
	// caller via a batched Entrez lookup before ParseFile runs; nil when Entrez
	// resolution is disabled.
	geneIDs map[string]string
}

// NewParser returns a Parser reading query ids from store and applying
// spec's contaminant/uninformative/target-lineage configuration. tax and uni
// may be nil, in which case lineage resolution and UniProt detection are
// skipped. Construct one Parser per database file: UniProt detection state
// (the the UniProt-detection attempt limit) is scoped to a single database, not shared across a
// run's multiple databases.
func NewParser(store *querystore.QueryStore, spec *runspec.Spec, tax *refdata.Taxonomy, uni *refdata.Uniprot) *Parser {
	return &Parser{store: store, spec: spec, tax: tax, uni: uni}
}

// SetGeneIDs attaches a pre-fetched accession->GeneID map (the Entrez
// fallback) for the next call to ParseFile to consult.
func (p *Parser) SetGeneIDs(ids map[string]string) {
	p.geneIDs = ids
}

// ParseFile ingests every row of a 14-column tabular hit file against
// databasePath under the given (stage, tool) bucket key ("qseqid, sseqid,
// pident, length, mismatch, gapopen, qstart, qend, sstart, send, evalue,
// bitscore, qcovhsp, stitle"). It returns a HeaderToggle enabling the
// UniProt headers if this call detected a UniProt database.
func (p *Parser) ParseFile(stage model.Stage, tool, databasePath string, r *bufio.Scanner) (runspec.HeaderToggle, error) {
	key := model.AlignmentKey{Stage: stage, Tool: tool, Database: databasePath}
	toggled := false
	entrezToggled := false

	lineNo := 0
	for r.Scan() {
		lineNo++
		line := r.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 14 {
			return runspec.HeaderToggle{}, &entaperr.ParseError{
				File: databasePath, Line: lineNo,
				Reason: fmt.Sprintf("expected 14 tab-separated columns, got %d", len(fields)),
			}
		}

		qseqid := fields[0]
		seq, ok := p.store.Get(qseqid)
		if !ok {
			return runspec.HeaderToggle{}, &entaperr.ParseError{
				File: databasePath, Line: lineNo,
				Reason: fmt.Sprintf("unknown query id %q", qseqid),
			}
		}

		hit, err := parseRow(fields)
		if err != nil {
			return runspec.HeaderToggle{}, &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: err.Error()}
		}

		hit.Species = extractSpecies(hit.STitle)
		if p.tax != nil {
			if entry, ok := p.tax.TaxEntry(hit.Species); ok {
				hit.Lineage = entry.Lineage
			}
		}
		hit.Contaminant, hit.ContamType = matchContaminant(hit.Lineage, p.spec.ContaminantTags)
		hit.IsInformative = isInformative(hit.STitle, p.spec.UninformativeTags)

		built := alignment.NewSimSearchHit(seq, databasePath, p.spec.TargetLineage, hit)

		if hit.Lineage == "" && p.geneIDs != nil {
			if id, ok := p.geneIDs[hit.SSeqID]; ok && id != "" {
				built.RefreshNCBIGeneID(id)
				entrezToggled = true
			}
		}

		if p.uni != nil {
			if p.isUniprot {
				if payload, ok := p.uni.UniprotEntry(hit.SSeqID); ok {
					built.RefreshUniprot(convertUniprot(payload))
				}
			} else if p.uniprotAttempts < uniprotAttempts {
				if payload, ok := p.uni.UniprotEntry(hit.SSeqID); ok {
					p.isUniprot = true
					toggled = true
					built.RefreshUniprot(convertUniprot(payload))
				} else {
					p.uniprotAttempts++
				}
			}
		}

		seq.Bucket(key).Add(model.Alignment(built))
		seq.Flags = seq.Flags.Set(model.SimHit)
		if hit.Contaminant {
			seq.Flags = seq.Flags.Set(model.SimSearchContam)
		}
		seq.RecomputeContaminant()
	}
	if err := r.Err(); err != nil {
		return runspec.HeaderToggle{}, &entaperr.IoError{Kind: entaperr.IoRead, Path: databasePath, Err: err}
	}

	switch {
	case toggled && entrezToggled:
		return runspec.HeaderToggle{Headers: append(append([]model.HeaderID{}, uniprotHeaders...), entrezHeaders...), Enable: true}, nil
	case toggled:
		return runspec.HeaderToggle{Headers: uniprotHeaders, Enable: true}, nil
	case entrezToggled:
		return runspec.HeaderToggle{Headers: entrezHeaders, Enable: true}, nil
	default:
		return runspec.HeaderToggle{}, nil
	}
}

func parseRow(fields []string) (alignment.SimSearchHit, error) {
	var hit alignment.SimSearchHit
	hit.QSeqID = fields[0]
	hit.SSeqID = fields[1]

	var err error
	if hit.PIdent, err = strconv.ParseFloat(fields[2], 64); err != nil {
		return hit, fmt.Errorf("pident: %w", err)
	}
	if hit.Length, err = strconv.Atoi(fields[3]); err != nil {
		return hit, fmt.Errorf("length: %w", err)
	}
	if hit.Mismatch, err = strconv.Atoi(fields[4]); err != nil {
		return hit, fmt.Errorf("mismatch: %w", err)
	}
	if hit.GapOpen, err = strconv.Atoi(fields[5]); err != nil {
		return hit, fmt.Errorf("gapopen: %w", err)
	}
	if hit.QStart, err = strconv.Atoi(fields[6]); err != nil {
		return hit, fmt.Errorf("qstart: %w", err)
	}
	if hit.QEnd, err = strconv.Atoi(fields[7]); err != nil {
		return hit, fmt.Errorf("qend: %w", err)
	}
	if hit.SStart, err = strconv.Atoi(fields[8]); err != nil {
		return hit, fmt.Errorf("sstart: %w", err)
	}
	if hit.SEnd, err = strconv.Atoi(fields[9]); err != nil {
		return hit, fmt.Errorf("send: %w", err)
	}
	if hit.EValue, err = strconv.ParseFloat(fields[10], 64); err != nil {
		return hit, fmt.Errorf("evalue: %w", err)
	}
	if hit.BitScore, err = strconv.ParseFloat(fields[11], 64); err != nil {
		return hit, fmt.Errorf("bitscore: %w", err)
	}
	if hit.QCovHSP, err = strconv.ParseFloat(fields[12], 64); err != nil {
		return hit, fmt.Errorf("qcovhsp: %w", err)
	}
	hit.STitle = fields[13]
	return hit, nil
}

// extractSpecies reproduces its get_species
// exactly: try the UniProt "OS=<species> XX=" pattern first, falling back to
// the NCBI bracket pattern (the last "[...]" in the title), then strip any
// stray enclosing bracket left by the fallback.
func extractSpecies(title string) string {
	species := uniprotSpecies(title)
	if species == "" {
		species = ncbiSpecies(title)
	}
	species = strings.TrimPrefix(species, "[")
	species = strings.TrimSuffix(species, "]")
	return species
}

func uniprotSpecies(title string) string {
	ind1 := strings.Index(title, "OS=")
	if ind1 < 0 {
		return ""
	}
	rest := ind1 + 3
	relEq := strings.IndexByte(title[rest:], '=')
	if relEq < 0 {
		return ""
	}
	ind2 := rest + relEq
	if ind2-ind1 <= 6 {
		return ""
	}
	end := ind2 - 3
	if end <= rest {
		return ""
	}
	return title[rest:end]
}

func ncbiSpecies(title string) string {
	ind1 := strings.LastIndexByte(title, '[')
	ind2 := strings.LastIndexByte(title, ']')
	if ind1 < 0 || ind2 < 0 || ind2 <= ind1 {
		return ""
	}
	return title[ind1+1 : ind2]
}

// isInformative implements the "∀ tag ∈ uninformative_tags: tag ∉
// lowercased(stitle)", modeled on its is_informative.
func isInformative(title string, uninformativeTags []string) bool {
	lower := strings.ToLower(title)
	for _, tag := range uninformativeTags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if strings.Contains(lower, tag) {
			return false
		}
	}
	return true
}

// matchContaminant implements the "∃ tag ∈ contaminant_tags: tag is a
// substring of lowercased(lineage)", modeled on its is_contaminant (a plain
// substring search over the whole lineage string, not a token-exact match).
func matchContaminant(lineage string, tags []string) (bool, string) {
	if len(tags) == 0 {
		return false, ""
	}
	lower := strings.ToLower(lineage)
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" {
			continue
		}
		if strings.Contains(lower, t) {
			return true, tag
		}
	}
	return false, ""
}

func convertUniprot(p refdata.UniprotPayload) *alignment.UniprotPayload {
	return &alignment.UniprotPayload{
		DatabaseXRefs: strings.Join(p.DatabaseXRefs, ";"),
		KEGG:          strings.Join(p.KEGG, ";"),
		Comments:      p.Comments,
		GOBiological:  p.GOBiological,
		GOCellular:    p.GOCellular,
		GOMolecular:   p.GOMolecular,
	}
}
