// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package model holds the sequence-state data model shared by every stage of
// the annotation engine: QuerySequence, the Flag bitset, the Alignment
// interface, and the small immutable reference types (GoEntry, TaxEntry)
// returned by RefData. It corresponds to and to the reference
// implementation's /.cpp, generalized per the  notes (arena indices
// instead of pointers, a Flag bitset instead of a dozen booleans).
package model

import (
	"fmt"

	"github.com/harta55/entap/internal/compair"
)

// Frame is a sequence's predicted coding frame.
type Frame int

const (
	FrameUnset Frame = iota
	FrameComplete
	FrameInternal
	FramePartial5
	FramePartial3
)

func (f Frame) String() string {
	switch f {
	case FrameComplete:
		return "Complete"
	case FrameInternal:
		return "Internal"
	case FramePartial5:
		return "Partial5"
	case FramePartial3:
		return "Partial3"
	default:
		return "Unset"
	}
}

// Stage identifies a pipeline stage.
type Stage int

const (
	StageInit Stage = iota
	StageExpression
	StageFrameSelection
	StageFilter
	StageSimilaritySearch
	StageGeneFamily
	StageHGT
	StageBusco
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageExpression:
		return "Expression"
	case StageFrameSelection:
		return "FrameSelection"
	case StageFilter:
		return "Filter"
	case StageSimilaritySearch:
		return "SimilaritySearch"
	case StageGeneFamily:
		return "GeneFamily"
	case StageHGT:
		return "HGT"
	case StageBusco:
		return "Busco"
	case StageDone:
		return "Done"
	default:
		return "Init"
	}
}

// GoCategory is one of the three Gene Ontology namespaces.
type GoCategory int

const (
	GoCategoryUnknown GoCategory = iota
	GoCategoryBiological
	GoCategoryCellular
	GoCategoryMolecular
)

func (c GoCategory) String() string {
	switch c {
	case GoCategoryBiological:
		return "biological_process"
	case GoCategoryCellular:
		return "cellular_component"
	case GoCategoryMolecular:
		return "molecular_function"
	default:
		return "unknown"
	}
}

// LevelUnknown is the sentinel GoEntry.Level used when the GO graph has no
// level information for a term; treats it as always matching any requested
// level.
const LevelUnknown = -1

// GoEntry is an immutable, resolved Gene Ontology term.
type GoEntry struct {
	GoID     string
	Term     string
	Category GoCategory
	Level    int
}

// MatchesLevel reports whether e should be included when rendering at the
// requested level: level 0 means "all", LevelUnknown always matches,
// otherwise e.Level must be at or above the requested level.
func (e GoEntry) MatchesLevel(level int) bool {
	return level == 0 || e.Level == LevelUnknown || e.Level >= level
}

// TaxEntry is an immutable, resolved taxonomy record.
type TaxEntry struct {
	TaxID          string
	ScientificName string
	// Lineage is a ';'-separated ordered path from root to leaf.
	Lineage string
}

// AlignmentKey identifies one alignment bucket on a QuerySequence: a stage,
// the tool that produced it, and the reference database path searched
// ("alignments: mapping (stage, tool, database_path) -> ordered
// list<Alignment>").
type AlignmentKey struct {
	Stage    Stage
	Tool     string
	Database string
}

func (k AlignmentKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.Stage, k.Tool, k.Database)
}

// Alignment is the abstract surface the output composer and selector see.
// Concrete variants live in package alignment; defining the interface here
// (rather than there) lets QuerySequence hold Alignment values without an
// import cycle between model and alignment.
type Alignment interface {
	// Parent returns the owning QuerySequence (invariant I1).
	Parent() *QuerySequence
	// DatabasePath is the reference database this alignment was found in.
	DatabasePath() string
	// Get pulls a per-field rendered value for header, filtered to the
	// given GO level where applicable. ok is false when the variant has
	// no value for header.
	Get(header HeaderID, goLevel int) (value string, ok bool)
	// IsBetterThan implements the variant's total order. overall selects the
	// cross-database comparator instead of the per-database one.
	IsBetterThan(other Alignment, overall bool) bool
	// RefreshHeaders is called after enrichment (e.g. EggNOG SQL lookup)
	// populates fields that were empty at parse time.
	RefreshHeaders()
}

// QuerySequence is one annotated record, accumulating evidence from every
// stage.
type QuerySequence struct {
	// ID is immutable after load (invariant: ids are unique in QueryStore).
	ID string

	Nucleotide string
	Protein    string
	LengthBP   int
	FrameState Frame
	Flags      Flag

	// Alignments holds one ordered bucket of hits per (stage, tool, database).
	// Buckets are append-only during a parse; BestOverall sorts each bucket
	// with the per-database comparator before reading it, so index 0 of a
	// sorted bucket is the best hit (invariant I2).
	Alignments map[AlignmentKey]*compair.Compair[Alignment]

	// Upstream and Downstream are indices into the owning QueryStore's sequence
	// slice, or -1 if unset .
	// Set by GFF ingest; used only by HGT.
	Upstream   int
	Downstream int

	EffectiveLength float64
	FPKM            float64
	TPM             float64

	DonorHitCount     int
	RecipientHitCount int

	// GoTerms accumulates every GO term attached to this sequence by any stage,
	// keyed by go_id, for GoEnrichIdGo/GoTerms output. Populated by the
	// family/ontology parser.
	GoTerms map[string]GoEntry
}

// NewSequence returns a zero-value QuerySequence for id, with no upstream
// or downstream neighbour.
func NewSequence(id string) *QuerySequence {
	return &QuerySequence{
		ID:         id,
		Alignments: make(map[AlignmentKey]*compair.Compair[Alignment]),
		Upstream:   -1,
		Downstream: -1,
		GoTerms:    make(map[string]GoEntry),
	}
}

// Bucket returns the alignment bucket for key, creating it if necessary.
func (q *QuerySequence) Bucket(key AlignmentKey) *compair.Compair[Alignment] {
	b, ok := q.Alignments[key]
	if !ok {
		b = compair.New[Alignment]()
		q.Alignments[key] = b
	}
	return b
}

// BestOverall returns the best alignment across every bucket under the
// cross-database ("compare_overall") comparator, per
func (q *QuerySequence) BestOverall() (Alignment, bool) {
	var best Alignment
	for _, bucket := range q.Alignments {
		bucket.Sort(func(a, b Alignment) bool { return a.IsBetterThan(b, false) })
		cand, ok := bucket.Best()
		if !ok {
			continue
		}
		if best == nil || cand.IsBetterThan(best, true) {
			best = cand
		}
	}
	return best, best != nil
}

// RecomputeContaminant enforces invariant I3: the composite Contaminant flag
// is the OR of the two stage-specific contaminant sub-flags. This is the
// single place the flag is set, per the fix for the reference's inconsistent
// bookkeeping.
func (q *QuerySequence) RecomputeContaminant() {
	q.Flags = q.Flags.With(Contaminant, q.Flags.Any(SimSearchContam|FamilyContam))
}

// AddGoTerm records a GO term as attached to this sequence, for enrichment
// output. Re-adding the same go_id is a no-op.
func (q *QuerySequence) AddGoTerm(e GoEntry) {
	if q.GoTerms == nil {
		q.GoTerms = make(map[string]GoEntry)
	}
	q.GoTerms[e.GoID] = e
}

// Get pulls a header value directly from the sequence's own fields, falling
// back to its best overall alignment for everything else ("When alignment is
// None the composer pulls header values from the sequence directly, which in
// turn forwards to its best alignment where applicable").
func (q *QuerySequence) Get(header HeaderID, goLevel int) (string, bool) {
	switch header {
	case HeaderGeneID:
		return q.ID, true
	case HeaderEffectiveLength:
		return fmt.Sprintf("%.2f", q.EffectiveLength), true
	case HeaderFPKM:
		return fmt.Sprintf("%.2f", q.FPKM), true
	case HeaderTPM:
		return fmt.Sprintf("%.2f", q.TPM), true
	case HeaderFrame:
		return q.FrameState.String(), true
	case HeaderContaminant:
		return yesNo(q.Flags.Has(Contaminant)), true
	case HeaderHGTCandidate:
		return yesNo(q.Flags.Has(HgtCandidate)), true
	case HeaderHGTConfirmed:
		return yesNo(q.Flags.Has(HgtConfirmed)), true
	}
	if best, ok := q.BestOverall(); ok {
		return best.Get(header, goLevel)
	}
	return "", false
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
