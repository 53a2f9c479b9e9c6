// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runspec implements RunSpec: a frozen, validated configuration
// bundle. Following the reference flag-parsing idiom (cmd/ins/main.go's
// flag.FlagSet and custom sliceValue multi-value flag), a Builder is
// populated from a flag.FlagSet or programmatically, then frozen into an
// immutable Spec by Validate.
package runspec

import (
	"fmt"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/model"
)

// DefaultDonorMinHits and DefaultDonorNeighborMaxHits reproduce the worked
// HGT scenario thresholds; nothing in the reference implementation
// material names a configuration knob for them, so they default to the
// values the scenario exercises and can be overridden from the CLI.
const (
	DefaultDonorMinHits         = 1
	DefaultDonorNeighborMaxHits = 0
)

// OutputFormat is one of the formats the output composer can render.
type OutputFormat int

const (
	FormatTSV OutputFormat = iota
	FormatCSV
	FormatFAA
	FormatFNN
	FormatGoEnrichIDLen
	FormatGoEnrichIDGo
	FormatGoTerms
)

// ParseOutputFormat maps a CLI token to an OutputFormat.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch s {
	case "tsv":
		return FormatTSV, nil
	case "csv":
		return FormatCSV, nil
	case "fasta_aa", "faa":
		return FormatFAA, nil
	case "fasta_nt", "fnn":
		return FormatFNN, nil
	case "go_enrich_len":
		return FormatGoEnrichIDLen, nil
	case "go_enrich_go":
		return FormatGoEnrichIDGo, nil
	case "go_terms":
		return FormatGoTerms, nil
	default:
		return 0, fmt.Errorf("unknown output format: %q", s)
	}
}

// Default thresholds, taken from the reference implementation
const (
	DefaultQCoverage = 50.0
	DefaultTCoverage = 50.0
	DefaultEValue    = 1e-5
	DefaultFPKM      = 0.5
)

// Spec is the frozen, validated RunSpec. It is built via Builder.Validate
// and never mutated afterward, except for EnabledHeaders, which the stage
// executor folds HeaderToggle events into between stage transitions
// .
type Spec struct {
	Threads int

	QCoverage float64
	TCoverage float64
	EValue    float64
	FPKM      float64

	// GoLevels is ordered as given; 0 means "all levels".
	GoLevels []int

	ContaminantTags    []string
	UninformativeTags  []string
	TargetSpecies      string
	TargetLineage      string

	// EggnogContamAnalysis gates P7's second contaminant path: when set, an
	// EggnogHit is contaminant if its TaxScopeReadable matches a configured
	// contaminant tag.
	EggnogContamAnalysis bool

	RunProtein    bool
	RunNucleotide bool

	Overwrite bool
	NoTrim    bool

	OutputFormats []OutputFormat

	// Tool executables.
	DiamondExe           string
	RSEMDir              string
	GenemarkExe          string
	InterproExe          string
	BuscoExe             string
	EggnogMapperExe      string
	EggnogMapperDataDir  string
	EggnogMapperSensitivity string

	// Database paths.
	SimSearchDatabases []string
	EggnogSQL          string
	EggnogDMND         string
	BuscoDatabase      string
	BuscoEValue        float64
	HgtDonorDatabases     []string
	HgtRecipientDatabases []string
	GFFPath               string

	// DonorMinHits and DonorNeighborMaxHits are the HGT candidacy/ confirmation
	// thresholds referenced by the worked scenario ("donor_min=1,
	// donor_neighbor_max=0") but never named in its field enumeration; see
	// DESIGN.md's Open Questions for why they are exposed here rather than
	// hardcoded in internal/hgt.
	DonorMinHits         int
	DonorNeighborMaxHits int

	// Transcriptome and OutDir are the two positional/required run inputs lists
	// alongside the rest of the CLI surface.
	Transcriptome string
	OutDir        string

	// State is the validated stage-control expression.
	State string
	// Stages is the resolved set of stages to run, derived from State.
	Stages []model.Stage

	// RefData source files; empty means the corresponding lookup is unavailable
	// and callers treat every query as unresolved rather than failing the run.
	TaxonomyPath   string
	GoGraphPath    string
	UniprotPath    string
	EntrezDatabase string
	// UseEntrez gates the optional NCBI Entrez GeneID fallback lookup; it
	// defaults off since it requires network access the other four RefData
	// sources do not.
	UseEntrez bool

	// EnabledHeaders is the set of output columns to render. It starts
	// from a static default set and is widened at runtime by
	// HeaderToggle events (e.g. UniProt database detection).
	EnabledHeaders map[model.HeaderID]bool
}

// IsHeaderEnabled reports whether h should be rendered.
func (s *Spec) IsHeaderEnabled(h model.HeaderID) bool {
	if s.EnabledHeaders == nil {
		return true
	}
	return s.EnabledHeaders[h]
}

// HeaderToggle is returned by a parser that discovers a database kind that
// widens the enabled header set .
type HeaderToggle struct {
	Headers []model.HeaderID
	Enable  bool
}

// Apply folds a HeaderToggle into s.
func (s *Spec) Apply(t HeaderToggle) {
	if s.EnabledHeaders == nil {
		s.EnabledHeaders = make(map[model.HeaderID]bool)
	}
	for _, h := range t.Headers {
		s.EnabledHeaders[h] = t.Enable
	}
}

// configError is a small helper to build a *entaperr.ConfigError.
func configError(field, reason string) error {
	return &entaperr.ConfigError{Field: field, Reason: reason}
}
