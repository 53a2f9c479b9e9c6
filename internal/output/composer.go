// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package output implements the output composer : it turns a
// QuerySequence (and, where one exists, its best Alignment) into rows across
// whatever streams internal/filestore has open for a given base path. It
// owns no file handles itself; every write goes through FileStore's Append*
// helpers, so the composer is a pure translation layer between the sequence-
// state model and the column/stream conventions, grounded the same way the
// reference implementation keeps its own encoders (blast.go's Record)
// separate from its writers (cmd/ins/main.go).
package output

import (
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/runspec"
)

// AllHeaders is the fixed column order for the general TSV/CSV stream. Per-
// term GO columns (HeaderGOID/GOTerm/GOCategory) are rendered only in the
// dedicated GoTerms stream, not here, since they are one-to-many with a
// sequence.
var AllHeaders = []model.HeaderID{
	model.HeaderQueryID,
	model.HeaderGeneID,
	model.HeaderSubjectID,
	model.HeaderPercentIdentity,
	model.HeaderAlignLen,
	model.HeaderMismatch,
	model.HeaderGapOpen,
	model.HeaderQueryStart,
	model.HeaderQueryEnd,
	model.HeaderSubjectStart,
	model.HeaderSubjectEnd,
	model.HeaderEValue,
	model.HeaderCoverage,
	model.HeaderTitle,
	model.HeaderSpecies,
	model.HeaderDatabase,
	model.HeaderFrame,
	model.HeaderContaminant,
	model.HeaderInformative,
	model.HeaderBitScore,
	model.HeaderTaxScore,
	model.HeaderNCBIGeneID,
	model.HeaderUniprotXRef,
	model.HeaderUniprotKEGG,
	model.HeaderUniprotGOBio,
	model.HeaderUniprotGOCell,
	model.HeaderUniprotGOMole,
	model.HeaderUniprotComments,
	model.HeaderSeedOrtholog,
	model.HeaderSeedEValue,
	model.HeaderSeedScore,
	model.HeaderPredictedGene,
	model.HeaderTaxScope,
	model.HeaderEggOGs,
	model.HeaderEggKEGG,
	model.HeaderEggGOBio,
	model.HeaderEggGOCell,
	model.HeaderEggGOMole,
	model.HeaderEggDescription,
	model.HeaderEggLevel,
	model.HeaderEggProteinDomains,
	model.HeaderCOGCategory,
	model.HeaderCOGDescription,
	model.HeaderBiGG,
	model.HeaderBRITE,
	model.HeaderEC,
	model.HeaderCAZy,
	model.HeaderInterproID,
	model.HeaderInterproDatabase,
	model.HeaderInterproDescription,
	model.HeaderInterproGO,
	model.HeaderInterproPathway,
	model.HeaderBuscoID,
	model.HeaderBuscoStatus,
	model.HeaderBuscoScore,
	model.HeaderBuscoLength,
	model.HeaderHGTDonor,
	model.HeaderHGTRecipient,
	model.HeaderHGTCandidate,
	model.HeaderHGTConfirmed,
	model.HeaderEffectiveLength,
	model.HeaderFPKM,
	model.HeaderTPM,
}

// Composer writes QuerySequence rows to the output streams a FileStore holds
// open for a base path, honoring a Spec's enabled headers and GO enrichment
// levels.
type Composer struct {
	fs   *filestore.FileStore
	spec *runspec.Spec

	headers []model.HeaderID
}

// New returns a Composer bound to fs and spec. Changes spec makes to
// EnabledHeaders via HeaderToggle after New is called are NOT picked up;
// call New again (or Refresh) once every toggle for a stage has landed.
func New(fs *filestore.FileStore, spec *runspec.Spec) *Composer {
	c := &Composer{fs: fs, spec: spec}
	c.Refresh()
	return c
}

// Refresh recomputes the active header list from the Spec's current
// EnabledHeaders, for use after a stage folds in HeaderToggle events.
func (c *Composer) Refresh() {
	headers := make([]model.HeaderID, 0, len(AllHeaders))
	for _, h := range AllHeaders {
		if c.spec.IsHeaderEnabled(h) {
			headers = append(headers, h)
		}
	}
	c.headers = headers
}

// Open opens every configured stream under base. expressionRan selects the
// 5-column GoTerms variant that includes effective_length.
func (c *Composer) Open(base string, expressionRan bool) (bool, error) {
	return c.fs.OpenStreamSet(base, filestore.OpenOptions{
		Formats:             c.spec.OutputFormats,
		GoLevels:            c.spec.GoLevels,
		Headers:             c.headers,
		WithEffectiveLength: expressionRan,
	})
}

// Close flushes and releases every stream under base.
func (c *Composer) Close(base string) error { return c.fs.CloseStreamSet(base) }

// Add renders one sequence as a row across every open stream under base.
// align is the alignment whose fields take priority; it may be nil, in which
// case every header is pulled from seq directly. expressionRan gates whether
// GoTerms rows carry an effective_length column, matching whatever value
// Open was called with for this base.
func (c *Composer) Add(base string, seq *model.QuerySequence, align model.Alignment, expressionRan bool) error {
	fields := make([]string, len(c.headers))
	for i, h := range c.headers {
		if v, ok := c.get(h, seq, align); ok {
			fields[i] = v
		}
	}
	if err := c.fs.AppendDelimited(base, fields); err != nil {
		return err
	}

	if seq.Protein != "" {
		if err := c.fs.AppendFASTA(base, true, seq.ID, seq.Protein); err != nil {
			return err
		}
	}
	if seq.Nucleotide != "" {
		if err := c.fs.AppendFASTA(base, false, seq.ID, seq.Nucleotide); err != nil {
			return err
		}
	}

	return c.addGoRows(base, seq, expressionRan)
}

func (c *Composer) get(h model.HeaderID, seq *model.QuerySequence, align model.Alignment) (string, bool) {
	level := primaryGoLevel(c.spec)
	if align != nil {
		if v, ok := align.Get(h, level); ok {
			return v, true
		}
	}
	return seq.Get(h, level)
}

// primaryGoLevel is the level used for any inline GO column on the
// general TSV/CSV row (as opposed to the dedicated per-level GoTerms
// streams, which iterate every configured level independently).
func primaryGoLevel(spec *runspec.Spec) int {
	if len(spec.GoLevels) == 0 {
		return 0
	}
	return spec.GoLevels[0]
}

func (c *Composer) addGoRows(base string, seq *model.QuerySequence, expressionRan bool) error {
	levels := c.spec.GoLevels
	if len(levels) == 0 {
		levels = []int{0}
	}
	for _, lvl := range levels {
		hasLevel := lvl == 0
		for _, e := range seq.GoTerms {
			if !e.MatchesLevel(lvl) {
				continue
			}
			hasLevel = true
			if err := c.fs.AppendGoEnrichGo(base, lvl, seq.ID, e.GoID); err != nil {
				return err
			}
			var effLen *float64
			if expressionRan {
				v := seq.EffectiveLength
				effLen = &v
			}
			if err := c.fs.AppendGoTerms(base, lvl, seq.ID, e.GoID, e.Term, e.Category.String(), effLen); err != nil {
				return err
			}
		}
		if hasLevel {
			if err := c.fs.AppendGoEnrichLen(base, lvl, seq.ID, seq.EffectiveLength); err != nil {
				return err
			}
		}
	}
	return nil
}
