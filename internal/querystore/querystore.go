// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package querystore implements QueryStore : the in-memory map from
// sequence id to QuerySequence, populated by a single FASTA ingest pass,
// plus the transcriptome summary statistics the reference implementation
// prints before any stage runs (the reference implementation).
//
// Ingest is implemented directly against the exact header-trim and
// protein/nucleotide-detection rules with a plain bufio.Scanner rather than
// forced through the reference fai (github.com/biogo/hts/fai) random-access
// index, which is built for indexed lookups into one large reference, not a
// single streaming pass over an arbitrary number of small records with a
// duplicate-id check. The teacher's biogo sequence types are reused on the
// rendering side instead (internal/filestore.AppendFASTA's %60a linear.Seq
// verb, mirroring cmd/ins/main.go).
package querystore

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/model"
)

// sampleLineBudget is "the first N non-header lines" sampled by the
// protein/nucleotide detector.
const sampleLineBudget = 10

// nonACGTNThreshold is the count of non-ACGTN residues in the sample above
// which the transcriptome is classified as protein ("threshold = 2").
const nonACGTNThreshold = 2

// QueryStore is the in-memory map sequence_id -> QuerySequence, plus the
// ordered slice that backs QuerySequence.Upstream/ Downstream arena indices
// .
type QueryStore struct {
	seqs  []*model.QuerySequence
	index map[string]int

	isProtein bool
}

// New returns an empty QueryStore.
func New() *QueryStore {
	return &QueryStore{index: make(map[string]int)}
}

type rawRecord struct {
	id  string
	seq strings.Builder
}

// LoadFASTA parses a FASTA transcriptome ("a '>' on column 0 starts a
// record, subsequent lines (whitespace-stripped) are appended until the next
// '>'. Duplicate ids are fatal") and populates the store. Header trimming
// follows: when noTrim is false the id is the substring between '>' and the
// first whitespace; when true it is the full header line with every
// whitespace character removed. Both paths strip the leading '>'.
//
// Protein vs. nucleotide is decided once for the whole input by
// sampling the first sampleLineBudget non-header lines and counting
// residues outside {A,C,G,T,N} (case-insensitive); more than
// nonACGTNThreshold such residues classifies the transcriptome as
// protein.
func (s *QueryStore) LoadFASTA(r io.Reader, noTrim bool) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16<<20)

	var records []*rawRecord
	seen := make(map[string]bool)

	var sample strings.Builder
	sampledLines := 0

	var cur *rawRecord
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if line[0] == '>' {
			cur = &rawRecord{id: headerID(line, noTrim)}
			if seen[cur.id] {
				return &entaperr.ParseError{File: "<fasta>", Line: lineNo, Reason: fmt.Sprintf("duplicate sequence id %q", cur.id)}
			}
			seen[cur.id] = true
			records = append(records, cur)
			continue
		}
		if cur == nil {
			return &entaperr.ParseError{File: "<fasta>", Line: lineNo, Reason: "sequence data before first header"}
		}
		trimmed := stripWhitespace(line)
		cur.seq.WriteString(trimmed)
		if sampledLines < sampleLineBudget {
			sample.WriteString(trimmed)
			sampledLines++
		}
	}
	if err := sc.Err(); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoRead, Path: "<fasta>", Err: err}
	}

	isProtein := detectProtein(sample.String())
	s.isProtein = isProtein

	s.seqs = make([]*model.QuerySequence, 0, len(records))
	s.index = make(map[string]int, len(records))
	for _, rec := range records {
		seqStr := rec.seq.String()
		qs := model.NewSequence(rec.id)
		qs.LengthBP = len(seqStr)
		if isProtein {
			qs.Protein = seqStr
			qs.Flags = qs.Flags.Set(model.IsProtein)
		} else {
			qs.Nucleotide = seqStr
		}
		s.index[rec.id] = len(s.seqs)
		s.seqs = append(s.seqs, qs)
	}
	return nil
}

// headerID applies the header-trimming rule to one '>' line.
func headerID(line string, noTrim bool) string {
	body := line[1:]
	if noTrim {
		return stripWhitespace(body)
	}
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		return body[:i]
	}
	return body
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case ' ', '\t', '\r', '\n':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// detectProtein implements the sampling rule.
func detectProtein(sample string) bool {
	nonACGTN := 0
	for _, r := range strings.ToUpper(sample) {
		switch r {
		case 'A', 'C', 'G', 'T', 'N':
		default:
			nonACGTN++
		}
	}
	return nonACGTN > nonACGTNThreshold
}

// IsProtein reports whether LoadFASTA classified this transcriptome as
// protein.
func (s *QueryStore) IsProtein() bool { return s.isProtein }

// Len returns the number of sequences held.
func (s *QueryStore) Len() int { return len(s.seqs) }

// Get returns the sequence with id, per the `get(id)`.
func (s *QueryStore) Get(id string) (*model.QuerySequence, bool) {
	i, ok := s.index[id]
	if !ok {
		return nil, false
	}
	return s.seqs[i], true
}

// IndexOf returns id's arena index, used to populate
// QuerySequence.Upstream/Downstream .
func (s *QueryStore) IndexOf(id string) (int, bool) {
	i, ok := s.index[id]
	return i, ok
}

// At returns the sequence at arena index i, or nil if i is -1 or out of
// range (the sentinel for "no neighbour").
func (s *QueryStore) At(i int) *model.QuerySequence {
	if i < 0 || i >= len(s.seqs) {
		return nil
	}
	return s.seqs[i]
}

// All returns every sequence, in FASTA insertion order ("insertion order is
// NOT significant", but a stable order is still useful for deterministic
// output).
func (s *QueryStore) All() []*model.QuerySequence {
	return s.seqs
}

// Filter returns every sequence whose Flags has every bit of mask set, per
// the `filter(flags_mask)`.
func (s *QueryStore) Filter(mask model.Flag) []*model.QuerySequence {
	var out []*model.QuerySequence
	for _, q := range s.seqs {
		if q.Flags.Has(mask) {
			out = append(out, q)
		}
	}
	return out
}

// CountWhere counts sequences whose Flags has every bit of mask set, per the
// `count_where(flags_mask)`.
func (s *QueryStore) CountWhere(mask model.Flag) int {
	n := 0
	for _, q := range s.seqs {
		if q.Flags.Has(mask) {
			n++
		}
	}
	return n
}

// Summary is the transcriptome statistics report computed over every
// sequence currently in the store (adds GC content, matching the reference
// implementation's banner).
type Summary struct {
	Count       int
	TotalLength int
	N50         int
	N90         int
	Min         int
	Max         int
	Avg         float64
	GCContent   float64
}

// Summary computes the transcriptome statistics report ("count, total
// length, N50, N90, min/max, avg").
func (s *QueryStore) Summary() Summary {
	var sum Summary
	if len(s.seqs) == 0 {
		return sum
	}

	lengths := make([]int, len(s.seqs))
	var gc, total int64
	for i, q := range s.seqs {
		lengths[i] = q.LengthBP
		total += int64(q.LengthBP)
		gc += countGC(q.Nucleotide)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	sum.Count = len(lengths)
	sum.TotalLength = int(total)
	sum.Min = lengths[len(lengths)-1]
	sum.Max = lengths[0]
	sum.Avg = float64(total) / float64(len(lengths))
	sum.N50 = nAt(lengths, total, 0.5)
	sum.N90 = nAt(lengths, total, 0.9)
	if total > 0 {
		sum.GCContent = float64(gc) / float64(total) * 100
	}
	return sum
}

// nAt implements the N50/N90 definition of: sort lengths descending,
// accumulate until the cumulative sum exceeds fraction*total, and report the
// current length.
func nAt(descLengths []int, total int64, fraction float64) int {
	threshold := float64(total) * fraction
	var cum int64
	for _, l := range descLengths {
		cum += int64(l)
		if float64(cum) > threshold {
			return l
		}
	}
	if len(descLengths) == 0 {
		return 0
	}
	return descLengths[len(descLengths)-1]
}

func countGC(seq string) int64 {
	var n int64
	for _, r := range seq {
		switch r {
		case 'G', 'g', 'C', 'c':
			n++
		}
	}
	return n
}
