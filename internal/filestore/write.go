// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filestore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/harta55/entap/internal/entaperr"
)

// Null is the literal TSV/CSV rendering of an absent value ("TSV nulls are
// rendered as the literal NA").
const Null = "NA"

// AppendDelimited writes one record of fields to every open TSV and/or CSV
// stream under base. It is a no-op if base has no open delimited stream.
func (fs *FileStore) AppendDelimited(base string, fields []string) error {
	set, ok := fs.openSet(base)
	if !ok {
		return nil
	}
	if f, ok := set.files[base+".tsv"]; ok {
		if err := writeRow(f, fields, '\t'); err != nil {
			return err
		}
	}
	if f, ok := set.files[base+".csv"]; ok {
		if err := writeRow(f, fields, ','); err != nil {
			return err
		}
	}
	return nil
}

// AppendFASTA writes one FASTA record to the FAA stream if protein is true,
// else to the FNN stream, wrapping the sequence at 60 columns using biogo's
// linear.Seq %60a formatting verb ("FAA, FNN: one stream each, FASTA
// records..."), the same idiom cmd/ins/main.go uses to render its masked-
// genome FASTA output.
func (fs *FileStore) AppendFASTA(base string, protein bool, id, sequence string) error {
	set, ok := fs.openSet(base)
	if !ok || sequence == "" {
		return nil
	}
	name := base + ".fnn"
	alpha := alphabet.DNAredundant
	if protein {
		name = base + ".faa"
		alpha = alphabet.Protein
	}
	f, ok := set.files[name]
	if !ok {
		return nil
	}
	s := linear.NewSeq(id, alphabet.BytesToLetters([]byte(sequence)), alpha)
	if _, err := fmt.Fprintf(f, "%60a\n", s); err != nil {
		return wrapWriteErr(name, err)
	}
	return nil
}

// AppendGoEnrichLen writes one "gene_id\teffective_length" row to the level
// stream under base, per the GoEnrichIdLen format.
func (fs *FileStore) AppendGoEnrichLen(base string, level int, geneID string, effectiveLength float64) error {
	set, ok := fs.openSet(base)
	if !ok {
		return nil
	}
	f, ok := set.files[goEnrichLenName(base, level)]
	if !ok {
		return nil
	}
	_, err := fmt.Fprintf(f, "%s\t%s\n", geneID, strconv.FormatFloat(effectiveLength, 'f', 2, 64))
	if err != nil {
		return wrapWriteErr(goEnrichLenName(base, level), err)
	}
	return nil
}

// AppendGoEnrichGo writes one "gene_id\tgo_id" row per the GoEnrichIdGo
// format.
func (fs *FileStore) AppendGoEnrichGo(base string, level int, geneID, goID string) error {
	set, ok := fs.openSet(base)
	if !ok {
		return nil
	}
	f, ok := set.files[goEnrichGoName(base, level)]
	if !ok {
		return nil
	}
	if _, err := fmt.Fprintf(f, "%s\t%s\n", geneID, goID); err != nil {
		return wrapWriteErr(goEnrichGoName(base, level), err)
	}
	return nil
}

// AppendGoTerms writes a
// "gene_id\tgo_id\tterm\tcategory[\teffective_length]" row, omitting the
// last column entirely when effectiveLength is nil (/ SPEC_FULL supplemented
// feature 3).
func (fs *FileStore) AppendGoTerms(base string, level int, geneID, goID, term, category string, effectiveLength *float64) error {
	set, ok := fs.openSet(base)
	if !ok {
		return nil
	}
	name := goTermsName(base, level)
	f, ok := set.files[name]
	if !ok {
		return nil
	}
	row := []string{geneID, goID, term, category}
	if effectiveLength != nil {
		row = append(row, strconv.FormatFloat(*effectiveLength, 'f', 2, 64))
	}
	if _, err := fmt.Fprintln(f, strings.Join(row, "\t")); err != nil {
		return wrapWriteErr(name, err)
	}
	return nil
}

func (fs *FileStore) openSet(base string) (*streamSet, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	set, ok := fs.streams[base]
	return set, ok
}

func writeRow(f writer, fields []string, delim byte) error {
	for i, v := range fields {
		if i > 0 {
			if _, err := f.Write([]byte{delim}); err != nil {
				return err
			}
		}
		if v == "" {
			v = Null
		}
		if _, err := f.Write([]byte(v)); err != nil {
			return err
		}
	}
	_, err := f.Write([]byte{'\n'})
	return err
}

type writer interface {
	Write(p []byte) (int, error)
}

func wrapWriteErr(path string, err error) error {
	return &entaperr.IoError{Kind: entaperr.IoWrite, Path: path, Err: err}
}
