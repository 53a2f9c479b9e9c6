// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"bufio"
	"context"
	"os"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runspec"
)

// FilterModule implements the Filter stage the state machine names between
// FrameSelection and SimilaritySearch but never gives a component section
// to: it has no external tool and no dedicated processed/ directory of its
// own (filestore's stageDirs list has none for it), so its job is the
// bookkeeping the later stages need a concrete input for — writing the query
// FASTA that survived expression and frame selection filtering to temp/, the
// file SimilaritySearch's diamond invocation reads as -q. DESIGN.md records
// this as the Open Question resolution for an otherwise spec-silent stage.
type FilterModule struct {
	fs    *filestore.FileStore
	store *querystore.QueryStore
}

// NewFilterModule returns the Filter stage module.
func NewFilterModule(fs *filestore.FileStore, store *querystore.QueryStore) *FilterModule {
	return &FilterModule{fs: fs, store: store}
}

func (m *FilterModule) Name() model.Stage { return model.StageFilter }

// QueryPath is the FASTA path SimilaritySearch and GeneFamily read as
// their query input.
func (m *FilterModule) QueryPath() string { return m.fs.Path("temp", "filtered_query.fasta") }

func (m *FilterModule) VerifyFiles() (bool, error) {
	return filesReady(m.QueryPath()), nil
}

// Execute is a no-op: Filter has no external tool, only a bookkeeping
// pass performed in Parse.
func (m *FilterModule) Execute(ctx context.Context) error { return nil }

func (m *FilterModule) Parse() ([]runspec.HeaderToggle, error) {
	path := m.QueryPath()
	f, err := os.Create(path)
	if err != nil {
		return nil, &entaperr.IoError{Kind: entaperr.IoWrite, Path: path, Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, seq := range m.keptSequences() {
		body := seq.Protein
		if body == "" {
			body = seq.Nucleotide
		}
		if body == "" {
			continue
		}
		if _, err := w.WriteString(">" + seq.ID + "\n" + body + "\n"); err != nil {
			return nil, &entaperr.IoError{Kind: entaperr.IoWrite, Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return nil, &entaperr.IoError{Kind: entaperr.IoWrite, Path: path, Err: err}
	}
	return nil, nil
}

// keptSequences returns every sequence still eligible for downstream
// analysis: both expression-kept and frame-kept. A skipped Expression or
// FrameSelection stage has already set its flag on every sequence
// (flagAllKept), so it removes nothing.
func (m *FilterModule) keptSequences() []*model.QuerySequence {
	return m.store.Filter(model.ExpressionKept | model.FrameKept)
}

func (m *FilterModule) Finalize() error { return nil }
