// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stage implements the stage executor : the linear
// Init->Expression->FrameSelection->Filter->SimilaritySearch->
// GeneFamily->HGT->Busco->Done state machine, the uniform
// verify_files/execute/parse/finalize trait every stage module satisfies,
// and the modernc.org/kv-backed checkpoint ledger that lets an
// overwrite=false rerun skip straight to Parse without re-invoking any
// external tool.
package stage

import (
	"bufio"
	"context"
	"os"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runspec"
)

// Module is the uniform per-stage trait.
type Module interface {
	// Name identifies the stage this module implements.
	Name() model.Stage
	// VerifyFiles reports whether every expected tool output already
	// exists and is non-empty; when true, Execute is skipped.
	VerifyFiles() (bool, error)
	// Execute runs the stage's external tool(s). Only called when
	// VerifyFiles returns false.
	Execute(ctx context.Context) error
	// Parse always runs, on either freshly produced or cached outputs,
	// populates Alignments/flags/sequence fields, and returns any
	// HeaderToggle events discovered along the way.
	Parse() ([]runspec.HeaderToggle, error)
	// Finalize sets the stage's success flag and performs any
	// flag_transcripts bookkeeping a skipped stage still owes.
	Finalize() error
}

// Executor drives the stage pipeline.
type Executor struct {
	ctx     *runctx.Context
	spec    *runspec.Spec
	store   *querystore.QueryStore
	cp      *checkpoint
	modules map[model.Stage]Module
}

// NewExecutor returns an Executor for modules, backed by a checkpoint
// ledger opened (or created) under root.
func NewExecutor(root string, ctx *runctx.Context, spec *runspec.Spec, store *querystore.QueryStore, modules []Module) (*Executor, error) {
	cp, err := openCheckpoint(root)
	if err != nil {
		return nil, err
	}
	byStage := make(map[model.Stage]Module, len(modules))
	for _, m := range modules {
		byStage[m.Name()] = m
	}
	return &Executor{ctx: ctx, spec: spec, store: store, cp: cp, modules: byStage}, nil
}

// Close releases the executor's checkpoint ledger.
func (e *Executor) Close() error { return e.cp.Close() }

// Run drives every stage in spec.Stages in order, honoring
// overwrite/resumability (P6) and folding HeaderToggle events into the Spec
// between transitions .
func (e *Executor) Run(ctx context.Context) error {
	for _, s := range e.spec.Stages {
		if s == model.StageDone {
			break
		}
		mod, ok := e.modules[s]
		if !ok {
			continue
		}
		if err := e.runStage(ctx, mod); err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) runStage(ctx context.Context, mod Module) error {
	name := mod.Name()
	e.ctx.Transcript.Printf("Beginning %s analysis", name)

	if !e.spec.Overwrite && e.cp.done(name) {
		e.ctx.Transcript.Printf("%s already completed, skipping execution", name)
	} else {
		ready, err := mod.VerifyFiles()
		if err != nil {
			return &entaperr.StageError{Stage: name.String(), Reason: "verify_files", Err: err}
		}
		if !ready {
			if err := mod.Execute(ctx); err != nil {
				return &entaperr.StageError{Stage: name.String(), Reason: "execute", Err: err}
			}
		}
	}

	toggles, err := mod.Parse()
	if err != nil {
		return &entaperr.StageError{Stage: name.String(), Reason: "parse", Err: err}
	}
	for _, t := range toggles {
		e.spec.Apply(t)
	}

	if err := mod.Finalize(); err != nil {
		return &entaperr.StageError{Stage: name.String(), Reason: "finalize", Err: err}
	}

	if err := e.cp.markDone(name); err != nil {
		return &entaperr.StageError{Stage: name.String(), Reason: "checkpoint", Err: err}
	}
	e.ctx.Transcript.Printf("%s analysis complete", name)
	return nil
}

// scannerBufferBytes matches querystore.LoadFASTA's line buffer budget;
// tool output tables occasionally carry very long stitle/description
// fields.
const scannerBufferBytes = 16 << 20

// openScanner opens path and wraps it in a bufio.Scanner sized for
// tool-output tables, returning the file so the caller can close it.
func openScanner(path string) (*bufio.Scanner, *os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &entaperr.IoError{Kind: entaperr.IoRead, Path: path, Err: err}
	}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), scannerBufferBytes)
	return sc, f, nil
}

// filesReady reports whether every path in paths exists and is non-empty
// (the verify_files rule).
func filesReady(paths ...string) bool {
	for _, p := range paths {
		if filestore.Exists(p) != filestore.Ok {
			return false
		}
	}
	return true
}
