// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package filestore implements FileStore: the run's directory layout, atomic
// tabular output streams, a fetch/decompress pair for reference data, and a
// thin wrapper over internal/runner for invoking external tools.
package filestore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runner"
)

// Status is the typed result of a file operation.
type Status int

const (
	Ok Status = iota
	Empty
	ReadErr
	PathErr
)

func (s Status) String() string {
	switch s {
	case Ok:
		return "ok"
	case Empty:
		return "empty"
	case ReadErr:
		return "read error"
	default:
		return "path error"
	}
}

// Stage directory names. Filter has no directory of its own, and GeneFamily
// and Busco share "ontology".
var stageDirs = []string{
	"expression",
	"frame_selection",
	"similarity_search",
	"ontology",
	"horizontal_gene_transfer",
}

// FileStore owns every absolute path used by a run.
type FileStore struct {
	Root      string
	Overwrite bool

	ctx *runctx.Context

	mu      sync.Mutex
	streams map[string]*streamSet
}

// New returns a FileStore rooted at root. It does not touch the
// filesystem; call CreateRunLayout to do that.
func New(root string, overwrite bool, ctx *runctx.Context) *FileStore {
	return &FileStore{
		Root:      root,
		Overwrite: overwrite,
		ctx:       ctx,
		streams:   make(map[string]*streamSet),
	}
}

// Path joins elem onto the store's root.
func (fs *FileStore) Path(elem ...string) string {
	return filepath.Join(append([]string{fs.Root}, elem...)...)
}

// CreateRunLayout creates transcriptomes/, final_results/, temp/, and the
// per-stage processed/figures/overall_results sub-trees. With Overwrite=true
// an existing stage directory is removed outright before being recreated;
// with Overwrite=false only processed/figures are cleared so cached tool
// output survives for resume.
func (fs *FileStore) CreateRunLayout() error {
	top := []string{
		fs.Path("transcriptomes"),
		fs.Path("temp"),
		fs.Path("final_results", "annotated"),
		fs.Path("final_results", "unannotated"),
		fs.Path("final_results", "annotated_contam"),
		fs.Path("final_results", "annotated_no_contam"),
		fs.Path("final_results", "entap_report"),
	}
	for _, dir := range top {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &entaperr.IoError{Kind: entaperr.IoPath, Path: dir, Err: err}
		}
	}

	for _, name := range stageDirs {
		dir := fs.Path(name)
		if fs.Overwrite {
			if err := os.RemoveAll(dir); err != nil {
				return &entaperr.IoError{Kind: entaperr.IoPath, Path: dir, Err: err}
			}
		} else {
			for _, sub := range []string{"processed", "figures"} {
				if err := os.RemoveAll(filepath.Join(dir, sub)); err != nil {
					return &entaperr.IoError{Kind: entaperr.IoPath, Path: dir, Err: err}
				}
			}
		}
		for _, sub := range []string{"processed", "figures", "overall_results"} {
			if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
				return &entaperr.IoError{Kind: entaperr.IoPath, Path: dir, Err: err}
			}
		}
	}
	return nil
}

// StageDir returns the per-stage directory for name ("expression",
// "similarity_search", etc), joined with any further elements.
func (fs *FileStore) StageDir(name string, elem ...string) string {
	return filepath.Join(append([]string{fs.Path(name)}, elem...)...)
}

// Warn records a non-fatal condition (an empty downstream database while
// others still hold data, an outdated tool version, a missing HGT GFF
// neighbour) to both the transcript and debug logs, without aborting the
// run.
func (fs *FileStore) Warn(msg string) {
	fs.ctx.Transcript.Print("warning: " + msg)
	fs.ctx.Debug.Print("warning: " + msg)
}

// RunCmd runs an external tool via internal/runner, optionally persisting
// its stdout/stderr to stdoutPath/stderrPath ("run_cmd... returns
// {exit_code, stdout, stderr} after the child exits; both streams are
// drained concurrently to avoid pipe deadlock").
func (fs *FileStore) RunCmd(ctx context.Context, tool string, b runner.Builder, stdoutPath, stderrPath string) (runner.Result, error) {
	var tail = fs.ctx.Debug.Writer()
	res, err := runner.Run(ctx, tool, b, tail)
	if stdoutPath != "" {
		if werr := os.WriteFile(stdoutPath, res.Stdout, 0o644); werr != nil {
			return res, &entaperr.IoError{Kind: entaperr.IoWrite, Path: stdoutPath, Err: werr}
		}
	}
	if stderrPath != "" {
		if werr := os.WriteFile(stderrPath, res.Stderr, 0o644); werr != nil {
			return res, &entaperr.IoError{Kind: entaperr.IoWrite, Path: stderrPath, Err: werr}
		}
	}
	return res, err
}

// Exists reports whether path exists and is a non-empty regular file,
// classifying the result per the typed status.
func Exists(path string) Status {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return PathErr
		}
		return ReadErr
	}
	if info.Size() == 0 {
		return Empty
	}
	return Ok
}
