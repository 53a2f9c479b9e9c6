// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package runctx defines the single value threaded through every component
// constructor in place of the reference process-wide log.Logger and the
// reference implementation's global file-path externs.
package runctx

import (
	"io"
	"log"
	"os"
	"path/filepath"
)

// Context carries the two run-scoped loggers and the root directory every
// component needs. It is constructed once in cmd/entap and passed down;
// nothing in this module keeps process-global mutable state.
type Context struct {
	// Root is the run's output root directory (see filestore.Layout).
	Root string

	// Transcript receives the user-facing progress narrative ("Beginning
	// SimilaritySearch analysis", stage transition banners).
	Transcript *log.Logger
	// Debug receives the full diagnostic chain, including wrapped
	// subprocess stdout/stderr.
	Debug *log.Logger

	transcriptFile io.Closer
	debugFile      io.Closer
}

// New opens the transcript and debug log files under root (entap_run.log,
// debug.txt, matching ENTAP_CONFIG::LOG_FILENAME / DEBUG_FILENAME) and
// returns a Context writing to both the files and os.Stderr.
func New(root string) (*Context, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	logFile, err := os.Create(filepath.Join(root, "entap_run.log"))
	if err != nil {
		return nil, err
	}
	debugFile, err := os.Create(filepath.Join(root, "debug.txt"))
	if err != nil {
		logFile.Close()
		return nil, err
	}
	return &Context{
		Root:           root,
		Transcript:     log.New(io.MultiWriter(os.Stderr, logFile), "", log.LstdFlags),
		Debug:          log.New(debugFile, "", log.LstdFlags|log.Lshortfile),
		transcriptFile: logFile,
		debugFile:      debugFile,
	}, nil
}

// NewDiscard returns a Context that logs nowhere, for use in tests.
func NewDiscard(root string) *Context {
	return &Context{
		Root:       root,
		Transcript: log.New(io.Discard, "", 0),
		Debug:      log.New(io.Discard, "", 0),
	}
}

// Close releases the underlying log files. It is safe to call on a
// discard Context.
func (c *Context) Close() error {
	if c.transcriptFile != nil {
		c.transcriptFile.Close()
	}
	if c.debugFile != nil {
		c.debugFile.Close()
	}
	return nil
}
