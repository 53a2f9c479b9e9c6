// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"path/filepath"

	"modernc.org/kv"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/model"
)

// checkpoint is the resumable run ledger backing ("running with
// overwrite=false after a successful run performs no external-tool
// invocations"). It records, per stage, whether that stage's execute step
// has already completed, using the same modernc.org/kv embedded ordered
// store the reference implementation opens for its sorted BLAST hit tables
// (cmd/ins/blast.go's kv.Create with a store.GroupByQueryOrderSubjectLeft
// comparator); here the keys are just stage names so the default byte-order
// Compare is fine.
type checkpoint struct {
	db *kv.DB
}

// checkpointFile is the ledger's filename under a run's root directory.
const checkpointFile = "checkpoint.db"

// openCheckpoint opens the checkpoint ledger under root, creating it if
// this is the first run against that directory.
func openCheckpoint(root string) (*checkpoint, error) {
	path := filepath.Join(root, checkpointFile)
	db, err := kv.Open(path, &kv.Options{})
	if err != nil {
		db, err = kv.Create(path, &kv.Options{})
		if err != nil {
			return nil, &entaperr.IoError{Kind: entaperr.IoPath, Path: path, Err: err}
		}
	}
	return &checkpoint{db: db}, nil
}

// done reports whether stage was previously recorded complete.
func (c *checkpoint) done(stage model.Stage) bool {
	v, err := c.db.Get(nil, stageKey(stage))
	return err == nil && v != nil
}

// markDone records stage as complete.
func (c *checkpoint) markDone(stage model.Stage) error {
	if err := c.db.Set(stageKey(stage), []byte{1}); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoWrite, Path: checkpointFile, Err: err}
	}
	return nil
}

// Close releases the ledger's file handle.
func (c *checkpoint) Close() error { return c.db.Close() }

func stageKey(s model.Stage) []byte {
	return []byte(s.String())
}
