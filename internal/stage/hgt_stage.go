// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"context"
	"path/filepath"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/hgt"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runner"
	"github.com/harta55/entap/internal/runspec"
)

// HGTModule runs a DIAMOND search against every configured donor and
// recipient database, links GFF neighbours, and votes candidacy (modeled on
// internal/hgt).
type HGTModule struct {
	fs    *filestore.FileStore
	spec  *runspec.Spec
	store *querystore.QueryStore
	query *FilterModule
	rc    *runctx.Context
}

// NewHGTModule returns the HGT stage module.
func NewHGTModule(fs *filestore.FileStore, spec *runspec.Spec, store *querystore.QueryStore, query *FilterModule, rc *runctx.Context) *HGTModule {
	return &HGTModule{fs: fs, spec: spec, store: store, query: query, rc: rc}
}

func (m *HGTModule) Name() model.Stage { return model.StageHGT }

func (m *HGTModule) active() bool {
	return len(m.spec.HgtDonorDatabases) > 0 || len(m.spec.HgtRecipientDatabases) > 0
}

func (m *HGTModule) hitPath(db string) string {
	return m.fs.StageDir("horizontal_gene_transfer", filepath.Base(db)+".tsv")
}

func (m *HGTModule) VerifyFiles() (bool, error) {
	if !m.active() {
		return false, nil
	}
	for _, db := range m.spec.HgtDonorDatabases {
		if !filesReady(m.hitPath(db)) {
			return false, nil
		}
	}
	for _, db := range m.spec.HgtRecipientDatabases {
		if !filesReady(m.hitPath(db)) {
			return false, nil
		}
	}
	return true, nil
}

func (m *HGTModule) Execute(ctx context.Context) error {
	if !m.active() {
		return nil
	}
	sub := "blastp"
	if m.spec.RunNucleotide {
		sub = "blastx"
	}
	run := func(db string) error {
		s := runner.DiamondSearch{
			Cmd:          m.spec.DiamondExe,
			Sub:          sub,
			Database:     db,
			Query:        m.query.QueryPath(),
			Out:          m.hitPath(db),
			OutFmt:       "6",
			EValue:       m.spec.EValue,
			QueryCover:   m.spec.QCoverage,
			SubjectCover: m.spec.TCoverage,
			Threads:      m.spec.Threads,
		}
		_, err := m.fs.RunCmd(ctx, "diamond", s, "", "")
		return err
	}
	for _, db := range m.spec.HgtDonorDatabases {
		if err := run(db); err != nil {
			return err
		}
	}
	for _, db := range m.spec.HgtRecipientDatabases {
		if err := run(db); err != nil {
			return err
		}
	}
	return nil
}

func (m *HGTModule) Parse() ([]runspec.HeaderToggle, error) {
	if !m.active() {
		return nil, nil
	}

	if m.spec.GFFPath != "" {
		sc, f, err := openScanner(m.spec.GFFPath)
		if err != nil {
			return nil, err
		}
		ids, err := hgt.ParseGFF(sc)
		f.Close()
		if err != nil {
			return nil, err
		}
		hgt.LinkNeighbours(m.store, ids)
	}

	for _, db := range m.spec.HgtDonorDatabases {
		if err := m.voteDatabase(db, true); err != nil {
			return nil, err
		}
	}
	for _, db := range m.spec.HgtRecipientDatabases {
		if err := m.voteDatabase(db, false); err != nil {
			return nil, err
		}
	}

	warnings := hgt.DetermineCandidates(m.store, m.spec)
	for _, w := range warnings {
		m.fs.Warn(w)
	}
	return nil, nil
}

func (m *HGTModule) voteDatabase(db string, isDonor bool) error {
	path := m.hitPath(db)
	if filestore.Exists(path) != filestore.Ok {
		return nil // spec.md : a database yielding no hits is a warning, not fatal
	}
	sc, f, err := openScanner(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return hgt.ParseSimilarity(m.store, isDonor, db, sc)
}

func (m *HGTModule) Finalize() error {
	if !m.active() {
		return nil
	}
	if m.store.CountWhere(model.HgtBlasted) == 0 {
		return &entaperr.StageError{Stage: m.Name().String(), Reason: "no HGT donor/recipient hits across any configured database"}
	}
	return nil
}
