// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"context"
	"os/exec"
	"path/filepath"

	"github.com/harta55/entap/internal/family"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runner"
	"github.com/harta55/entap/internal/runspec"
)

// BuscoModule runs the BUSCO completeness assessment and attaches its per-
// sequence results via internal/family ("BUSCO path"). It is a terminal,
// independent stage: unlike GeneFamily it does not gate on a best
// SimilaritySearch hit, so it runs against the same filtered query FASTA
// regardless of what SimilaritySearch/GeneFamily found.
type BuscoModule struct {
	fs      *filestore.FileStore
	spec    *runspec.Spec
	store   *querystore.QueryStore
	query   *FilterModule
	lineage string
}

// NewBuscoModule returns the Busco stage module.
func NewBuscoModule(fs *filestore.FileStore, spec *runspec.Spec, store *querystore.QueryStore, query *FilterModule) *BuscoModule {
	return &BuscoModule{fs: fs, spec: spec, store: store, query: query, lineage: filepath.Base(spec.BuscoDatabase)}
}

func (m *BuscoModule) Name() model.Stage { return model.StageBusco }

func (m *BuscoModule) active() bool { return m.spec.BuscoDatabase != "" }

func (m *BuscoModule) runDir() string {
	return m.fs.StageDir("ontology", "busco")
}

func (m *BuscoModule) fullTablePath() string {
	return filepath.Join(m.runDir(), "busco_run", "run_"+m.lineage, "full_table.tsv")
}

func (m *BuscoModule) VerifyFiles() (bool, error) {
	if !m.active() {
		return false, nil
	}
	return filesReady(m.fullTablePath()), nil
}

func (m *BuscoModule) Execute(ctx context.Context) error {
	if !m.active() {
		return nil
	}
	verRes, err := m.fs.RunCmd(ctx, "busco", versionBuilder{m.spec.BuscoExe}, "", "")
	if err != nil {
		return err
	}
	if _, _, _, err := runner.ParseBuscoVersion(string(verRes.Stdout) + string(verRes.Stderr)); err != nil {
		return err
	}

	mode := "prot"
	if m.spec.RunNucleotide {
		mode = "transcriptome"
	}
	b := runner.Busco{
		Cmd:       m.spec.BuscoExe,
		Input:     m.query.QueryPath(),
		Name:      "busco_run",
		OutputDir: m.runDir(),
		Lineage:   m.spec.BuscoDatabase,
		Mode:      mode,
		Force:     true,
		Threads:   m.spec.Threads,
	}
	_, err = m.fs.RunCmd(ctx, "busco", b, "", "")
	return err
}

func (m *BuscoModule) Parse() ([]runspec.HeaderToggle, error) {
	if !m.active() {
		return nil, nil
	}
	path := m.fullTablePath()
	if filestore.Exists(path) != filestore.Ok {
		return nil, nil
	}
	sc, f, err := openScanner(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	_, err = family.ParseBuscoFullTable(m.store, m.spec.BuscoDatabase, sc)
	if err != nil {
		return nil, err
	}
	return nil, nil
}

func (m *BuscoModule) Finalize() error { return nil }

// versionBuilder adapts runner.VersionCommand, which returns a bare
// *exec.Cmd, to the runner.Builder interface FileStore.RunCmd expects.
type versionBuilder struct{ exe string }

func (v versionBuilder) BuildCommand() (*exec.Cmd, error) {
	return runner.VersionCommand(v.exe), nil
}
