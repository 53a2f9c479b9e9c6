// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"context"

	"github.com/harta55/entap/internal/family"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/refdata"
	"github.com/harta55/entap/internal/runner"
	"github.com/harta55/entap/internal/runspec"
)

// GeneFamilyModule runs whichever of EggNOG-mapper and InterProScan are
// configured and feeds their output through internal/family . EggNOG-
// via-SQL enrichment (the raw-DIAMOND-seed path) is applied per surviving
// seed ortholog after SimilaritySearch selection, so it is driven from here
// too, against the EggnogDMND hit table already parsed into SimSearchHit
// buckets by the previous stage.
type GeneFamilyModule struct {
	fs       *filestore.FileStore
	spec     *runspec.Spec
	store    *querystore.QueryStore
	query    *FilterModule
	goGraph  *refdata.GoGraph
	eggnogDB *refdata.EggnogSQL
}

// NewGeneFamilyModule returns the GeneFamily stage module. goGraph and
// eggnogDB may be nil when the corresponding RunSpec paths are unset.
func NewGeneFamilyModule(fs *filestore.FileStore, spec *runspec.Spec, store *querystore.QueryStore, query *FilterModule, goGraph *refdata.GoGraph, eggnogDB *refdata.EggnogSQL) *GeneFamilyModule {
	return &GeneFamilyModule{fs: fs, spec: spec, store: store, query: query, goGraph: goGraph, eggnogDB: eggnogDB}
}

func (m *GeneFamilyModule) Name() model.Stage { return model.StageGeneFamily }

func (m *GeneFamilyModule) eggnogMapperPath() string {
	return m.fs.StageDir("ontology", "eggnog_mapper", "annotations.emapper.annotations")
}
func (m *GeneFamilyModule) interproPath() string {
	return m.fs.StageDir("ontology", "interproscan", "interpro.tsv")
}

func (m *GeneFamilyModule) VerifyFiles() (bool, error) {
	ready := true
	any := false
	if m.spec.EggnogMapperExe != "" {
		any = true
		ready = ready && filesReady(m.eggnogMapperPath())
	}
	if m.spec.InterproExe != "" {
		any = true
		ready = ready && filesReady(m.interproPath())
	}
	return any && ready, nil
}

func (m *GeneFamilyModule) Execute(ctx context.Context) error {
	if m.spec.EggnogMapperExe != "" {
		e := runner.EggnogMapper{
			Cmd:         m.spec.EggnogMapperExe,
			Input:       m.query.QueryPath(),
			Output:      m.fs.StageDir("ontology", "eggnog_mapper", "annotations"),
			DataDir:     m.spec.EggnogMapperDataDir,
			Sensitivity: m.spec.EggnogMapperSensitivity,
			Threads:     m.spec.Threads,
		}
		if _, err := m.fs.RunCmd(ctx, "emapper.py", e, "", ""); err != nil {
			return err
		}
	}
	if m.spec.InterproExe != "" {
		i := runner.InterProScan{
			Cmd:     m.spec.InterproExe,
			Input:   m.query.QueryPath(),
			Formats: "tsv",
			Output:  m.interproPath(),
			Threads: m.spec.Threads,
		}
		if _, err := m.fs.RunCmd(ctx, "interproscan.sh", i, "", ""); err != nil {
			return err
		}
	}
	return nil
}

func (m *GeneFamilyModule) Parse() ([]runspec.HeaderToggle, error) {
	if m.spec.EggnogMapperExe != "" && filestore.Exists(m.eggnogMapperPath()) == filestore.Ok {
		sc, f, err := openScanner(m.eggnogMapperPath())
		if err != nil {
			return nil, err
		}
		err = family.ParseEggnogMapper(m.store, m.spec, m.goGraph, m.eggnogMapperPath(), sc)
		f.Close()
		if err != nil {
			return nil, err
		}
	} else if m.eggnogDB != nil {
		if err := m.resolveEggnogSQL(); err != nil {
			return nil, err
		}
	}

	if m.spec.InterproExe != "" && filestore.Exists(m.interproPath()) == filestore.Ok {
		sc, f, err := openScanner(m.interproPath())
		if err != nil {
			return nil, err
		}
		err = family.ParseInterpro(m.store, m.goGraph, m.interproPath(), sc)
		f.Close()
		if err != nil {
			return nil, err
		}
	}
	return nil, nil
}

// resolveEggnogSQL implements the "EggNOG via SQL" path: for every sequence
// whose best SimilaritySearch hit against EggnogDMND survived selection, the
// surviving subject id is treated as the seed ortholog and enriched via the
// reference SQL database.
func (m *GeneFamilyModule) resolveEggnogSQL() error {
	for _, seq := range m.store.All() {
		best, ok := seq.BestOverall()
		if !ok {
			continue
		}
		if best.DatabasePath() != m.spec.EggnogDMND {
			continue
		}
		seedOrtholog, ok := best.Get(model.HeaderSubjectID, 0)
		if !ok {
			continue
		}
		if _, err := family.ResolveEggnogSQL(seq, m.spec, m.goGraph, m.eggnogDB, m.spec.EggnogDMND, seedOrtholog); err != nil {
			return err
		}
	}
	return nil
}

func (m *GeneFamilyModule) Finalize() error { return nil }
