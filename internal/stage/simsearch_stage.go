// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/refdata"
	"github.com/harta55/entap/internal/runner"
	"github.com/harta55/entap/internal/runspec"
	"github.com/harta55/entap/internal/simsearch"
)

// SimilaritySearchModule runs one DIAMOND search per configured database and
// feeds every resulting hit table through internal/simsearch's parser and
// selector .
type SimilaritySearchModule struct {
	fs      *filestore.FileStore
	spec    *runspec.Spec
	store   *querystore.QueryStore
	query   *FilterModule
	tax     *refdata.Taxonomy
	uniprot *refdata.Uniprot
	entrez  *refdata.Entrez
}

// NewSimilaritySearchModule returns the SimilaritySearch stage module. query
// supplies the FASTA path Filter produced; tax, uniprot and entrez may be
// nil (entrez is nil unless the optional NCBI fallback was enabled via
// -entrez).
func NewSimilaritySearchModule(fs *filestore.FileStore, spec *runspec.Spec, store *querystore.QueryStore, query *FilterModule, tax *refdata.Taxonomy, uniprot *refdata.Uniprot, entrez *refdata.Entrez) *SimilaritySearchModule {
	return &SimilaritySearchModule{fs: fs, spec: spec, store: store, query: query, tax: tax, uniprot: uniprot, entrez: entrez}
}

func (m *SimilaritySearchModule) Name() model.Stage { return model.StageSimilaritySearch }

func (m *SimilaritySearchModule) hitPath(db string) string {
	return m.fs.StageDir("similarity_search", filepath.Base(db)+".tsv")
}

func (m *SimilaritySearchModule) VerifyFiles() (bool, error) {
	for _, db := range m.spec.SimSearchDatabases {
		if !filesReady(m.hitPath(db)) {
			return false, nil
		}
	}
	return len(m.spec.SimSearchDatabases) > 0, nil
}

func (m *SimilaritySearchModule) Execute(ctx context.Context) error {
	sub := "blastp"
	if m.spec.RunNucleotide {
		sub = "blastx"
	}
	for _, db := range m.spec.SimSearchDatabases {
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
		if _, err := m.fs.RunCmd(ctx, "diamond", s, "", ""); err != nil {
			return err
		}
	}
	return nil
}

func (m *SimilaritySearchModule) Parse() ([]runspec.HeaderToggle, error) {
	var toggles []runspec.HeaderToggle
	for _, db := range m.spec.SimSearchDatabases {
		path := m.hitPath(db)
		if filestore.Exists(path) != filestore.Ok {
			continue // spec.md : a downstream database file empty while others hold data is a warning, not fatal
		}

		// A Parser is scoped to a single database: the UniProt-detection attempt limit detection
		// applies per database, not across every configured database in the run.
		parser := simsearch.NewParser(m.store, m.spec, m.tax, m.uniprot)

		if m.entrez != nil {
			ids, err := collectSubjectIDs(path)
			if err != nil {
				return nil, err
			}
			geneIDs, err := m.entrez.FetchGeneIDs(context.Background(), ids)
			if err != nil {
				// : DatabaseError is recoverable when the affected feature is optional;
				// the Entrez fallback only ever supplements a hit already in the table.
				m.fs.Warn("entrez GeneID lookup unavailable for " + db + ": " + err.Error())
			} else {
				parser.SetGeneIDs(geneIDs)
			}
		}

		sc, f, err := openScanner(path)
		if err != nil {
			return nil, err
		}
		toggle, err := parser.ParseFile(model.StageSimilaritySearch, "diamond", db, sc)
		f.Close()
		if err != nil {
			return nil, err
		}
		if len(toggle.Headers) > 0 {
			toggles = append(toggles, toggle)
		}
	}
	return toggles, nil
}

// collectSubjectIDs reads the sseqid column (the 14-column layout, index 1)
// of every row in path, deduplicated, for the Entrez batch lookup to resolve
// before Parse's per-row pass runs ("fire-and-wait requests that complete
// before the stage's parse step begins").
func collectSubjectIDs(path string) ([]string, error) {
	sc, f, err := openScanner(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seen := make(map[string]bool)
	var ids []string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			continue
		}
		id := fields[1]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, &entaperr.IoError{Kind: entaperr.IoRead, Path: path, Err: err}
	}
	return ids, nil
}

func (m *SimilaritySearchModule) Finalize() error {
	if m.store.CountWhere(model.SimHit) == 0 && len(m.spec.SimSearchDatabases) > 0 {
		return &entaperr.StageError{Stage: m.Name().String(), Reason: "no similarity search hits across any configured database"}
	}
	return nil
}
