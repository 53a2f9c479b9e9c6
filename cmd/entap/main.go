// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// entap is the functional annotation pipeline for de novo assembled
// transcriptomes described by. It drives the staged executor
// (internal/stage) over a QueryStore (internal/querystore) built from an
// input transcriptome, using external tools wrapped by internal/runner and
// reference data loaded by internal/refdata, and composes the final
// annotated/unannotated/entap_report outputs via internal/output.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/output"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/refdata"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runspec"
	"github.com/harta55/entap/internal/stage"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run builds a Spec from args, drives the pipeline to completion, and
// returns the process exit code: 0 on success, else the numeric category
// entaperr.ExitCode assigns the failing error.
func run(args []string) int {
	b := &runspec.Builder{}
	fs := flag.NewFlagSet("entap", flag.ContinueOnError)
	b.RegisterFlags(fs)
	fs.String("config", "", "path to a YAML config file overlaying flag defaults (see RegisterFlags/LoadYAML precedence)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage of entap:\n  entap -runN|-runP -input <fasta> -out_dir <dir> -databases <db> [options]\n\n")
		fs.PrintDefaults()
	}

	// LoadYAML must run after RegisterFlags (so its decode target
	// already carries every flag default) but before fs.Parse (so an
	// explicit flag always wins over the config file); that means the
	// config path itself has to be found without a full parse, hence
	// this narrow pre-scan instead of a second fs.Parse pass.
	if path := configPathFrom(args); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return reportAndExit(&entaperr.ConfigError{Field: "config", Reason: err.Error()})
		}
		err = b.LoadYAML(f)
		f.Close()
		if err != nil {
			return reportAndExit(err)
		}
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return reportAndExit(&entaperr.ConfigError{Field: "flags", Reason: err.Error()})
	}

	spec, err := b.Validate()
	if err != nil {
		return reportAndExit(err)
	}

	if err := runPipeline(spec); err != nil {
		return reportAndExit(err)
	}
	return entaperr.ExitOK
}

// configPathFrom scans args for "-config"/"--config" without invoking
// the full flag.FlagSet, since the config file's contents must be
// loaded before that FlagSet is parsed.
func configPathFrom(args []string) string {
	for i, a := range args {
		switch {
		case a == "-config" || a == "--config":
			if i+1 < len(args) {
				return args[i+1]
			}
		case len(a) > 8 && a[:8] == "-config=":
			return a[8:]
		case len(a) > 9 && a[:9] == "--config=":
			return a[9:]
		}
	}
	return ""
}

// reportAndExit prints err as a single structured stderr line and returns
// the exit code entaperr.ExitCode classifies it as.
func reportAndExit(err error) int {
	bold := color.New(color.FgRed, color.Bold)
	bold.Fprint(os.Stderr, "Error: ")
	fmt.Fprintln(os.Stderr, err)
	return entaperr.ExitCode(err)
}

// runPipeline is the core of the program: build every component from
// spec, drive the stage executor, and compose the final outputs.
func runPipeline(spec *runspec.Spec) error {
	rc, err := runctx.New(spec.OutDir)
	if err != nil {
		return &entaperr.IoError{Kind: entaperr.IoPath, Path: spec.OutDir, Err: err}
	}
	defer rc.Close()

	store := filestore.New(spec.OutDir, spec.Overwrite, rc)
	if err := store.CreateRunLayout(); err != nil {
		return err
	}

	rc.Transcript.Printf("loading transcriptome %s", spec.Transcriptome)
	qs, err := loadTranscriptome(spec)
	if err != nil {
		return err
	}
	summary := qs.Summary()
	rc.Transcript.Printf("sequences=%d total_length=%d n50=%d n90=%d min=%d max=%d avg=%.1f gc=%.1f%%",
		summary.Count, summary.TotalLength, summary.N50, summary.N90, summary.Min, summary.Max, summary.Avg, summary.GCContent)

	ref, err := loadRefData(spec, store)
	if err != nil {
		return err
	}
	defer ref.Close()

	query := stage.NewFilterModule(store, qs)
	modules := []stage.Module{
		stage.NewExpressionModule(store, spec, qs),
		stage.NewFrameSelectionModule(store, spec, qs),
		query,
		stage.NewSimilaritySearchModule(store, spec, qs, query, ref.tax, ref.uniprot, ref.entrez),
		stage.NewGeneFamilyModule(store, spec, qs, query, ref.goGraph, ref.eggnogSQL),
		stage.NewHGTModule(store, spec, qs, query, rc),
		stage.NewBuscoModule(store, spec, qs, query),
	}

	executor, err := stage.NewExecutor(spec.OutDir, rc, spec, qs, modules)
	if err != nil {
		return err
	}
	defer executor.Close()

	if err := executor.Run(context.Background()); err != nil {
		return err
	}

	rc.Transcript.Print("composing final results")
	return composeFinalResults(store, spec, qs)
}

// refBundle holds every RefData source a run may configure; any field may be
// nil when its source file/database was not given (interfaces degrade to
// "always unresolved" rather than failing the run, except where a parser
// treats the absence as fatal itself).
type refBundle struct {
	tax       *refdata.Taxonomy
	goGraph   *refdata.GoGraph
	uniprot   *refdata.Uniprot
	eggnogSQL *refdata.EggnogSQL
	entrez    *refdata.Entrez
}

func (r *refBundle) Close() error {
	if r.eggnogSQL != nil {
		return r.eggnogSQL.Close()
	}
	return nil
}

func loadRefData(spec *runspec.Spec, fsRoot *filestore.FileStore) (*refBundle, error) {
	var ref refBundle

	if spec.GoGraphPath != "" {
		f, err := os.Open(spec.GoGraphPath)
		if err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseGO, Detail: spec.GoGraphPath, Err: err}
		}
		ref.goGraph, err = refdata.NewGoGraph(f)
		f.Close()
		if err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseGO, Detail: spec.GoGraphPath, Err: err}
		}
	}

	if spec.TaxonomyPath != "" {
		f, err := os.Open(spec.TaxonomyPath)
		if err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseTaxonomy, Detail: spec.TaxonomyPath, Err: err}
		}
		ref.tax, err = refdata.NewTaxonomy(f)
		f.Close()
		if err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseTaxonomy, Detail: spec.TaxonomyPath, Err: err}
		}
	}

	if spec.UniprotPath != "" {
		f, err := os.Open(spec.UniprotPath)
		if err != nil {
			// UniProt cross-references are an optional enrichment ("recoverable when
			// the affected feature is optional"); warn and continue without it.
			fsRoot.Warn(fmt.Sprintf("uniprot database unavailable: %v", err))
		} else {
			ref.uniprot, err = refdata.NewUniprot(f, ref.goGraph)
			f.Close()
			if err != nil {
				fsRoot.Warn(fmt.Sprintf("uniprot database unreadable: %v", err))
				ref.uniprot = nil
			}
		}
	}

	if spec.EggnogSQL != "" {
		sql, err := refdata.OpenEggnogSQL(spec.EggnogSQL)
		if err != nil {
			return nil, &entaperr.DatabaseError{Kind: entaperr.DatabaseEggnogSQL, Detail: spec.EggnogSQL, Err: err}
		}
		ref.eggnogSQL = sql
	}

	if spec.UseEntrez {
		ref.entrez = refdata.NewEntrez(spec.EntrezDatabase, nil)
	}

	return &ref, nil
}

func loadTranscriptome(spec *runspec.Spec) (*querystore.QueryStore, error) {
	f, err := os.Open(spec.Transcriptome)
	if err != nil {
		return nil, &entaperr.IoError{Kind: entaperr.IoRead, Path: spec.Transcriptome, Err: err}
	}
	defer f.Close()

	qs := querystore.New()
	if err := qs.LoadFASTA(f, spec.NoTrim); err != nil {
		return nil, err
	}
	if qs.Len() == 0 {
		return nil, &entaperr.ParseError{File: spec.Transcriptome, Reason: "no sequences found"}
	}
	return qs, nil
}

// composeFinalResults renders every configured output format across the
// annotated/unannotated/contam-split/report bases.
func composeFinalResults(fsRoot *filestore.FileStore, spec *runspec.Spec, qs *querystore.QueryStore) error {
	composer := output.New(fsRoot, spec)
	expressionRan := containsStage(spec.Stages, model.StageExpression)

	bases := map[string]string{
		"annotated":           fsRoot.Path("final_results", "annotated", "annotated"),
		"unannotated":         fsRoot.Path("final_results", "unannotated", "unannotated"),
		"annotated_contam":    fsRoot.Path("final_results", "annotated_contam", "annotated_contam"),
		"annotated_no_contam": fsRoot.Path("final_results", "annotated_no_contam", "annotated_no_contam"),
		"entap_report":        fsRoot.Path("final_results", "entap_report", "entap_report"),
	}
	for _, base := range bases {
		if _, err := composer.Open(base, expressionRan); err != nil {
			return err
		}
	}
	defer func() {
		for _, base := range bases {
			composer.Close(base)
		}
	}()

	for _, seq := range qs.All() {
		best, _ := seq.BestOverall()
		annotated := seq.Flags.Has(model.SimHit) || seq.Flags.Has(model.FamilyAssigned)

		target := bases["unannotated"]
		if annotated {
			target = bases["annotated"]
		}
		if err := composer.Add(target, seq, best, expressionRan); err != nil {
			return err
		}
		if err := composer.Add(bases["entap_report"], seq, best, expressionRan); err != nil {
			return err
		}

		if !annotated {
			continue
		}
		contamBase := bases["annotated_no_contam"]
		if seq.Flags.Has(model.Contaminant) {
			contamBase = bases["annotated_contam"]
		}
		if err := composer.Add(contamBase, seq, best, expressionRan); err != nil {
			return err
		}
	}
	return nil
}

func containsStage(stages []model.Stage, s model.Stage) bool {
	for _, st := range stages {
		if st == s {
			return true
		}
	}
	return false
}
