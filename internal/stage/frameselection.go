// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"context"
	"fmt"
	"strings"

	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runner"
	"github.com/harta55/entap/internal/runspec"
)

// FrameSelectionModule wraps GeneMarkS-T, grounded directly on the reference
// implementation's genemarkst/genemark_parse_protein/ genemark_parse_lst:
// gmst.pl's.faa output holds one protein record per kept transcript (header
// "id<TAB>..."), and its.lst file marks a gene's completeness with '<' (5'
// partial) and/or '>' (3' partial) around the coordinate line directly
// following a "FASTA:<id>" marker.
type FrameSelectionModule struct {
	fs    *filestore.FileStore
	spec  *runspec.Spec
	store *querystore.QueryStore
}

// NewFrameSelectionModule returns the FrameSelection stage module.
func NewFrameSelectionModule(fs *filestore.FileStore, spec *runspec.Spec, store *querystore.QueryStore) *FrameSelectionModule {
	return &FrameSelectionModule{fs: fs, spec: spec, store: store}
}

func (m *FrameSelectionModule) Name() model.Stage { return model.StageFrameSelection }

func (m *FrameSelectionModule) faaPath() string { return m.fs.StageDir("frame_selection", "transcripts.faa") }
func (m *FrameSelectionModule) fnnPath() string { return m.fs.StageDir("frame_selection", "transcripts.fnn") }
func (m *FrameSelectionModule) lstPath() string { return m.fs.StageDir("frame_selection", "transcripts.lst") }

func (m *FrameSelectionModule) VerifyFiles() (bool, error) {
	return filesReady(m.faaPath(), m.lstPath()), nil
}

func (m *FrameSelectionModule) Execute(ctx context.Context) error {
	if m.spec.GenemarkExe == "" {
		return nil
	}
	g := runner.GenemarkST{
		Cmd:       m.spec.GenemarkExe,
		Output:    m.fs.StageDir("frame_selection", "transcripts"),
		Faa:       true,
		Fnn:       true,
		FastaFile: m.spec.Transcriptome,
	}
	_, err := m.fs.RunCmd(ctx, "gmst.pl", g, "", "")
	return err
}

func (m *FrameSelectionModule) Parse() ([]runspec.HeaderToggle, error) {
	if filestore.Exists(m.faaPath()) != filestore.Ok {
		m.flagAllKept()
		return nil, nil
	}

	frames := make(map[string]model.Frame)
	if err := m.parseLst(frames); err != nil {
		return nil, err
	}
	if err := m.parseFaa(frames); err != nil {
		return nil, err
	}
	return nil, nil
}

// parseLst reads the.lst coordinate file, setting frames[id] for every gene
// record it finds (its genemark_parse_lst).
func (m *FrameSelectionModule) parseLst(frames map[string]model.Frame) error {
	path := m.lstPath()
	sc, f, err := openScanner(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var curID string
	for sc.Scan() {
		line := strings.Join(strings.Fields(sc.Text()), "")
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "FASTA"):
			if i := strings.Index(line, ":"); i >= 0 {
				curID = line[i+1:]
			}
		case line[0] >= '0' && line[0] <= '9':
			if curID == "" {
				continue
			}
			partial5 := strings.Contains(line, "<")
			partial3 := strings.Contains(line, ">")
			switch {
			case partial5 && partial3:
				frames[curID] = model.FrameInternal
			case partial5:
				frames[curID] = model.FramePartial5
			case partial3:
				frames[curID] = model.FramePartial3
			default:
				frames[curID] = model.FrameComplete
			}
		}
	}
	if err := sc.Err(); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoRead, Path: path, Err: err}
	}
	return nil
}

// parseFaa reads the protein FASTA, attaching Protein and FrameState to
// every matching QuerySequence and setting FrameKept.
func (m *FrameSelectionModule) parseFaa(frames map[string]model.Frame) error {
	path := m.faaPath()
	sc, f, err := openScanner(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var cur *model.QuerySequence
	var body strings.Builder
	flush := func() {
		if cur == nil {
			return
		}
		cur.Protein = body.String()
		cur.Flags = cur.Flags.Set(model.FrameKept)
		if fr, ok := frames[cur.ID]; ok {
			cur.FrameState = fr
		}
	}

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		if line[0] == '>' {
			flush()
			body.Reset()
			id := line[1:]
			if i := strings.IndexByte(id, '\t'); i >= 0 {
				id = id[:i]
			}
			seq, ok := m.store.Get(id)
			if !ok {
				return &entaperr.ParseError{File: path, Line: lineNo, Reason: fmt.Sprintf("unknown sequence id %q", id)}
			}
			cur = seq
			continue
		}
		body.WriteString(strings.TrimSpace(line))
	}
	flush()
	if err := sc.Err(); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoRead, Path: path, Err: err}
	}
	return nil
}

func (m *FrameSelectionModule) flagAllKept() {
	for _, seq := range m.store.All() {
		seq.Flags = seq.Flags.Set(model.FrameKept)
		seq.FrameState = model.FrameComplete
	}
}

func (m *FrameSelectionModule) Finalize() error {
	if m.store.CountWhere(model.FrameKept) == 0 {
		return &entaperr.StageError{Stage: m.Name().String(), Reason: "no sequences kept during frame selection"}
	}
	return nil
}
