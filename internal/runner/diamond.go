// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runner

import (
	"errors"
	"os/exec"
	"strings"

	"github.com/biogo/external"
)

// DiamondMakeDB builds a DIAMOND database from a protein FASTA.
//
// Usage: diamond makedb --in <file> -d <file>
type DiamondMakeDB struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}diamond{{end}}"` // diamond

	Sub string `buildarg:"makedb"` // makedb

	In      string `buildarg:"{{with .}}--in{{split}}{{.}}{{end}}"` // --in <s>
	DB      string `buildarg:"{{with .}}-d{{split}}{{.}}{{end}}"`   // -d <s>
	Threads int    `buildarg:"{{if .}}-p{{split}}{{.}}{{end}}"`     // -p <n>

	// ExtraFlags will be passed through to diamond as flags.
	ExtraFlags string
}

func (m DiamondMakeDB) BuildCommand() (*exec.Cmd, error) {
	if m.In == "" {
		return nil, errors.New("diamond makedb: missing input fasta")
	}
	if m.DB == "" {
		return nil, errors.New("diamond makedb: missing database name")
	}
	cl := external.Must(external.Build(m))
	var extra []string
	if m.ExtraFlags != "" {
		extra = strings.Split(m.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// DiamondSearch runs a similarity search (blastx for nucleotide queries,
// blastp for protein queries) against a DIAMOND database, producing the
// 14-column outformat-6 layout expects.
//
// Usage: diamond blastp -d <file> -q <file> -o <file>
type DiamondSearch struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}diamond{{end}}"` // diamond

	// Sub is "blastp" or "blastx", chosen by the caller according to
	// RunSpec.RunProtein/RunNucleotide.
	Sub string `buildarg:"{{.}}"`

	Database string `buildarg:"{{with .}}-d{{split}}{{.}}{{end}}"`        // -d <s>
	Query    string `buildarg:"{{with .}}-q{{split}}{{.}}{{end}}"`        // -q <s>
	Out      string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"`        // -o <s>
	OutFmt   string `buildarg:"{{with .}}-f{{split}}{{.}}{{end}}"`        // -f <s>
	EValue   float64 `buildarg:"{{if .}}-e{{split}}{{.}}{{end}}"`         // -e <f>
	QueryCover   float64 `buildarg:"{{if .}}--query-cover{{split}}{{.}}{{end}}"`    // --query-cover <f>
	SubjectCover float64 `buildarg:"{{if .}}--subject-cover{{split}}{{.}}{{end}}"`  // --subject-cover <f>
	MaxTargetSeqs int    `buildarg:"{{if .}}-k{{split}}{{.}}{{end}}"`               // -k <n>
	Sensitive     bool   `buildarg:"{{if .}}--sensitive{{end}}"`                    // --sensitive
	Threads       int    `buildarg:"{{if .}}-p{{split}}{{.}}{{end}}"`               // -p <n>

	// ExtraFlags will be passed through to diamond as flags.
	ExtraFlags string
}

func (s DiamondSearch) BuildCommand() (*exec.Cmd, error) {
	if s.Database == "" {
		return nil, errors.New("diamond: missing database")
	}
	if s.Query == "" {
		return nil, errors.New("diamond: missing query")
	}
	cl := external.Must(external.Build(s))
	var extra []string
	if s.ExtraFlags != "" {
		extra = strings.Split(s.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}
