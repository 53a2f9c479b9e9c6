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

// EggnogMapper wraps emapper.py, producing the 21-column annotations TSV
// parsed by the Family/Ontology parser.
//
// Usage: emapper.py -i <file> --output <s> --data_dir <s> -m diamond
type EggnogMapper struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}emapper.py{{end}}"`

	Input       string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"`           // -i <s>
	Output      string `buildarg:"{{with .}}--output{{split}}{{.}}{{end}}"`     // --output <s>
	OutputDir   string `buildarg:"{{with .}}--output_dir{{split}}{{.}}{{end}}"` // --output_dir <s>
	DataDir     string `buildarg:"{{with .}}--data_dir{{split}}{{.}}{{end}}"`   // --data_dir <s>
	Sensitivity string `buildarg:"{{with .}}-m{{split}}{{.}}{{end}}"`           // -m <s>
	Threads     int    `buildarg:"{{if .}}--cpu{{split}}{{.}}{{end}}"`          // --cpu <n>

	ExtraFlags string
}

func (e EggnogMapper) BuildCommand() (*exec.Cmd, error) {
	if e.Input == "" {
		return nil, errors.New("emapper.py: missing input fasta")
	}
	if e.Output == "" {
		return nil, errors.New("emapper.py: missing output prefix")
	}
	cl := external.Must(external.Build(e))
	var extra []string
	if e.ExtraFlags != "" {
		extra = strings.Split(e.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// AnnotationsPath returns the path emapper.py writes the annotations TSV
// to.
func (e EggnogMapper) AnnotationsPath() string {
	return e.Output + ".emapper.annotations"
}
