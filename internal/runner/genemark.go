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

// GenemarkST wraps gmst.pl (GeneMarkS-T), the frame selection tool used when
// no alignment-based frame evidence is available.
//
// Usage: gmst.pl --output <file> --format <s> <fasta>
type GenemarkST struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}gmst.pl{{end}}"`

	Output string `buildarg:"{{with .}}--output{{split}}{{.}}{{end}}"` // --output <s>
	Format string `buildarg:"{{with .}}--format{{split}}{{.}}{{end}}"` // --format <s>
	Faa    bool   `buildarg:"{{if .}}--faa{{end}}"`                    // --faa
	Fnn    bool   `buildarg:"{{if .}}--fnn{{end}}"`                    // --fnn

	FastaFile string `buildarg:"{{.}}"`

	ExtraFlags string
}

func (g GenemarkST) BuildCommand() (*exec.Cmd, error) {
	if g.FastaFile == "" {
		return nil, errors.New("gmst.pl: missing fasta file")
	}
	cl := external.Must(external.Build(g))
	var extra []string
	if g.ExtraFlags != "" {
		extra = strings.Split(g.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}
