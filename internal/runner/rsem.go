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

// RSEMPrepareReference wraps rsem-prepare-reference, building the
// reference used by RSEMCalculateExpression.
//
// Usage: rsem-prepare-reference <reference-fasta> <reference-name>
type RSEMPrepareReference struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}rsem-prepare-reference{{end}}"`

	ReferenceFasta string `buildarg:"{{.}}"`
	ReferenceName  string `buildarg:"{{.}}"`

	ExtraFlags string
}

func (r RSEMPrepareReference) BuildCommand() (*exec.Cmd, error) {
	if r.ReferenceFasta == "" || r.ReferenceName == "" {
		return nil, errors.New("rsem-prepare-reference: missing reference fasta or name")
	}
	cl := external.Must(external.Build(r))
	var extra []string
	if r.ExtraFlags != "" {
		extra = strings.Split(r.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// RSEMCalculateExpression wraps rsem-calculate-expression, producing the
// FPKM/TPM values consumed by the Expression stage.
//
// Usage: rsem-calculate-expression [--paired-end] <reads> [<reads2>] <reference-name> <sample-name>
type RSEMCalculateExpression struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}rsem-calculate-expression{{end}}"`

	PairedEnd bool   `buildarg:"{{if .}}--paired-end{{end}}"` // --paired-end
	Threads   int    `buildarg:"{{if .}}-p{{split}}{{.}}{{end}}"`
	Reads1    string `buildarg:"{{.}}"`
	Reads2    string `buildarg:"{{with .}}{{.}}{{end}}"`

	ReferenceName string `buildarg:"{{.}}"`
	SampleName    string `buildarg:"{{.}}"`

	ExtraFlags string
}

func (r RSEMCalculateExpression) BuildCommand() (*exec.Cmd, error) {
	if r.Reads1 == "" {
		return nil, errors.New("rsem-calculate-expression: missing reads file")
	}
	if r.ReferenceName == "" || r.SampleName == "" {
		return nil, errors.New("rsem-calculate-expression: missing reference or sample name")
	}
	cl := external.Must(external.Build(r))
	var extra []string
	if r.ExtraFlags != "" {
		extra = strings.Split(r.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// GenesResultsPath returns the path rsem-calculate-expression writes the
// per-transcript FPKM/TPM table to.
func (r RSEMCalculateExpression) GenesResultsPath() string {
	return r.SampleName + ".genes.results"
}
