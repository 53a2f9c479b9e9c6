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

// Busco wraps the busco command, writing full_table.tsv inside
// <OutputDir>/<Name>/run_<Lineage>.
//
// Usage: busco -i <file> -o <s> -l <s> -m <s>
type Busco struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}busco{{end}}"`

	Input     string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"` // -i <s>
	Name      string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"` // -o <s>
	OutputDir string `buildarg:"{{with .}}--out_path{{split}}{{.}}{{end}}"`
	Lineage   string `buildarg:"{{with .}}-l{{split}}{{.}}{{end}}"` // -l <s>
	Mode      string `buildarg:"{{with .}}-m{{split}}{{.}}{{end}}"` // -m <s>
	Force     bool   `buildarg:"{{if .}}-f{{end}}"`                 // -f
	Threads   int    `buildarg:"{{if .}}-c{{split}}{{.}}{{end}}"`   // -c <n>

	ExtraFlags string
}

func (b Busco) BuildCommand() (*exec.Cmd, error) {
	if b.Input == "" {
		return nil, errors.New("busco: missing input fasta")
	}
	if b.Lineage == "" {
		return nil, errors.New("busco: missing lineage dataset")
	}
	cl := external.Must(external.Build(b))
	var extra []string
	if b.ExtraFlags != "" {
		extra = strings.Split(b.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}

// VersionCommand builds the "busco --version" invocation used to gate which
// major version this engine supports (only major version 4 is supported).
func VersionCommand(exePath string) *exec.Cmd {
	if exePath == "" {
		exePath = "busco"
	}
	return exec.Command(exePath, "--version")
}
