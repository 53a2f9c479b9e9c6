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

// InterProScan wraps interproscan.sh, producing the TSV this module's
// Family/Ontology parser reads for InterPro annotations.
//
// Usage: interproscan.sh -i <file> -f tsv -o <file>
type InterProScan struct {
	Cmd string `buildarg:"{{if .}}{{.}}{{else}}interproscan.sh{{end}}"`

	Input    string `buildarg:"{{with .}}-i{{split}}{{.}}{{end}}"`    // -i <s>
	Formats  string `buildarg:"{{with .}}-f{{split}}{{.}}{{end}}"`    // -f <s>
	Output   string `buildarg:"{{with .}}-o{{split}}{{.}}{{end}}"`    // -o <s>
	AppList  string `buildarg:"{{with .}}-appl{{split}}{{.}}{{end}}"` // -appl <s>
	GoTerms  bool   `buildarg:"{{if .}}-goterms{{end}}"`              // -goterms
	Pathways bool   `buildarg:"{{if .}}-pa{{end}}"`                   // -pa
	Threads  int    `buildarg:"{{if .}}-cpu{{split}}{{.}}{{end}}"`    // -cpu <n>

	ExtraFlags string
}

func (i InterProScan) BuildCommand() (*exec.Cmd, error) {
	if i.Input == "" {
		return nil, errors.New("interproscan.sh: missing input fasta")
	}
	cl := external.Must(external.Build(i))
	var extra []string
	if i.ExtraFlags != "" {
		extra = strings.Split(i.ExtraFlags, " ")
	}
	return exec.Command(cl[0], append(cl[1:], extra...)...), nil
}
