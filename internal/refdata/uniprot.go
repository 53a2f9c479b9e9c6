// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"bufio"
	"io"
	"strings"

	"github.com/harta55/entap/internal/model"
)

// UniprotPayload is the set of cross references returned for a resolved
// UniProt accession.
type UniprotPayload struct {
	DatabaseXRefs []string
	KEGG          []string
	Comments      string
	GOBiological  []model.GoEntry
	GOCellular    []model.GoEntry
	GOMolecular   []model.GoEntry
}

// Uniprot offers uniprot_entry(sseqid) lookups over a preloaded table.
// Presence in this index is what lets the similarity search parser flip a
// database to "UniProt mode" after the first resolved hit within
// the UniProt-detection attempt limit rows; detection itself lives in internal/simsearch, which
// only needs Lookup here.
type Uniprot struct {
	entries map[string]UniprotPayload
	goGraph *GoGraph
}

// NewUniprot loads a tab-separated UniProt cross-reference table:
// `accession	db_xrefs(;-sep)	kegg(;-sep)	comments	go_ids(,-sep)`. go_ids are
// resolved against graph so their category/level are populated.
func NewUniprot(r io.Reader, graph *GoGraph) (*Uniprot, error) {
	u := &Uniprot{entries: make(map[string]UniprotPayload), goGraph: graph}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 5 {
			continue
		}
		payload := UniprotPayload{
			DatabaseXRefs: splitNonEmpty(fields[1], ";"),
			KEGG:          splitNonEmpty(fields[2], ";"),
			Comments:      fields[3],
		}
		for _, e := range graph.FormatGoDelim(fields[4], ",") {
			switch e.Category {
			case model.GoCategoryBiological:
				payload.GOBiological = append(payload.GOBiological, e)
			case model.GoCategoryCellular:
				payload.GOCellular = append(payload.GOCellular, e)
			case model.GoCategoryMolecular:
				payload.GOMolecular = append(payload.GOMolecular, e)
			}
		}
		u.entries[fields[0]] = payload
	}
	return u, sc.Err()
}

func splitNonEmpty(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// UniprotEntry resolves sseqid to its UniProt cross references.
func (u *Uniprot) UniprotEntry(sseqid string) (UniprotPayload, bool) {
	p, ok := u.entries[sseqid]
	return p, ok
}
