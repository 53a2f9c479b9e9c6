// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package refdata implements RefData: the read-only reference layer consumed
// by every parser — taxonomy lookup, the Gene Ontology graph, UniProt cross
// references, EggNOG SQL queries, and a batched NCBI Entrez client. Every
// lookup here is populated once at startup and is safe for concurrent
// readers thereafter.
package refdata

import (
	"bufio"
	"io"
	"strings"

	"github.com/harta55/entap/internal/model"
)

// Taxonomy resolves a species string to a TaxEntry by a lowered, substring-
// chained lookup: exact match, then progressively drop trailing words,
// stopping on the first hit.
type Taxonomy struct {
	byName map[string]model.TaxEntry
}

// NewTaxonomy loads a tab-separated taxonomy table: `tax_id	scientific_name	lineage`.
func NewTaxonomy(r io.Reader) (*Taxonomy, error) {
	t := &Taxonomy{byName: make(map[string]model.TaxEntry)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		entry := model.TaxEntry{TaxID: fields[0], ScientificName: fields[1], Lineage: fields[2]}
		t.byName[strings.ToLower(entry.ScientificName)] = entry
	}
	return t, sc.Err()
}

// TaxEntry resolves species, per the word-dropping algorithm.
func (t *Taxonomy) TaxEntry(species string) (model.TaxEntry, bool) {
	words := strings.Fields(strings.ToLower(species))
	for len(words) > 0 {
		key := strings.Join(words, " ")
		if e, ok := t.byName[key]; ok {
			return e, true
		}
		words = words[:len(words)-1]
	}
	return model.TaxEntry{}, false
}

// IsContaminant reports whether tag is a token of lineage, per the
// `is_contaminant(lineage, tag):= tag ∈ tokens(lineage)`.
func IsContaminant(lineage, tag string) bool {
	lineage = strings.ToLower(lineage)
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return false
	}
	for _, tok := range strings.Split(lineage, ";") {
		if strings.TrimSpace(tok) == tag {
			return true
		}
	}
	return false
}
