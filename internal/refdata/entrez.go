// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/harta55/entap/internal/entaperr"
)

// entrezBatchSize is the NCBI Entrez batching limit used by the similarity
// search stage when resolving NCBI hits that fall outside the local
// taxonomy/UniProt tables ("background batching of NCBI Entrez requests in
// groups of 100 accessions").
const entrezBatchSize = 100

const efetchBaseURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

var (
	locusRe  = regexp.MustCompile(`^LOCUS\s+(\S+)`)
	geneIDRe = regexp.MustCompile(`/db_xref="GeneID:([^"]+)"`)
)

// Entrez is a batched client over NCBI's efetch GP-flat endpoint. It
// preserves the caller's original, possibly versioned accession (e.g.
// XP_014245616.1) as the result map key even though NCBI's LOCUS line
// reports the unversioned accession.
type Entrez struct {
	client   *http.Client
	database string
	baseURL  string
}

// NewEntrez builds a client against the given Entrez database (e.g.
// "protein"), using client for requests, or http.DefaultClient if nil.
func NewEntrez(database string, client *http.Client) *Entrez {
	if client == nil {
		client = http.DefaultClient
	}
	return &Entrez{client: client, database: database, baseURL: efetchBaseURL}
}

// FetchGeneIDs resolves /db_xref="GeneID:X" for every accession in
// accessions, batching requests in groups of up to entrezBatchSize and
// keying the result by the caller's original accession string.
func (e *Entrez) FetchGeneIDs(ctx context.Context, accessions []string) (map[string]string, error) {
	result := make(map[string]string, len(accessions))
	for start := 0; start < len(accessions); start += entrezBatchSize {
		end := start + entrezBatchSize
		if end > len(accessions) {
			end = len(accessions)
		}
		batch := accessions[start:end]
		if err := e.fetchBatch(ctx, batch, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (e *Entrez) fetchBatch(ctx context.Context, batch []string, result map[string]string) error {
	unversioned := make(map[string]string, len(batch))
	ids := make([]string, 0, len(batch))
	for _, acc := range batch {
		if acc == "" {
			continue
		}
		base := acc
		if dot := strings.IndexByte(acc, '.'); dot >= 0 {
			base = acc[:dot]
		}
		unversioned[base] = acc
		ids = append(ids, acc)
	}
	if len(ids) == 0 {
		return nil
	}

	query := url.Values{}
	query.Set("db", e.database)
	query.Set("rettype", "gp")
	query.Set("retmode", "text")
	query.Set("id", strings.Join(ids, ","))
	reqURL := e.baseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &entaperr.DatabaseError{Kind: entaperr.DatabaseEntrez, Detail: reqURL, Err: err}
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return &entaperr.DatabaseError{Kind: entaperr.DatabaseEntrez, Detail: reqURL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return &entaperr.DatabaseError{Kind: entaperr.DatabaseEntrez, Detail: reqURL, Err: fmt.Errorf("http status %d", resp.StatusCode)}
	}

	return parseGPFlat(resp.Body, unversioned, result)
}

// parseGPFlat scans a GP-flat stream for LOCUS/db_xref pairs, mapping each
// found accession back to the caller's original (possibly versioned)
// string via unversioned before writing into result.
func parseGPFlat(r io.Reader, unversioned map[string]string, result map[string]string) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var current string
	var geneID string
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		if current == "" {
			if m := locusRe.FindStringSubmatch(line); m != nil {
				current = m[1]
				geneID = ""
			}
			continue
		}
		if m := geneIDRe.FindStringSubmatch(line); m != nil {
			geneID = m[1]
		}
		if line == "//" {
			if orig, ok := unversioned[current]; ok && geneID != "" {
				result[orig] = geneID
			}
			current = ""
			geneID = ""
		}
	}
	return sc.Err()
}
