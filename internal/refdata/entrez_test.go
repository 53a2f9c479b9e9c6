// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gpFlatFixture = `LOCUS       XP_014245616             298 aa            linear   INV 01-JAN-2020
DEFINITION  carbonic anhydrase 2 [Cimex lectularius].
ACCESSION   XP_014245616
VERSION     XP_014245616.1
     CDS             1..298
                     /gene="LOC106664428"
                     /db_xref="GeneID:106664428"
//
`

func TestParseGPFlat(t *testing.T) {
	unversioned := map[string]string{"XP_014245616": "XP_014245616.1"}
	result := make(map[string]string)
	err := parseGPFlat(strings.NewReader(gpFlatFixture), unversioned, result)
	require.NoError(t, err)
	assert.Equal(t, "106664428", result["XP_014245616.1"])
}

func TestEntrezFetchGeneIDs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(gpFlatFixture))
	}))
	defer srv.Close()

	e := NewEntrez("protein", srv.Client())
	e.baseURL = srv.URL

	ids, err := e.FetchGeneIDs(context.Background(), []string{"XP_014245616.1"})
	require.NoError(t, err)
	assert.Equal(t, "106664428", ids["XP_014245616.1"])
}

var efetchBaseURLForTest = efetchBaseURL

func (e *Entrez) fetchBatchAt(ctx context.Context, base string, batch []string) (map[string]string, error) {
	result := make(map[string]string)
	unversioned := make(map[string]string, len(batch))
	for _, acc := range batch {
		b := acc
		if dot := strings.IndexByte(acc, '.'); dot >= 0 {
			b = acc[:dot]
		}
		unversioned[b] = acc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := parseGPFlat(resp.Body, unversioned, result); err != nil {
		return nil, err
	}
	return result, nil
}
