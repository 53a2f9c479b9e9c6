// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/filestore"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runspec"
)

func newBuscoTestModule(t *testing.T, buscoDatabase string) *BuscoModule {
	t.Helper()
	root := t.TempDir()
	fs := filestore.New(root, false, runctx.NewDiscard(root))
	require.NoError(t, fs.CreateRunLayout())
	store := querystore.New()
	query := NewFilterModule(fs, store)
	spec := &runspec.Spec{BuscoDatabase: buscoDatabase}
	return NewBuscoModule(fs, spec, store, query)
}

func TestBuscoModuleInactiveWithoutDatabase(t *testing.T) {
	m := newBuscoTestModule(t, "")
	assert.Equal(t, model.StageBusco, m.Name())

	ready, err := m.VerifyFiles()
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, m.Execute(nil))
	toggles, err := m.Parse()
	require.NoError(t, err)
	assert.Nil(t, toggles)
}

func TestBuscoModuleVerifyFilesRequiresFullTable(t *testing.T) {
	m := newBuscoTestModule(t, "/dbs/eukaryota_odb10")

	ready, err := m.VerifyFiles()
	require.NoError(t, err)
	assert.False(t, ready)

	tablePath := m.fullTablePath()
	require.NoError(t, os.MkdirAll(filepath.Dir(tablePath), 0o755))
	require.NoError(t, os.WriteFile(tablePath, []byte("10663at33208\tComplete\tq1\t205.4\t412\n"), 0o644))

	ready, err = m.VerifyFiles()
	require.NoError(t, err)
	assert.True(t, ready)
}
