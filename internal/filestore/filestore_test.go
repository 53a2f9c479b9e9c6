// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/runctx"
	"github.com/harta55/entap/internal/runspec"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	root := t.TempDir()
	return New(root, false, runctx.NewDiscard(root))
}

func TestCreateRunLayout(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.CreateRunLayout())

	for _, dir := range []string{
		"transcriptomes", "temp",
		filepath.Join("final_results", "annotated"),
		filepath.Join("final_results", "entap_report"),
	} {
		info, err := os.Stat(fs.Path(dir))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
	for _, name := range stageDirs {
		for _, sub := range []string{"processed", "figures", "overall_results"} {
			info, err := os.Stat(fs.StageDir(name, sub))
			require.NoError(t, err)
			assert.True(t, info.IsDir())
		}
	}
}

func TestCreateRunLayoutPreservesCacheWithoutOverwrite(t *testing.T) {
	root := t.TempDir()
	fs := New(root, false, runctx.NewDiscard(root))
	require.NoError(t, fs.CreateRunLayout())

	cached := fs.StageDir("expression", "overall_results", "diamond.tsv")
	require.NoError(t, os.WriteFile(cached, []byte("cached"), 0o644))

	require.NoError(t, fs.CreateRunLayout())
	data, err := os.ReadFile(cached)
	require.NoError(t, err)
	assert.Equal(t, "cached", string(data))
}

func TestOpenStreamSetIsIdempotent(t *testing.T) {
	fs := newTestStore(t)
	require.NoError(t, fs.CreateRunLayout())
	base := fs.Path("final_results", "annotated", "annotated")

	opts := OpenOptions{
		Formats: []runspec.OutputFormat{runspec.FormatTSV, runspec.FormatFAA},
		Headers: []model.HeaderID{model.HeaderQueryID, model.HeaderEValue},
	}
	opened, err := fs.OpenStreamSet(base, opts)
	require.NoError(t, err)
	assert.True(t, opened)

	opened, err = fs.OpenStreamSet(base, opts)
	require.NoError(t, err)
	assert.False(t, opened)

	require.NoError(t, fs.CloseStreamSet(base))

	data, err := os.ReadFile(base + ".tsv")
	require.NoError(t, err)
	assert.Equal(t, "Query Sequence\tE Value\n", string(data))
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing")
	assert.Equal(t, PathErr, Exists(missing))

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	assert.Equal(t, Empty, Exists(empty))

	full := filepath.Join(dir, "full")
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	assert.Equal(t, Ok, Exists(full))
}
