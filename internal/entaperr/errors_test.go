// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package entaperr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeClassification(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", &ConfigError{}, ExitConfig},
		{"parse", &ParseError{}, ExitParse},
		{"io", &IoError{}, ExitIO},
		{"external tool", &ExternalToolError{}, ExitExternalTool},
		{"database", &DatabaseError{}, ExitDatabase},
		{"version", &ErrVersionUnsupported{}, ExitVersion},
		{"stage", &StageError{}, ExitStage},
		{"unknown", errors.New("plain"), ExitUnknown},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, ExitCode(c.err))
		})
	}
}

func TestExitCodesAreDistinct(t *testing.T) {
	seen := map[int]bool{}
	for _, code := range []int{ExitConfig, ExitParse, ExitIO, ExitExternalTool, ExitDatabase, ExitVersion, ExitStage, ExitUnknown} {
		assert.False(t, seen[code], "exit code %d reused across categories", code)
		seen[code] = true
	}
}

func TestIoErrorUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := &IoError{Kind: IoWrite, Path: "/tmp/x", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestStageErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := &StageError{Stage: "Expression", Reason: "execute", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestDatabaseErrorUnwrap(t *testing.T) {
	cause := errors.New("no rows")
	err := &DatabaseError{Kind: DatabaseTaxonomy, Detail: "lookup", Err: cause}
	assert.ErrorIs(t, err, cause)
}

func TestParseErrorFormatsLineWhenPresent(t *testing.T) {
	withLine := &ParseError{File: "hits.tsv", Line: 42, Reason: "bad column count"}
	assert.Contains(t, withLine.Error(), "hits.tsv:42")

	withoutLine := &ParseError{File: "hits.tsv", Reason: "empty file"}
	assert.NotContains(t, withoutLine.Error(), ":0:")
}
