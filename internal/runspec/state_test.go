// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harta55/entap/internal/model"
)

func TestParseStateEmpty(t *testing.T) {
	stages, err := ParseState("")
	require.NoError(t, err)
	assert.Equal(t, []model.Stage{
		model.StageExpression,
		model.StageFrameSelection,
		model.StageFilter,
		model.StageSimilaritySearch,
		model.StageGeneFamily,
		model.StageHGT,
		model.StageBusco,
		model.StageDone,
	}, stages)
}

func TestParseStatePlus2x(t *testing.T) {
	stages, err := ParseState("+2x")
	require.NoError(t, err)
	assert.Equal(t, []model.Stage{model.StageExpression, model.StageFrameSelection}, stages)
}

func TestParseStateDigitOnly(t *testing.T) {
	stages, err := ParseState("4")
	require.NoError(t, err)
	assert.Equal(t, []model.Stage{
		model.StageExpression,
		model.StageFrameSelection,
		model.StageFilter,
		model.StageSimilaritySearch,
	}, stages)
}

func TestParseStateBackwardJumpFallsBackToFullRun(t *testing.T) {
	stages, err := ParseState("5+1")
	require.NoError(t, err)
	assert.Equal(t, fullRun(), stages)
}

func TestParseStateRejectsUnknownToken(t *testing.T) {
	_, err := ParseState("+2y")
	require.Error(t, err)
}

func TestParseStateHaltsImmediately(t *testing.T) {
	stages, err := ParseState("3x5")
	require.NoError(t, err)
	assert.Equal(t, []model.Stage{model.StageExpression, model.StageFrameSelection, model.StageFilter}, stages)
}
