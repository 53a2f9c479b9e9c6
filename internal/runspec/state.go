// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runspec

import (
	"github.com/harta55/entap/internal/model"
)

// ParseState resolves a state expression into the ordered list of stages the
// executor should run. The grammar is
//
//	expr := (digit | '+' | 'x')*
//
// digit jumps to the numbered stage (0=Init .. 8=Done); '+' continues
// forward one stage from wherever the cursor is; 'x' halts immediately,
// before any further token is processed. An empty expression means "run
// the whole pipeline".
//
// The original implementation never validated this grammar; per the 
// note this version rejects any character outside digit/'+'/'x' up front
// with a ConfigError, and treats a backward or out-of-range digit jump as
// ambiguous by falling back to a full run through Done, matching the stated
// "ambiguous or out-of-range tokens terminate at Done" behaviour.
func ParseState(expr string) ([]model.Stage, error) {
	for _, r := range expr {
		if !(r >= '0' && r <= '9') && r != '+' && r != 'x' {
			return nil, configError("state", "unrecognised token '"+string(r)+"' in state expression")
		}
	}
	if expr == "" {
		return fullRun(), nil
	}

	current := model.StageInit
	var run []model.Stage
loop:
	for _, r := range expr {
		switch {
		case r == 'x':
			break loop
		case r == '+':
			if current >= model.StageDone {
				continue
			}
			current++
			run = append(run, current)
		default:
			d := model.Stage(int(r - '0'))
			if d > model.StageDone || d < current {
				return fullRun(), nil
			}
			for s := current + 1; s <= d; s++ {
				run = append(run, s)
			}
			current = d
		}
	}
	return run, nil
}

// fullRun is the default pipeline: every stage from Expression to Done,
// in order.
func fullRun() []model.Stage {
	return []model.Stage{
		model.StageExpression,
		model.StageFrameSelection,
		model.StageFilter,
		model.StageSimilaritySearch,
		model.StageGeneFamily,
		model.StageHGT,
		model.StageBusco,
		model.StageDone,
	}
}
