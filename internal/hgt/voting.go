// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hgt

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/harta55/entap/internal/alignment"
	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
)

// ParseSimilarity ingests one donor or recipient database's 14-column
// DIAMOND outformat-6 hit table (the same shape internal/simsearch
// parses), attaching an HgtHit per row and incrementing
// DonorHitCount/RecipientHitCount once per query id per database, per
// SPEC_FULL.md supplemented feature 4's multi-database voting: a
// sequence's count is the number of distinct donor (or recipient)
// databases it hit in, not the number of HSPs.
func ParseSimilarity(store *querystore.QueryStore, isDonor bool, databasePath string, r *bufio.Scanner) error {
	key := model.AlignmentKey{Stage: model.StageHGT, Tool: "diamond", Database: databasePath}
	voted := make(map[string]bool)

	lineNo := 0
	for r.Scan() {
		lineNo++
		line := r.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 13 {
			return &entaperr.ParseError{
				File: databasePath, Line: lineNo,
				Reason: fmt.Sprintf("expected at least 13 tab-separated columns, got %d", len(fields)),
			}
		}

		qseqid := fields[0]
		seq, ok := store.Get(qseqid)
		if !ok {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: fmt.Sprintf("unknown query id %q", qseqid)}
		}

		evalue, err := strconv.ParseFloat(fields[10], 64)
		if err != nil {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "evalue: " + err.Error()}
		}
		coverage, err := strconv.ParseFloat(fields[12], 64)
		if err != nil {
			return &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "qcovhsp: " + err.Error()}
		}

		built := alignment.NewHgtHit(seq, databasePath, alignment.HgtHit{IsDonor: isDonor, EValue: evalue, Coverage: coverage})
		seq.Bucket(key).Add(model.Alignment(built))
		seq.Flags = seq.Flags.Set(model.HgtBlasted)

		if !voted[qseqid] {
			voted[qseqid] = true
			if isDonor {
				seq.DonorHitCount++
			} else {
				seq.RecipientHitCount++
			}
		}
	}
	if err := r.Err(); err != nil {
		return &entaperr.IoError{Kind: entaperr.IoRead, Path: databasePath, Err: err}
	}
	return nil
}
