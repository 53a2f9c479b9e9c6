// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package family

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/harta55/entap/internal/alignment"
	"github.com/harta55/entap/internal/entaperr"
	"github.com/harta55/entap/internal/model"
	"github.com/harta55/entap/internal/querystore"
)

// buscoColumns is the "five columns busco_id, status, sequence_id, score,
// length".
const buscoColumns = 5

// whitespaceRun collapses runs of plain spaces (not the tabs that already
// delimit the file) into a single tab, per: "the parser pre-normalises
// whitespace into tabs before feeding the column reader" -- BUSCO
// occasionally pads full_table.tsv columns with spaces for human
// readability.
var whitespaceRun = regexp.MustCompile(` +`)

// BuscoResult is the outcome of ParseBuscoFullTable: the ids that scored
// Missing, listed separately since they have no QuerySequence to attach to
// ("Missing entries... are counted into a missing- buscos list").
type BuscoResult struct {
	Missing []string
}

// ParseBuscoFullTable ingests a BUSCO full_table.tsv, attaching one
// BuscoHit per present row to its owning QuerySequence. '#'-prefixed
// comment lines are ignored; an id that is present but unresolvable
// against store is fatal.
func ParseBuscoFullTable(store *querystore.QueryStore, databasePath string, r *bufio.Scanner) (BuscoResult, error) {
	var result BuscoResult
	lineNo := 0
	for r.Scan() {
		lineNo++
		line := r.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = whitespaceRun.ReplaceAllString(line, "\t")
		fields := strings.Split(line, "\t")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if len(fields) < 2 {
			return result, &entaperr.ParseError{
				File: databasePath, Line: lineNo,
				Reason: fmt.Sprintf("expected at least 2 columns, got %d", len(fields)),
			}
		}

		buscoID := fields[0]
		status := parseBuscoStatus(fields[1])

		sequenceID := ""
		if len(fields) >= buscoColumns {
			sequenceID = fields[2]
		}
		if status == alignment.BuscoMissing || sequenceID == "" {
			result.Missing = append(result.Missing, buscoID)
			continue
		}

		seq, ok := store.Get(sequenceID)
		if !ok {
			return result, &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: fmt.Sprintf("unknown query id %q", sequenceID)}
		}

		var score float64
		var length int
		if len(fields) >= buscoColumns {
			var err error
			if score, err = strconv.ParseFloat(fields[3], 64); err != nil {
				return result, &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "score: " + err.Error()}
			}
			if length, err = strconv.Atoi(fields[4]); err != nil {
				return result, &entaperr.ParseError{File: databasePath, Line: lineNo, Reason: "length: " + err.Error()}
			}
		}

		built := alignment.NewBuscoHit(seq, databasePath, alignment.BuscoHit{
			BuscoID: buscoID,
			Status:  status,
			Score:   score,
			Length:  length,
		})
		key := model.AlignmentKey{Stage: model.StageBusco, Tool: "busco", Database: databasePath}
		seq.Bucket(key).Add(model.Alignment(built))
	}
	if err := r.Err(); err != nil {
		return result, &entaperr.IoError{Kind: entaperr.IoRead, Path: databasePath, Err: err}
	}
	return result, nil
}

func parseBuscoStatus(s string) alignment.BuscoStatus {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "complete":
		return alignment.BuscoComplete
	case "duplicated":
		return alignment.BuscoDuplicated
	case "fragmented":
		return alignment.BuscoFragmented
	default:
		return alignment.BuscoMissing
	}
}
