// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package alignment

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/harta55/entap/internal/model"
)

// Tie-break constants from, confirmed against the reference implementation
// (SimSearchAlignment::).
const (
	evalDif      = 8.0
	covDif       = 5.0
	informAdd    = 3.0
	informFactor = 1.2
)

// UniprotPayload is the optional cross-reference data attached to a
// SimSearchHit once RefData resolves its subject id against the UniProt
// lookup ("UniProt lookup").
type UniprotPayload struct {
	DatabaseXRefs string
	KEGG          string
	Comments      string
	GOBiological  []model.GoEntry
	GOCellular    []model.GoEntry
	GOMolecular   []model.GoEntry
}

// SimSearchHit is one DIAMOND/BLAST tabular hit enriched with taxonomy,
// contaminant and informativeness data.
type SimSearchHit struct {
	base

	QSeqID   string
	SSeqID   string
	PIdent   float64
	Length   int
	Mismatch int
	GapOpen  int
	QStart   int
	QEnd     int
	SStart   int
	SEnd     int
	EValue   float64
	BitScore float64
	QCovHSP  float64
	STitle   string

	Species string
	Lineage string

	Contaminant   bool
	ContamType    string
	IsInformative bool
	TaxScore      float64

	Uniprot *UniprotPayload

	// NCBIGeneID is an optional fallback cross-reference resolved via RefData's
	// Entrez client when the subject id could not otherwise be placed in the
	// local taxonomy/UniProt tables.
	NCBIGeneID string
}

// RefreshNCBIGeneID attaches a GeneID resolved via a batched Entrez efetch
// lookup, mirroring RefreshUniprot's post-parse enrichment shape.
func (h *SimSearchHit) RefreshNCBIGeneID(id string) {
	h.NCBIGeneID = id
}

// NewSimSearchHit constructs a SimSearchHit and computes its tax score from
// lineage against target, per
func NewSimSearchHit(parent *model.QuerySequence, databasePath, targetLineage string, hit SimSearchHit) *SimSearchHit {
	hit.base = base{parent: parent, databasePath: databasePath}
	hit.TaxScore = TaxScore(hit.Lineage, targetLineage, hit.IsInformative)
	return &hit
}

// TaxScore implements the "Tax score" algorithm: walk the alignment lineage
// split at ';' and count how many prefixes appear as substrings of the
// (lowercased, whitespace-stripped) target lineage.
func TaxScore(lineage, targetLineage string, informative bool) float64 {
	lineage = stripSpace(strings.ToLower(lineage))
	target := stripSpace(strings.ToLower(targetLineage))

	var score float64
	for _, token := range splitLineage(lineage) {
		if token == "" {
			continue
		}
		if strings.Contains(target, token) {
			score++
		}
	}
	if score == 0 {
		if informative {
			score += informAdd
		}
	} else if informative {
		score *= informFactor
	}
	return score
}

func splitLineage(lineage string) []string {
	return strings.Split(lineage, ";")
}

func stripSpace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// IsBetterThan implements the per-database and cross-database ("overall")
// comparators.
func (h *SimSearchHit) IsBetterThan(otherAlign model.Alignment, overall bool) bool {
	other, ok := otherAlign.(*SimSearchHit)
	if !ok {
		return false
	}

	eA := clampEValue(h.EValue)
	eB := clampEValue(other.EValue)
	covA := h.QCovHSP
	covB := other.QCovHSP
	covDiff := math.Abs(covA - covB)

	if !overall {
		logA := math.Log10(eA)
		logB := math.Log10(eB)
		if math.Abs(logA-logB) < evalDif {
			if covDiff > covDif {
				return covA > covB
			}
			if h.Contaminant != other.Contaminant {
				return !h.Contaminant
			}
			if h.TaxScore != other.TaxScore {
				return h.TaxScore > other.TaxScore
			}
			return eA < eB
		}
		return eA < eB
	}

	// Cross-database comparator.
	if covDiff > covDif {
		return covA > covB
	}
	if h.Contaminant != other.Contaminant {
		return !h.Contaminant
	}
	if h.TaxScore != other.TaxScore {
		return h.TaxScore > other.TaxScore
	}
	return covA > covB
}

// RefreshHeaders is a no-op for SimSearchHit: every field is known at
// parse time except the UniProt payload, which RefreshUniprot updates.
func (h *SimSearchHit) RefreshHeaders() {}

// RefreshUniprot attaches a resolved UniProt payload after lazy database
// detection ("Attempts to detect a UniProt database").
func (h *SimSearchHit) RefreshUniprot(p *UniprotPayload) {
	h.Uniprot = p
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Get implements model.Alignment.
func (h *SimSearchHit) Get(header model.HeaderID, goLevel int) (string, bool) {
	switch header {
	case model.HeaderQueryID:
		return h.QSeqID, true
	case model.HeaderSubjectID:
		return h.SSeqID, true
	case model.HeaderPercentIdentity:
		return strconv.FormatFloat(h.PIdent, 'f', 2, 64), true
	case model.HeaderAlignLen:
		return strconv.Itoa(h.Length), true
	case model.HeaderMismatch:
		return strconv.Itoa(h.Mismatch), true
	case model.HeaderGapOpen:
		return strconv.Itoa(h.GapOpen), true
	case model.HeaderQueryStart:
		return strconv.Itoa(h.QStart), true
	case model.HeaderQueryEnd:
		return strconv.Itoa(h.QEnd), true
	case model.HeaderSubjectStart:
		return strconv.Itoa(h.SStart), true
	case model.HeaderSubjectEnd:
		return strconv.Itoa(h.SEnd), true
	case model.HeaderEValue:
		return formatEValue(h.EValue), true
	case model.HeaderCoverage:
		return strconv.FormatFloat(h.QCovHSP, 'f', 2, 64), true
	case model.HeaderBitScore:
		return strconv.FormatFloat(h.BitScore, 'f', 2, 64), true
	case model.HeaderTitle:
		return h.STitle, true
	case model.HeaderSpecies:
		return h.Species, true
	case model.HeaderDatabase:
		return h.DatabasePath(), true
	case model.HeaderContaminant:
		return yesNo(h.Contaminant), true
	case model.HeaderInformative:
		return yesNo(h.IsInformative), true
	case model.HeaderTaxScore:
		return strconv.FormatFloat(h.TaxScore, 'f', 3, 64), true
	case model.HeaderNCBIGeneID:
		if h.NCBIGeneID == "" {
			return "", false
		}
		return h.NCBIGeneID, true
	case model.HeaderUniprotXRef:
		if h.Uniprot == nil {
			return "", false
		}
		return h.Uniprot.DatabaseXRefs, true
	case model.HeaderUniprotKEGG:
		if h.Uniprot == nil {
			return "", false
		}
		return h.Uniprot.KEGG, true
	case model.HeaderUniprotComments:
		if h.Uniprot == nil {
			return "", false
		}
		return h.Uniprot.Comments, true
	case model.HeaderUniprotGOBio:
		return formatGoList(uniprotGo(h, model.GoCategoryBiological), goLevel)
	case model.HeaderUniprotGOCell:
		return formatGoList(uniprotGo(h, model.GoCategoryCellular), goLevel)
	case model.HeaderUniprotGOMole:
		return formatGoList(uniprotGo(h, model.GoCategoryMolecular), goLevel)
	default:
		return "", false
	}
}

func uniprotGo(h *SimSearchHit, cat model.GoCategory) []model.GoEntry {
	if h.Uniprot == nil {
		return nil
	}
	switch cat {
	case model.GoCategoryBiological:
		return h.Uniprot.GOBiological
	case model.GoCategoryCellular:
		return h.Uniprot.GOCellular
	case model.GoCategoryMolecular:
		return h.Uniprot.GOMolecular
	default:
		return nil
	}
}

// formatGoList renders the entries matching level as "GO:id-term" joined by
// ",", following the reference's print_vect style joins.
func formatGoList(entries []model.GoEntry, level int) (string, bool) {
	var parts []string
	for _, e := range entries {
		if e.MatchesLevel(level) {
			parts = append(parts, fmt.Sprintf("%s-%s", e.GoID, e.Term))
		}
	}
	return strings.Join(parts, ","), true
}

func formatEValue(e float64) string {
	return strconv.FormatFloat(e, 'e', 3, 64)
}
