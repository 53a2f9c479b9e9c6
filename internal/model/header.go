// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package model

// HeaderID identifies a renderable output column. The original
// implementation (its per-field string constants feeding a process-wide
// the column-title table) keyed this table by string; this module keys
// it by a fixed enum instead, so titles are a map[HeaderID]string and each
// alignment variant's Get switches on HeaderID rather than comparing strings.
type HeaderID int

const (
	HeaderUnknown HeaderID = iota

	// Similarity search / general alignment headers.
	HeaderQueryID
	HeaderSubjectID
	HeaderPercentIdentity
	HeaderAlignLen
	HeaderMismatch
	HeaderGapOpen
	HeaderQueryStart
	HeaderQueryEnd
	HeaderSubjectStart
	HeaderSubjectEnd
	HeaderEValue
	HeaderCoverage
	HeaderTitle
	HeaderSpecies
	HeaderDatabase
	HeaderFrame
	HeaderContaminant
	HeaderInformative
	HeaderBitScore
	HeaderTaxScore
	HeaderNCBIGeneID

	// UniProt cross reference headers, enabled lazily once a UniProt database
	// is detected.
	HeaderUniprotXRef
	HeaderUniprotKEGG
	HeaderUniprotGOBio
	HeaderUniprotGOCell
	HeaderUniprotGOMole
	HeaderUniprotComments

	// EggNOG headers.
	HeaderSeedOrtholog
	HeaderSeedEValue
	HeaderSeedScore
	HeaderPredictedGene
	HeaderTaxScope
	HeaderEggOGs
	HeaderEggKEGG
	HeaderEggGOBio
	HeaderEggGOCell
	HeaderEggGOMole
	HeaderEggDescription
	HeaderEggLevel
	HeaderEggProteinDomains
	HeaderCOGCategory
	HeaderCOGDescription
	HeaderBiGG
	HeaderBRITE
	HeaderEC
	HeaderCAZy

	// InterPro headers.
	HeaderInterproID
	HeaderInterproDatabase
	HeaderInterproDescription
	HeaderInterproGO
	HeaderInterproPathway

	// BUSCO headers.
	HeaderBuscoID
	HeaderBuscoStatus
	HeaderBuscoScore
	HeaderBuscoLength

	// Horizontal gene transfer headers.
	HeaderHGTDonor
	HeaderHGTRecipient
	HeaderHGTCandidate
	HeaderHGTConfirmed

	// Sequence/report headers not carried by a specific alignment.
	HeaderGeneID
	HeaderEffectiveLength
	HeaderFPKM
	HeaderTPM
	HeaderGOID
	HeaderGOTerm
	HeaderGOCategory
)

// Title is the column header text written by the output composer. It mirrors
// the reference's the column-title table string table.
func (h HeaderID) Title() string {
	if t, ok := headerTitles[h]; ok {
		return t
	}
	return "Unknown"
}

var headerTitles = map[HeaderID]string{
	HeaderQueryID:             "Query Sequence",
	HeaderSubjectID:           "Subject Sequence",
	HeaderPercentIdentity:     "Percent Identical",
	HeaderAlignLen:            "Alignment Length",
	HeaderMismatch:            "Mismatches",
	HeaderGapOpen:             "Gap Openings",
	HeaderQueryStart:          "Query Start",
	HeaderQueryEnd:            "Query End",
	HeaderSubjectStart:        "Subject Start",
	HeaderSubjectEnd:          "Subject End",
	HeaderEValue:              "E Value",
	HeaderCoverage:            "Coverage",
	HeaderTitle:               "Description",
	HeaderSpecies:             "Species",
	HeaderDatabase:            "Search Database",
	HeaderFrame:               "Frame",
	HeaderContaminant:         "Contaminant",
	HeaderInformative:         "Informative",
	HeaderBitScore:            "Bit Score",
	HeaderTaxScore:            "Tax Score",
	HeaderNCBIGeneID:          "NCBI Gene ID",
	HeaderUniprotXRef:         "UniProt Database Cross Reference",
	HeaderUniprotKEGG:         "UniProt KEGG Terms",
	HeaderUniprotGOBio:        "UniProt GO Biological",
	HeaderUniprotGOCell:       "UniProt GO Cellular",
	HeaderUniprotGOMole:       "UniProt GO Molecular",
	HeaderUniprotComments:     "UniProt Comments",
	HeaderSeedOrtholog:        "Seed Ortholog",
	HeaderSeedEValue:          "Seed E Value",
	HeaderSeedScore:           "Seed Score",
	HeaderPredictedGene:       "Predicted Gene",
	HeaderTaxScope:            "Tax Scope",
	HeaderEggOGs:              "Ortholog Groups",
	HeaderEggKEGG:             "KEGG Terms",
	HeaderEggGOBio:            "GO Biological",
	HeaderEggGOCell:           "GO Cellular",
	HeaderEggGOMole:           "GO Molecular",
	HeaderEggDescription:      "Description",
	HeaderEggLevel:            "Tax Scope Max",
	HeaderEggProteinDomains:   "Protein Domains",
	HeaderCOGCategory:         "COG Category",
	HeaderCOGDescription:      "COG Description",
	HeaderBiGG:                "BiGG Reactions",
	HeaderBRITE:               "BRITE",
	HeaderEC:                  "EC Number",
	HeaderCAZy:                "CAZy",
	HeaderInterproID:          "InterPro ID",
	HeaderInterproDatabase:    "InterPro Database",
	HeaderInterproDescription: "InterPro Description",
	HeaderInterproGO:          "InterPro GO Terms",
	HeaderInterproPathway:     "InterPro Pathway",
	HeaderBuscoID:             "BUSCO ID",
	HeaderBuscoStatus:         "BUSCO Status",
	HeaderBuscoScore:          "BUSCO Score",
	HeaderBuscoLength:         "BUSCO Length",
	HeaderHGTDonor:            "HGT Donor Hits",
	HeaderHGTRecipient:        "HGT Recipient Hits",
	HeaderHGTCandidate:        "HGT Candidate",
	HeaderHGTConfirmed:        "HGT Confirmed",
	HeaderGeneID:              "Gene ID",
	HeaderEffectiveLength:     "Effective Length",
	HeaderFPKM:                "FPKM",
	HeaderTPM:                 "TPM",
	HeaderGOID:                "GO ID",
	HeaderGOTerm:              "GO Term",
	HeaderGOCategory:          "GO Category",
}
