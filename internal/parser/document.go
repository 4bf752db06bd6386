package parser

import (
	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/sections"
)

// CourtCommission names the presiding judge, prosecutor and clerk. A role
// whose keyword is missing from the header holds constants.NoOccurrence.
type CourtCommission struct {
	Judge      *string `json:"judge"`
	Prosecutor *string `json:"prosecutor"`
	Clerk      *string `json:"clerk"`
}

// CaseParty is one anonymised litigant with its inferred sex, if any.
type CaseParty struct {
	Name string         `json:"name"`
	Sex  *constants.Sex `json:"sex"`
}

type CasePartiesInfo struct {
	Total   int         `json:"total"`
	Parties []CaseParty `json:"parties"`
}

// ParsedDocument is the committed result of one parse. It is never mutated
// after commit.
type ParsedDocument struct {
	DocumentSections            sections.Sections `json:"document_sections"`
	DocumentIssueDate           *string           `json:"document_issue_date"`
	DocumentRegulatoryFramework []string          `json:"document_regulatory_framework"`
	DocumentDecisionStatus      *string           `json:"document_decision_status"`
	CaseForm                    *string           `json:"case_form"`
	CasePartiesInfo             CasePartiesInfo   `json:"case_parties_info"`
	CourtCommission             CourtCommission   `json:"court_commission"`
	CourtLocation               *string           `json:"court_location"`
}
