package insights

import (
	"math"

	"github.com/joseph-ayodele/courtdocs/internal/parser"
)

// MethodEfficiency is the share of documents for which one extractor
// produced a value.
type MethodEfficiency struct {
	Entity     string  `json:"entity"`
	Percentage float64 `json:"percentage"`
}

type ParserEfficiency struct {
	AveragePercentage   float64            `json:"average_percentage"`
	MethodsEfficiencies []MethodEfficiency `json:"methods_efficiencies"`
}

// Efficiency measures how often each field was filled across docs. Decision
// status only counts when a decision section exists, and commission roles
// only with a header section. Party sex is measured against the total number
// of parties instead of documents.
func Efficiency(docs []*parser.ParsedDocument) ParserEfficiency {
	var (
		header, ruling, decision, issueDate, framework, status int
		caseForm, judge, prosecutor, clerk, location           int
		partiesTotal, partiesWithSex                           int
	)
	for _, d := range docs {
		s := d.DocumentSections
		hasHeader := present(s.Header)
		hasDecision := present(s.Decision)

		count(&header, hasHeader)
		count(&ruling, present(s.Ruling))
		count(&decision, hasDecision)
		count(&issueDate, present(d.DocumentIssueDate))
		count(&framework, len(d.DocumentRegulatoryFramework) > 0)
		count(&status, hasDecision && present(d.DocumentDecisionStatus))
		count(&caseForm, present(d.CaseForm))
		count(&judge, hasHeader && present(d.CourtCommission.Judge))
		count(&prosecutor, hasHeader && present(d.CourtCommission.Prosecutor))
		count(&clerk, hasHeader && present(d.CourtCommission.Clerk))
		count(&location, present(d.CourtLocation))

		partiesTotal += d.CasePartiesInfo.Total
		for _, p := range d.CasePartiesInfo.Parties {
			count(&partiesWithSex, p.Sex != nil && *p.Sex != "")
		}
	}

	n := len(docs)
	methods := []MethodEfficiency{
		{"document_sections_header", ratio(header, n)},
		{"document_sections_ruling", ratio(ruling, n)},
		{"document_sections_decision", ratio(decision, n)},
		{"document_issue_date", ratio(issueDate, n)},
		{"document_regulatory_framework", ratio(framework, n)},
		{"document_decision_status", ratio(status, n)},
		{"case_form", ratio(caseForm, n)},
		{"case_parties_info_sex", ratio(partiesWithSex, partiesTotal)},
		{"court_commission_judge", ratio(judge, n)},
		{"court_commission_prosecutor", ratio(prosecutor, n)},
		{"court_commission_clerk", ratio(clerk, n)},
		{"court_location", ratio(location, n)},
	}

	var sum float64
	for _, m := range methods {
		sum += m.Percentage
	}
	return ParserEfficiency{
		AveragePercentage:   round3(sum / float64(len(methods))),
		MethodsEfficiencies: methods,
	}
}

func present(s *string) bool { return s != nil && *s != "" }

func count(n *int, ok bool) {
	if ok {
		*n++
	}
}

func ratio(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return round3(float64(part) / float64(whole))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
