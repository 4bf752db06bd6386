package constants

import (
	"strings"
)

type CaseForm string

const (
	CaseFormVerdict          CaseForm = "вирок"
	CaseFormResolution       CaseForm = "постанова"
	CaseFormDecision         CaseForm = "рішення"
	CaseFormCourtOrder       CaseForm = "судовий наказ"
	CaseFormRuling           CaseForm = "ухвала"
	CaseFormSeparateRuling   CaseForm = "окрема ухвала"
	CaseFormSeparateOpinion  CaseForm = "окрема думка"
	CaseFormAdditionalRuling CaseForm = "додаткове рішення"
)

// CaseForms is ordered by labeling precedence: the first form found in a
// document wins.
var CaseForms = []CaseForm{
	CaseFormVerdict,
	CaseFormResolution,
	CaseFormDecision,
	CaseFormCourtOrder,
	CaseFormRuling,
	CaseFormSeparateRuling,
	CaseFormSeparateOpinion,
	CaseFormAdditionalRuling,
}

func CaseFormsAsStrings() []string {
	result := make([]string, len(CaseForms))
	for i, cf := range CaseForms {
		result[i] = string(cf)
	}
	return result
}

// CanonicalizeCaseForm maps free text onto a known case form.
func CanonicalizeCaseForm(input string) (CaseForm, bool) {
	normalized := strings.ToLower(strings.Join(strings.Fields(input), " "))
	if normalized == "" {
		return "", false
	}
	for _, cf := range CaseForms {
		if normalized == string(cf) {
			return cf, true
		}
	}
	return "", false
}

// Section boundary markers.
var (
	RulingStartMarkers   = []string{"встанови", "постанови"}
	DecisionStartMarkers = []string{"виріши", "ухвали"}
	DecisionEndMarker    = "суддя"
)
