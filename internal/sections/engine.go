package sections

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/joseph-ayodele/courtdocs/constants"
)

// Sections holds the optional header, ruling and decision spans.
type Sections struct {
	Header   *string `json:"header"`
	Ruling   *string `json:"ruling"`
	Decision *string `json:"decision"`
}

type caseFormPattern struct {
	form constants.CaseForm
	re   *regexp.Regexp
}

// Engine locates document sections and labels the case form.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	header   *regexp.Regexp
	ruling   *regexp.Regexp
	decision *regexp.Regexp
	forms    []caseFormPattern
}

// NewEngine compiles the default Ukrainian court-decision markers.
func NewEngine() *Engine {
	return NewEngineWithMarkers(
		constants.RulingStartMarkers,
		constants.DecisionStartMarkers,
		constants.DecisionEndMarker,
		constants.CaseForms,
	)
}

func NewEngineWithMarkers(rulingStart, decisionStart []string, decisionEnd string, forms []constants.CaseForm) *Engine {
	e := &Engine{
		header:   HeaderPattern(rulingStart),
		ruling:   RulingPattern(rulingStart, decisionStart),
		decision: DecisionPattern(decisionStart, decisionEnd),
	}
	for _, f := range forms {
		e.forms = append(e.forms, caseFormPattern{form: f, re: CaseFormPattern(string(f))})
	}
	return e
}

// Resolve finds all three sections. Each section is searched from where the
// previous section's body ended, which keeps present spans disjoint and in
// document order.
func (e *Engine) Resolve(doc string) Sections {
	var s Sections
	offset := 0

	if text, end, ok := FindLongestGroup(e.header, doc, 0); ok {
		s.Header = &text
		offset = end
	}
	if text, end, ok := FindLongestGroup(e.ruling, doc, offset); ok {
		s.Ruling = &text
		offset = end
	}
	if text, _, ok := FindLongestGroup(e.decision, doc, offset); ok {
		s.Decision = &text
	}
	return s
}

// CaseForm returns the first form, in precedence order, found anywhere in doc.
func (e *Engine) CaseForm(doc string) *string {
	for _, f := range e.forms {
		if f.re.MatchString(doc) {
			label := string(f.form)
			return &label
		}
	}
	return nil
}

// FindLongestGroup matches re against doc[from:] and returns the longest
// capturing group, trimmed, together with the absolute end offset of the
// "body" group. Among groups of equal length the first one wins. A match
// whose longest group is blank counts as no match.
func FindLongestGroup(re *regexp.Regexp, doc string, from int) (string, int, bool) {
	if from < 0 || from > len(doc) {
		return "", 0, false
	}
	loc := re.FindStringSubmatchIndex(doc[from:])
	if loc == nil {
		return "", 0, false
	}

	best, bestLen := "", -1
	for g := 1; g < len(loc)/2; g++ {
		start, end := loc[2*g], loc[2*g+1]
		if start < 0 {
			continue
		}
		group := doc[from+start : from+end]
		if n := utf8.RuneCountInString(group); n > bestLen {
			best, bestLen = group, n
		}
	}

	best = strings.TrimSpace(best)
	if best == "" {
		return "", 0, false
	}

	bodyEnd := from + loc[1]
	if idx := re.SubexpIndex("body"); idx > 0 && loc[2*idx+1] >= 0 {
		bodyEnd = from + loc[2*idx+1]
	}
	return best, bodyEnd, true
}
