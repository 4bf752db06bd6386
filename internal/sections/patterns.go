package sections

import (
	"regexp"
	"strings"
	"unicode"
)

const ws = `\s*`

// spaced joins the characters of marker with optional whitespace so that
// letter-spaced typesetting ("В И Р І Ш И В") still matches.
func spaced(marker string) string {
	var parts []string
	for _, r := range marker {
		if unicode.IsSpace(r) {
			continue
		}
		parts = append(parts, regexp.QuoteMeta(string(r)))
	}
	return strings.Join(parts, ws)
}

// boundary matches a section-opening verb stem with its past-tense ending
// ("встанови" + "в" or "ла").
func boundary(marker string) string {
	return spaced(marker) + ws + `(в` + ws + `|л` + ws + `а)`
}

func boundaryAlternation(markers []string) string {
	alts := make([]string, len(markers))
	for i, m := range markers {
		alts[i] = boundary(m)
	}
	return strings.Join(alts, "|")
}

// HeaderPattern captures the document start up to the first ruling marker.
func HeaderPattern(rulingStart []string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)^(?P<body>.*?)(?:` + boundaryAlternation(rulingStart) + `)` + ws + `:`)
}

// RulingPattern captures the text between a ruling marker and the next
// decision marker.
func RulingPattern(rulingStart, decisionStart []string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)(` + boundaryAlternation(rulingStart) + `)` + ws + `:(?P<body>.*?)(` +
		boundaryAlternation(decisionStart) + `)` + ws + `:`)
}

// DecisionPattern captures the text between a decision marker and the
// judge signature word.
func DecisionPattern(decisionStart []string, end string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)(` + boundaryAlternation(decisionStart) + `)` + ws + `:(?P<body>.*?)` +
		spaced(end) + ws + `:?`)
}

// CaseFormPattern matches the upper-case, possibly letter-spaced, form name.
// It is case-sensitive: form names appear capitalised in document titles.
func CaseFormPattern(form string) *regexp.Regexp {
	return regexp.MustCompile(spaced(strings.ToUpper(form)))
}
