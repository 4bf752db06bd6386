package parser

import (
	"regexp"
	"strings"
)

var (
	nbspPattern      = regexp.MustCompile("\u00a0")
	strayLeadPattern = regexp.MustCompile("\u00d0")
	formFeedPattern  = regexp.MustCompile(`\f`)
	httpPattern      = regexp.MustCompile(`https?://\S+`)
	non24DatePattern = regexp.MustCompile(`\b\d+/\d+/\d+, \d+:\d+ [AP]M\b`)
)

type abbreviation struct {
	re   *regexp.Regexp
	full string
}

// Abbreviations are expanded only at the start of a word, so "ім." or "р.ч."
// inside other tokens stay untouched.
var abbreviations = []abbreviation{
	{regexp.MustCompile(`(^|[^\p{L}\p{N}])м\.`), "місто "},
	{regexp.MustCompile(`(^|[^\p{L}\p{N}])ст\.`), "стаття "},
	{regexp.MustCompile(`(^|[^\p{L}\p{N}])ч\.`), "частина "},
	{regexp.MustCompile(`(^|[^\p{L}\p{N}])п\.`), "пункт "},
}

// Normalize cleans extraction artefacts out of a document and expands the
// legal abbreviations the section and citation patterns rely on.
func Normalize(text string) string {
	out := purify(text)
	for _, a := range abbreviations {
		out = a.re.ReplaceAllString(out, "${1}"+a.full)
	}
	return out
}

func purify(text string) string {
	out := strings.ToValidUTF8(text, " ")
	out = nbspPattern.ReplaceAllString(out, " ")
	out = strayLeadPattern.ReplaceAllString(out, " ")
	out = formFeedPattern.ReplaceAllString(out, "")
	out = httpPattern.ReplaceAllString(out, "")
	out = non24DatePattern.ReplaceAllString(out, "")
	return out
}
