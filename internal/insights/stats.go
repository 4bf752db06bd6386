package insights

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agext/levenshtein"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
)

const (
	articleRuneLimit   = 40
	similarityCutoff   = 0.99
	candidatesPerMatch = 5
	topArticlesLimit   = 20
)

// MonthMarkers are the genitive month names used in written dates.
var MonthMarkers = []string{
	"січня", "лютого", "березня", "квітня", "травня", "червня",
	"липня", "серпня", "вересня", "жовтня", "листопада", "грудня",
}

var (
	labeledDatePattern = regexp.MustCompile(`(?i)"?(\d{2})"?\s+(` + strings.Join(MonthMarkers, "|") + `)\s+(\d{4})`)
	digitalDatePattern = regexp.MustCompile(`(\d{2}).(\d{2}).(\d{4})`)
)

// Weekdays lists the week starting on Monday.
var Weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

type WeekdayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

type ArticleFrequency struct {
	Article string `json:"article"`
	Count   int    `json:"count"`
}

type SexDistribution struct {
	Men   int            `json:"men"`
	Women int            `json:"women"`
	Major *constants.Sex `json:"major"`
}

// ParseIssueDate reads "12 березня 2021" style dates, falling back to
// dd.mm.yyyy when no month name occurs in value.
func ParseIssueDate(value string) (time.Time, bool) {
	lower := strings.ToLower(value)
	var day, month, year int

	if hasMonthMarker(lower) {
		m := labeledDatePattern.FindStringSubmatch(lower)
		if m == nil {
			return time.Time{}, false
		}
		day, _ = strconv.Atoi(m[1])
		month = monthIndex(m[2])
		year, _ = strconv.Atoi(m[3])
	} else {
		m := digitalDatePattern.FindStringSubmatch(value)
		if m == nil {
			return time.Time{}, false
		}
		day, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		year, _ = strconv.Atoi(m[3])
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}

func hasMonthMarker(value string) bool {
	for _, m := range MonthMarkers {
		if strings.Contains(value, m) {
			return true
		}
	}
	return false
}

func monthIndex(label string) int {
	for i, m := range MonthMarkers {
		if m == label {
			return i + 1
		}
	}
	return 0
}

// Productivity counts issue dates per weekday, Monday first. Unparseable
// dates are skipped.
func Productivity(docs []*parser.ParsedDocument) []WeekdayCount {
	counts := map[time.Weekday]int{}
	for _, d := range docs {
		if !present(d.DocumentIssueDate) {
			continue
		}
		if t, ok := ParseIssueDate(*d.DocumentIssueDate); ok {
			counts[t.Weekday()]++
		}
	}
	out := make([]WeekdayCount, 0, len(Weekdays))
	for _, wd := range Weekdays {
		out = append(out, WeekdayCount{Day: wd.String(), Count: counts[wd]})
	}
	return out
}

// TopArticles ranks citations after truncating them to 40 runes. Every
// occurrence credits up to five of the most similar distinct citations whose
// similarity reaches 0.99.
func TopArticles(docs []*parser.ParsedDocument) []ArticleFrequency {
	var (
		distinct []string
		seen     = map[string]int{}
	)
	for _, d := range docs {
		for _, a := range d.DocumentRegulatoryFramework {
			a = truncateRunes(strings.TrimSpace(a), articleRuneLimit)
			if a == "" {
				continue
			}
			if _, ok := seen[a]; !ok {
				distinct = append(distinct, a)
			}
			seen[a]++
		}
	}

	order := make(map[string]int, len(distinct))
	for i, a := range distinct {
		order[a] = i
	}

	freqs := map[string]int{}
	for _, a := range distinct {
		for _, c := range bestMatches(a, distinct, candidatesPerMatch) {
			if levenshtein.Similarity(a, c, nil) >= similarityCutoff {
				freqs[c] += seen[a]
			}
		}
	}

	out := make([]ArticleFrequency, 0, len(freqs))
	for a, n := range freqs {
		out = append(out, ArticleFrequency{Article: a, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return order[out[i].Article] < order[out[j].Article]
	})
	if len(out) > topArticlesLimit {
		out = out[:topArticlesLimit]
	}
	return out
}

func bestMatches(s string, choices []string, limit int) []string {
	type scored struct {
		value string
		score float64
	}
	ranked := make([]scored, len(choices))
	for i, c := range choices {
		ranked[i] = scored{c, levenshtein.Similarity(s, c, nil)}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	out := make([]string, len(ranked))
	for i, r := range ranked {
		out[i] = r.value
	}
	return out
}

func truncateRunes(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit])
}

// Sexes counts masculine and feminine parties and reports the majority.
func Sexes(docs []*parser.ParsedDocument) SexDistribution {
	var (
		dist SexDistribution
		all  []string
	)
	for _, d := range docs {
		for _, p := range d.CasePartiesInfo.Parties {
			if p.Sex == nil {
				continue
			}
			switch *p.Sex {
			case constants.SexMasculine:
				dist.Men++
			case constants.SexFeminine:
				dist.Women++
			}
			all = append(all, string(*p.Sex))
		}
	}
	dist.Major = parser.MajorSex(all)
	return dist
}
