package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/tagger"
)

var (
	partyPattern  = regexp.MustCompile(`ОСОБА_\d+`)
	genderPattern = regexp.MustCompile(`(Neut|Masc|Fem)`)
)

// CountParties returns the number of distinct anonymised party identifiers.
func CountParties(doc string) int {
	seen := make(map[string]struct{})
	for _, m := range partyPattern.FindAllString(doc, -1) {
		seen[m] = struct{}{}
	}
	return len(seen)
}

// PartyGenders collects, for ОСОБА_1..ОСОБА_total, the first gender marker of
// every token naming that party.
func PartyGenders(sentences []tagger.TaggedSentence, total int) map[string][]string {
	out := make(map[string][]string, total)
	for id := 1; id <= total; id++ {
		name := partyName(id)
		var genders []string
		for _, s := range sentences {
			if !strings.Contains(s.Sentence, name) {
				continue
			}
			for _, tok := range s.Data {
				if tok.Word != name {
					continue
				}
				if g := genderPattern.FindString(tok.Features); g != "" {
					genders = append(genders, g)
				}
			}
		}
		out[name] = genders
	}
	return out
}

// MajorSex resolves a majority vote over gender markers. Ties, including
// zero against zero, resolve to nil. Neuter markers never count.
func MajorSex(sexes []string) *constants.Sex {
	masc, fem := 0, 0
	for _, s := range sexes {
		switch constants.Sex(s) {
		case constants.SexMasculine:
			masc++
		case constants.SexFeminine:
			fem++
		}
	}
	var sex constants.Sex
	switch {
	case masc > fem:
		sex = constants.SexMasculine
	case fem > masc:
		sex = constants.SexFeminine
	default:
		return nil
	}
	return &sex
}

// FindCaseParties counts parties in doc and infers each party's sex.
func FindCaseParties(doc string, sentences []tagger.TaggedSentence) CasePartiesInfo {
	total := CountParties(doc)
	genders := PartyGenders(sentences, total)

	parties := make([]CaseParty, 0, total)
	for id := 1; id <= total; id++ {
		name := partyName(id)
		parties = append(parties, CaseParty{Name: name, Sex: MajorSex(genders[name])})
	}
	return CasePartiesInfo{Total: total, Parties: parties}
}

func partyName(id int) string {
	return fmt.Sprintf("ОСОБА_%d", id)
}
