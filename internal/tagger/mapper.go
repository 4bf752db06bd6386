package tagger

import (
	"strconv"
	"strings"

	"github.com/joseph-ayodele/courtdocs/internal/common"
)

const (
	newparMarker   = "# newpar"
	sentIDMarker   = "# sent_id = "
	sentTextMarker = "# text = "

	// generator, udpipe_model, udpipe_model_licence, newdoc, first newpar
	preambleLines = 5
	conlluColumns = 10
)

// MapResponse turns a CoNLL-U body into ordered sentences.
// Any malformed sentence or token row aborts mapping with a FORMAT_ERROR.
func MapResponse(raw string) ([]TaggedSentence, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	if len(lines) <= preambleLines {
		return nil, nil
	}

	groups := groupSentences(dropParagraphMarkers(lines[preambleLines:]))
	sentences := make([]TaggedSentence, 0, len(groups))
	for i, g := range groups {
		s, err := mapSentence(g)
		if err != nil {
			return nil, common.WrapError(err, "sentence "+strconv.Itoa(i+1))
		}
		sentences = append(sentences, s)
	}
	return sentences, nil
}

func dropParagraphMarkers(lines []string) []string {
	out := lines[:0:0]
	for _, l := range lines {
		if strings.Contains(l, newparMarker) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// groupSentences splits on blank lines and drops empty groups.
func groupSentences(lines []string) [][]string {
	var (
		groups  [][]string
		current []string
	)
	for _, l := range lines {
		if l == "" {
			if len(current) > 0 {
				groups = append(groups, current)
			}
			current = nil
			continue
		}
		current = append(current, l)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

func mapSentence(lines []string) (TaggedSentence, error) {
	if len(lines) < 2 || !strings.HasPrefix(lines[0], sentIDMarker) || !strings.HasPrefix(lines[1], sentTextMarker) {
		return TaggedSentence{}, common.FormatError("missing sent_id/text metadata")
	}
	id, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(lines[0], sentIDMarker)))
	if err != nil {
		return TaggedSentence{}, common.FormatError("sent_id is not an integer: %q", lines[0])
	}

	tokens := make([]TaggedToken, 0, len(lines)-2)
	for _, row := range lines[2:] {
		tok, err := mapToken(row)
		if err != nil {
			return TaggedSentence{}, err
		}
		tokens = append(tokens, tok)
	}
	return TaggedSentence{
		ID:       id,
		Sentence: strings.TrimPrefix(lines[1], sentTextMarker),
		Data:     tokens,
	}, nil
}

func mapToken(row string) (TaggedToken, error) {
	cols := strings.Split(row, "\t")
	if len(cols) != conlluColumns {
		return TaggedToken{}, common.FormatError("token row has %d columns, want %d: %q", len(cols), conlluColumns, row)
	}
	id, err := strconv.Atoi(cols[0])
	if err != nil {
		return TaggedToken{}, common.FormatError("token id is not an integer: %q", cols[0])
	}
	ref, err := strconv.Atoi(cols[6])
	if err != nil {
		return TaggedToken{}, common.FormatError("head id is not an integer: %q", cols[6])
	}
	return TaggedToken{
		ID:       id,
		Word:     cols[1],
		Lemma:    cols[2],
		Type:     cols[3],
		Features: cols[5],
		RefID:    ref,
		POS:      cols[7],
	}, nil
}
