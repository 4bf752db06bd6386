package parser

import (
	"context"
	"errors"
	"sync"

	"github.com/joseph-ayodele/courtdocs/internal/qa"
	"github.com/joseph-ayodele/courtdocs/internal/tagger"
)

type fakeTagger struct {
	sentences []tagger.TaggedSentence
	err       error
	calls     int
}

func (f *fakeTagger) Tag(_ context.Context, _ string) ([]tagger.TaggedSentence, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.sentences, nil
}

type qaCall struct {
	Context  string
	Question string
}

// scriptedModel answers from a fixed table and records every call.
type scriptedModel struct {
	mu      sync.Mutex
	answers map[string]qa.Answer
	err     error
	calls   []qaCall
}

func (m *scriptedModel) Answer(_ context.Context, qaContext, question string) (qa.Answer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, qaCall{Context: qaContext, Question: question})
	if m.err != nil {
		return qa.Answer{}, m.err
	}
	return m.answers[question], nil
}

func (m *scriptedModel) asked(question string) []qaCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []qaCall
	for _, c := range m.calls {
		if c.Question == question {
			out = append(out, c)
		}
	}
	return out
}

type memorySink struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func newMemorySink() *memorySink {
	return &memorySink{files: map[string][]byte{}}
}

func (s *memorySink) Put(_ context.Context, name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.files[name] = append([]byte(nil), data...)
	return nil
}

var errBoom = errors.New("boom")

const rawDecision = "РІШЕННЯ\n" +
	"ІМЕНЕМ УКРАЇНИ\n" +
	"12 березня 2021 року м. Київ\n" +
	"Суддя Печерського районного суду Іванов І. І., секретар Петренко О. О.,\n" +
	"розглянувши позов ОСОБА_1 до ОСОБА_2,\n" +
	"ВСТАНОВИВ:\n" +
	"ОСОБА_1 звернувся до суду. Відповідно до ст. 15 Цивільного кодексу України позов обґрунтований. ОСОБА_2 заперечувала.\n" +
	"СУД ВИРІШИВ:\n" +
	"позов задовольнити повністю.\n" +
	"СУДДЯ Іванов"

func tok(id int, word, feats string) tagger.TaggedToken {
	return tagger.TaggedToken{ID: id, Word: word, Lemma: word, Type: "PROPN", Features: feats, RefID: 0, POS: "nsubj"}
}

func decisionSentences() []tagger.TaggedSentence {
	return []tagger.TaggedSentence{
		{ID: 1, Sentence: "розглянувши позов ОСОБА_1 до ОСОБА_2,", Data: []tagger.TaggedToken{
			tok(1, "розглянувши", "Aspect=Perf"),
			tok(2, "позов", "Case=Acc|Gender=Masc"),
			tok(3, "ОСОБА_1", "Case=Gen|Gender=Masc"),
			tok(4, "до", "_"),
			tok(5, "ОСОБА_2", "Case=Gen|Gender=Fem"),
		}},
		{ID: 2, Sentence: "ОСОБА_1 звернувся до суду.", Data: []tagger.TaggedToken{
			tok(1, "ОСОБА_1", "Case=Nom|Gender=Masc"),
			tok(2, "звернувся", "Gender=Masc"),
		}},
		{ID: 3, Sentence: "ОСОБА_2 заперечувала.", Data: []tagger.TaggedToken{
			tok(1, "ОСОБА_2", "Case=Nom|Gender=Fem"),
		}},
	}
}

func decisionAnswers() map[string]qa.Answer {
	return map[string]qa.Answer{
		questionIssueDate: {Text: "12 березня 2021 року", Score: 0.91},
		questionLocation:  {Text: "місто\nКиїв", Score: 0.77},
		questionJudge:     {Text: "Іванов І. І.", Score: 0.88},
		questionClerk:     {Text: "Петренко О. О.", Score: 0.64},
	}
}

func newTestParser(tg *fakeTagger, model *scriptedModel, sink *memorySink, opts ...Option) *Parser {
	session := qa.NewSession(model, 0.1, nil)
	if sink != nil {
		opts = append(opts, WithSink(sink))
	}
	return New(tg, session, opts...)
}

func qaAnswer(text string, score float64) qa.Answer {
	return qa.Answer{Text: text, Score: score}
}
