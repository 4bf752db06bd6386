package qa

import (
	"context"
	"log/slog"
	"strings"
)

// Session binds a shared Model to the context of one document. The active
// context is swapped in place, so a Session must not be shared between
// goroutines or documents.
type Session struct {
	model     Model
	threshold float64
	logger    *slog.Logger

	context string
}

func NewSession(model Model, threshold float64, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{model: model, threshold: threshold, logger: logger}
}

// Context returns the active answering context.
func (s *Session) Context() string {
	return s.context
}

// ResetContext replaces the active answering context.
func (s *Session) ResetContext(text string) {
	s.context = text
}

// Ask returns nil when the model's confidence does not exceed the threshold.
func (s *Session) Ask(ctx context.Context, question string) (*string, error) {
	ans, err := s.model.Answer(ctx, s.context, question)
	if err != nil {
		return nil, err
	}
	if ans.Score <= s.threshold {
		s.logger.Debug("qa.answer.below_threshold", "question", question, "score", ans.Score)
		return nil, nil
	}
	text := normalizeAnswer(ans.Text)
	return &text, nil
}

func normalizeAnswer(text string) string {
	return strings.ReplaceAll(strings.TrimSpace(text), "\n", " ")
}
