package tagger

import (
	"context"
	"log/slog"
	"time"
)

// Tagger produces tagged sentences for a document.
type Tagger struct {
	svc    Service
	logger *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Tagger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Tagger{svc: svc, logger: logger}
}

func (t *Tagger) Tag(ctx context.Context, text string) ([]TaggedSentence, error) {
	start := time.Now()
	raw, err := t.svc.Process(ctx, text)
	if err != nil {
		return nil, err
	}
	sentences, err := MapResponse(raw)
	if err != nil {
		t.logger.Error("tagger.map.failed", "error", err)
		return nil, err
	}
	t.logger.Info("tagger.tag.ok", "sentences", len(sentences), "elapsed_ms", time.Since(start).Milliseconds())
	return sentences, nil
}
