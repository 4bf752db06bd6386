package qa

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/transport"
)

// Answer is a raw extractive QA result.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score"`
}

// Model answers a question over a context. Implementations hold no
// per-document state and are safe for concurrent use.
type Model interface {
	Answer(ctx context.Context, context, question string) (Answer, error)
}

// Config configures the HTTP model.
type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries uint
	Headers    map[string]string
}

// HTTPModel calls an extractive QA inference server.
type HTTPModel struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewHTTPModel(cfg Config, logger *slog.Logger) *HTTPModel {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPModel{cfg: cfg, http: &http.Client{}, logger: logger}
}

type answerRequest struct {
	Context  string `json:"context"`
	Question string `json:"question"`
}

func (m *HTTPModel) Answer(ctx context.Context, qaContext, question string) (Answer, error) {
	start := time.Now()
	body := answerRequest{Context: qaContext, Question: question}

	policy := transport.DefaultRetryPolicy(m.cfg.MaxRetries, m.cfg.Timeout)
	raw, err := transport.Retry(ctx, policy, "qa", m.logger, func(ctx context.Context) ([]byte, error) {
		raw, _, err := transport.SendJSON(ctx, m.http, m.cfg.URL, body, m.cfg.Headers, m.logger)
		return raw, err
	})
	if err != nil {
		m.logger.Error("qa.answer.failed", "question", question, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return Answer{}, common.ServiceError("qa", err)
	}

	var out Answer
	if err := json.Unmarshal(raw, &out); err != nil {
		return Answer{}, common.ServiceError("qa", fmt.Errorf("decode answer: %w", err))
	}
	m.logger.Debug("qa.answer.ok",
		"question", question,
		"score", out.Score,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}
