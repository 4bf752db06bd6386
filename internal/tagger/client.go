package tagger

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

// Service returns the raw CoNLL-U body for a document.
type Service interface {
	Process(ctx context.Context, text string) (string, error)
}

// Config configures the UDPipe HTTP client.
type Config struct {
	URL        string
	Model      string
	Timeout    time.Duration
	MaxRetries uint
}

// Client talks to a running UDPipe REST server.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{},
		logger: logger,
	}
}

type processResponse struct {
	Model  string `json:"model"`
	Result string `json:"result"`
}

// Process uploads text with the tokenizer, tagger and parser enabled.
func (c *Client) Process(ctx context.Context, text string) (string, error) {
	start := time.Now()
	fields := map[string]string{
		"model":     c.cfg.Model,
		"tokenizer": "",
		"tagger":    "",
		"parser":    "",
	}
	file := transport.FilePart{Field: "data", Filename: "document.txt", Content: []byte(text)}

	policy := transport.DefaultRetryPolicy(c.cfg.MaxRetries, c.cfg.Timeout)
	raw, err := transport.Retry(ctx, policy, "tagger", c.logger, func(ctx context.Context) ([]byte, error) {
		raw, _, err := transport.SendMultipart(ctx, c.http, c.cfg.URL, fields, file, c.logger)
		return raw, err
	})
	if err != nil {
		c.logger.Error("tagger.process.failed", "url", c.cfg.URL, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", common.ServiceError("tagger", err)
	}

	var resp processResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", common.NewAppError(common.CodeFormat, "decode tagger response", fmt.Errorf("%w: %v", common.ErrFormat, err))
	}
	if resp.Result == "" {
		return "", common.FormatError("tagger response has no result")
	}

	c.logger.Info("tagger.process.ok",
		"model", resp.Model,
		"bytes", len(resp.Result),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp.Result, nil
}
