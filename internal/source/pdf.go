package source

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/joseph-ayodele/courtdocs/internal/common"
)

// PDFExtractor turns a PDF file into plain text.
type PDFExtractor interface {
	ExtractText(ctx context.Context, path string) (string, error)
}

// PdfToText extracts the text layer with poppler's pdftotext, UTF-8 with
// unix line ends on stdout. Page breaks come through as form feeds.
type PdfToText struct {
	Bin    string
	Logger *slog.Logger
}

func (p PdfToText) ExtractText(ctx context.Context, path string) (string, error) {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bin := p.Bin
	if bin == "" {
		bin = "pdftotext"
	}
	start := time.Now()

	cmd := exec.CommandContext(ctx, bin, "-enc", "UTF-8", "-eol", "unix", path, "-")
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		reason := stderrReason(stderr.String())
		logger.Error("source.pdftotext.failed",
			"path", path,
			"bin", bin,
			"elapsed_ms", time.Since(start).Milliseconds(),
			"stderr", reason,
			"error", err,
		)
		if errors.Is(err, exec.ErrNotFound) {
			return "", common.NewAppError(common.CodeSource, bin+" is not installed", errors.Join(common.ErrServiceUnavailable, err))
		}
		if reason == "" {
			reason = err.Error()
		}
		return "", common.NewAppError(common.CodeSource, "pdftotext failed: "+reason, err)
	}

	// A scanned decision without a text layer yields nothing useful.
	if strings.TrimSpace(stdout.String()) == "" {
		logger.Warn("source.pdftotext.no_text", "path", path)
	}
	logger.Debug("source.pdftotext.ok",
		"path", path,
		"elapsed_ms", time.Since(start).Milliseconds(),
		"bytes", stdout.Len(),
	)
	return stdout.String(), nil
}

// stderrReason keeps the first non-empty line of pdftotext's diagnostics.
func stderrReason(s string) string {
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return truncateRunes(line, 512)
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
