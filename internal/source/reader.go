package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/common"
)

// Document is the raw text of one source file.
type Document struct {
	ID     string
	Path   string
	Format string
	Text   string
}

type Config struct {
	PdfToText string
}

// Reader loads .txt files directly and .pdf files through a PDFExtractor.
type Reader struct {
	pdf    PDFExtractor
	logger *slog.Logger
}

// NewReader uses pdf for PDF sources, or pdftotext from cfg when pdf is nil.
func NewReader(cfg Config, pdf PDFExtractor, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if pdf == nil {
		pdf = PdfToText{Bin: cfg.PdfToText, Logger: logger}
	}
	return &Reader{pdf: pdf, logger: logger}
}

func (r *Reader) Read(ctx context.Context, path string) (*Document, error) {
	start := time.Now()
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return nil, common.NewAppError(common.CodeSource, fmt.Sprintf("unsupported file type %q", ext), common.ErrInvalidInput)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case "pdf":
		text, err = r.readPDF(ctx, path)
	default:
		text, err = r.readTXT(path)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Info("source.read.ok",
		"path", path,
		"format", ext,
		"bytes", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &Document{ID: DocumentID(path), Path: path, Format: constants.FormatForExt(ext), Text: text}, nil
}

func (r *Reader) readTXT(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", common.NewAppError(common.CodeSource, "source not found: "+path, common.ErrNotFound)
		}
		return "", common.NewAppError(common.CodeSource, "read "+path, err)
	}
	if !utf8.Valid(b) {
		r.logger.Warn("source.read.invalid_utf8", "path", path)
	}
	return string(b), nil
}

func (r *Reader) readPDF(ctx context.Context, path string) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", common.NewAppError(common.CodeSource, "source not found: "+path, common.ErrNotFound)
	}
	return r.pdf.ExtractText(ctx, path)
}

// DocumentID is the file name without its extension.
func DocumentID(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// Supported reports whether path names a visible PDF or TXT document.
func Supported(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	_, ok := constants.AllowedExtensions[constants.NormalizeExt(filepath.Ext(base))]
	return ok
}

// List returns the supported documents of dir, numeric ids first in
// ascending order, then the rest by name.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if path := filepath.Join(dir, e.Name()); Supported(path) {
			paths = append(paths, path)
		}
	}
	sort.SliceStable(paths, func(i, j int) bool {
		a, b := DocumentID(paths[i]), DocumentID(paths[j])
		ai, aerr := strconv.Atoi(a)
		bi, berr := strconv.Atoi(b)
		switch {
		case aerr == nil && berr == nil:
			return ai < bi
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return a < b
		}
	})
	return paths, nil
}
