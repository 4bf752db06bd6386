package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/async"
	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
	"github.com/joseph-ayodele/courtdocs/internal/repository"
	"github.com/joseph-ayodele/courtdocs/internal/source"
	"github.com/joseph-ayodele/courtdocs/internal/storage"
)

// Reader loads the raw text of a source document.
type Reader interface {
	Read(ctx context.Context, path string) (*source.Document, error)
}

// Processor parses one source file end to end: parse_job bookkeeping, source
// reading, parsing, the parsed_document upsert and artifact storage. Store,
// Jobs and Docs are optional; Docs needs Jobs for the job reference.
type Processor struct {
	Logger        *slog.Logger
	Reader        Reader
	Tagger        parser.Tagger
	NewQA         func() parser.QA
	Store         storage.Storage
	Jobs          repository.ParseJobRepository
	Docs          repository.ParsedDocumentRepository
	ParserOptions []parser.Option
}

// Result is the outcome of one ProcessFile call.
type Result struct {
	JobID      uuid.UUID
	DocumentID string
	Document   *parser.ParsedDocument
}

// ProcessFile parses the document at path. Every document gets a fresh
// parser and QA session so no state leaks between documents.
func (p *Processor) ProcessFile(ctx context.Context, path string) (*Result, error) {
	logger := p.logger()
	documentID := source.DocumentID(path)
	ctx = common.WithDocumentID(ctx, documentID)
	res := &Result{DocumentID: documentID}
	start := time.Now()

	if p.Jobs != nil {
		job, err := p.Jobs.Start(ctx, documentID, path, constants.FormatForExt(filepath.Ext(path)))
		if err != nil {
			return res, err
		}
		res.JobID = job.ID
	}

	var sink *commitSink
	if p.Store != nil {
		sink = &commitSink{next: storage.NewDocumentSink(p.Store, documentID)}
	}
	doc, err := p.parse(ctx, documentID, path, sink)
	if err == nil && p.Docs != nil {
		err = p.Docs.Upsert(ctx, documentID, res.JobID, doc)
	}
	if err == nil && sink != nil {
		err = sink.flush(ctx)
	}
	if err != nil {
		logger.Error("processor.parse.failed", "document_id", documentID, "job_id", res.JobID, "err", err)
		if p.Jobs != nil {
			if ferr := p.Jobs.FinishFailure(context.WithoutCancel(ctx), res.JobID, err.Error()); ferr != nil {
				logger.Warn("processor.job.finish_failed", "job_id", res.JobID, "err", ferr)
			}
		}
		return res, err
	}

	if p.Jobs != nil {
		if err := p.Jobs.FinishSuccess(ctx, res.JobID); err != nil {
			return res, err
		}
	}
	res.Document = doc
	logger.Info("processor.parse.ok",
		"document_id", documentID,
		"job_id", res.JobID,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

func (p *Processor) parse(ctx context.Context, documentID, path string, sink *commitSink) (*parser.ParsedDocument, error) {
	src, err := p.Reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	if p.NewQA == nil {
		return nil, fmt.Errorf("%w: processor has no QA session factory", common.ErrInternal)
	}

	opts := append([]parser.Option{parser.WithLogger(p.logger().With("document_id", documentID))}, p.ParserOptions...)
	if sink != nil {
		opts = append(opts, parser.WithSink(sink))
	}
	return parser.New(p.Tagger, p.NewQA(), opts...).Parse(ctx, src.Text)
}

// commitSink passes intermediate artifacts straight through but holds
// parsed_document.json back until flush, so the final artifact only exists
// once the parsed_document row does.
type commitSink struct {
	next  parser.Sink
	final []byte
}

func (s *commitSink) Put(ctx context.Context, name string, data []byte) error {
	if name == constants.ArtifactParsedDocument {
		s.final = data
		return nil
	}
	return s.next.Put(ctx, name, data)
}

func (s *commitSink) flush(ctx context.Context) error {
	if s.final == nil {
		return nil
	}
	if err := s.next.Put(ctx, constants.ArtifactParsedDocument, s.final); err != nil {
		return fmt.Errorf("write %s: %w", constants.ArtifactParsedDocument, err)
	}
	return nil
}

// Process adapts ProcessFile to the async queue.
func (p *Processor) Process(ctx context.Context, job async.Job) error {
	_, err := p.ProcessFile(ctx, job.Path)
	return err
}

func (p *Processor) logger() *slog.Logger {
	if p.Logger == nil {
		return slog.Default()
	}
	return p.Logger
}
