package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/common"
	"github.com/joseph-ayodele/courtdocs/internal/sections"
	"github.com/joseph-ayodele/courtdocs/internal/tagger"
)

// State is a step of the parse lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateDocumentCommitted
	StateTagged
	StateSectionsResolved
	StateFieldsExtracted
	StateCommitted
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateDocumentCommitted:
		return "document_committed"
	case StateTagged:
		return "tagged"
	case StateSectionsResolved:
		return "sections_resolved"
	case StateFieldsExtracted:
		return "fields_extracted"
	case StateCommitted:
		return "committed"
	default:
		return "unknown"
	}
}

// Tagger produces tagged sentences for a normalised document.
type Tagger interface {
	Tag(ctx context.Context, text string) ([]tagger.TaggedSentence, error)
}

// QA answers questions against a swappable context.
type QA interface {
	Ask(ctx context.Context, question string) (*string, error)
	Context() string
	ResetContext(text string)
}

// Sink receives the intermediate and final artifacts of a parse.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
}

type options struct {
	logger           *slog.Logger
	sink             Sink
	engine           *sections.Engine
	sectionScoping   bool
	instrumentation  bool
	schemaValidation bool
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithSink(s Sink) Option {
	return func(o *options) { o.sink = s }
}

func WithEngine(e *sections.Engine) Option {
	return func(o *options) {
		if e != nil {
			o.engine = e
		}
	}
}

// WithSectionScoping toggles narrowing the QA context to a section.
func WithSectionScoping(on bool) Option {
	return func(o *options) { o.sectionScoping = on }
}

// WithInstrumentation toggles per-field structured logging.
func WithInstrumentation(on bool) Option {
	return func(o *options) { o.instrumentation = on }
}

func WithSchemaValidation(on bool) Option {
	return func(o *options) { o.schemaValidation = on }
}

// Parser turns the text of one document into a ParsedDocument. A Parser owns
// its QA session and must not be reused for another document.
type Parser struct {
	mu sync.Mutex

	tagger Tagger
	qa     QA
	engine *sections.Engine
	sink   Sink
	logger *slog.Logger
	opts   options

	state     State
	document  string
	sentences []tagger.TaggedSentence
	sections  sections.Sections
	result    *ParsedDocument
}

func New(t Tagger, q QA, opts ...Option) *Parser {
	o := options{
		logger:           slog.Default(),
		sectionScoping:   true,
		instrumentation:  true,
		schemaValidation: true,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.engine == nil {
		o.engine = sections.NewEngine()
	}
	return &Parser{
		tagger: t,
		qa:     q,
		engine: o.engine,
		sink:   o.sink,
		logger: o.logger,
		opts:   o,
	}
}

func (p *Parser) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Document returns the normalised working document.
func (p *Parser) Document() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.document
}

func (p *Parser) Sentences() []tagger.TaggedSentence {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sentences
}

// Parse runs the whole pipeline on raw. Once committed, later calls return
// the cached record and ignore raw. Any failure resets the parser to
// StateUninitialized and commits nothing.
func (p *Parser) Parse(ctx context.Context, raw string) (*ParsedDocument, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateCommitted {
		p.logger.Debug("parser.parse.cached")
		return p.result, nil
	}

	start := time.Now()
	doc, err := p.run(ctx, raw)
	if err != nil {
		failedAt := p.state
		p.reset()
		p.logger.Error("parser.parse.failed",
			"state", failedAt.String(),
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	p.logger.Info("parser.parse.ok",
		"parties", doc.CasePartiesInfo.Total,
		"citations", len(doc.DocumentRegulatoryFramework),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}

func (p *Parser) run(ctx context.Context, raw string) (*ParsedDocument, error) {
	if err := p.commitDocument(ctx, raw); err != nil {
		return nil, err
	}
	if err := p.tag(ctx); err != nil {
		return nil, err
	}
	p.resolveSections()
	doc, err := p.extractFields(ctx)
	if err != nil {
		return nil, err
	}
	if err := p.commit(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (p *Parser) commitDocument(ctx context.Context, raw string) error {
	normalized := Normalize(raw)
	if strings.TrimSpace(normalized) == "" {
		return common.NewAppError(common.CodeSource, "document is empty", common.ErrInvalidInput)
	}
	if err := p.put(ctx, constants.ArtifactDocument, []byte(normalized)); err != nil {
		return err
	}
	p.document = normalized
	p.qa.ResetContext(normalized)
	p.state = StateDocumentCommitted
	return nil
}

func (p *Parser) tag(ctx context.Context) error {
	sentences, err := instrument(p, "sentences", func() ([]tagger.TaggedSentence, error) {
		return p.tagger.Tag(ctx, p.document)
	})
	if err != nil {
		return err
	}
	data, err := json.Marshal(sentences)
	if err != nil {
		return fmt.Errorf("encode sentences: %w", err)
	}
	if err := p.put(ctx, constants.ArtifactSentences, data); err != nil {
		return err
	}
	p.sentences = sentences
	p.state = StateTagged
	return nil
}

func (p *Parser) resolveSections() {
	p.sections, _ = instrument(p, "document_sections", func() (sections.Sections, error) {
		return p.engine.Resolve(p.document), nil
	})
	p.state = StateSectionsResolved
}

// extractFields runs the field extractors one at a time; the QA session
// holds a single active context.
func (p *Parser) extractFields(ctx context.Context) (*ParsedDocument, error) {
	var (
		doc = &ParsedDocument{DocumentSections: p.sections}
		err error
	)

	if doc.DocumentIssueDate, err = extract(p, "document_issue_date", SectionHeader, func() (*string, error) {
		return p.findIssueDate(ctx)
	}); err != nil {
		return nil, err
	}
	if doc.DocumentRegulatoryFramework, err = instrument(p, "document_regulatory_framework", p.findRegulatoryFramework); err != nil {
		return nil, err
	}
	if doc.DocumentDecisionStatus, err = extract(p, "document_decision_status", SectionDecision, p.findDecisionStatus); err != nil {
		return nil, err
	}
	if doc.CaseForm, err = instrument(p, "case_form", p.findCaseForm); err != nil {
		return nil, err
	}
	if doc.CasePartiesInfo, err = instrument(p, "case_parties_info", p.findCaseParties); err != nil {
		return nil, err
	}
	if doc.CourtCommission, err = extract(p, "court_commission", SectionHeader, func() (CourtCommission, error) {
		return p.findCourtCommission(ctx)
	}); err != nil {
		return nil, err
	}
	if doc.CourtLocation, err = extract(p, "court_location", SectionHeader, func() (*string, error) {
		return p.findCourtLocation(ctx)
	}); err != nil {
		return nil, err
	}

	p.state = StateFieldsExtracted
	return doc, nil
}

func (p *Parser) commit(ctx context.Context, doc *ParsedDocument) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode parsed document: %w", err)
	}
	if p.opts.schemaValidation {
		if err := ValidateParsedDocument(data); err != nil {
			return common.NewAppError("SCHEMA_ERROR", "parsed document rejected", fmt.Errorf("%w: %v", common.ErrValidation, err))
		}
	}
	if err := p.put(ctx, constants.ArtifactParsedDocument, data); err != nil {
		return err
	}
	p.result = doc
	p.state = StateCommitted
	return nil
}

func (p *Parser) put(ctx context.Context, name string, data []byte) error {
	if p.sink == nil {
		return nil
	}
	if err := p.sink.Put(ctx, name, data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (p *Parser) reset() {
	p.state = StateUninitialized
	p.document = ""
	p.sentences = nil
	p.sections = sections.Sections{}
	p.result = nil
	p.qa.ResetContext("")
}
