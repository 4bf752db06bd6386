package parser

import (
	"time"

	"github.com/joseph-ayodele/courtdocs/constants"
)

// Section identifies one of the three document regions.
type Section int

const (
	SectionHeader Section = iota
	SectionRuling
	SectionDecision
)

func (s Section) String() string {
	switch s {
	case SectionHeader:
		return "header"
	case SectionRuling:
		return "ruling"
	case SectionDecision:
		return "decision"
	default:
		return "unknown"
	}
}

func (p *Parser) section(s Section) *string {
	switch s {
	case SectionHeader:
		return p.sections.Header
	case SectionRuling:
		return p.sections.Ruling
	default:
		return p.sections.Decision
	}
}

// withSection runs fn with the QA context narrowed to section s and restores
// the previous context on every exit path, panics included. An absent section
// leaves the context untouched.
func withSection[T any](p *Parser, s Section, fn func() (T, error)) (T, error) {
	if !p.opts.sectionScoping {
		return fn()
	}
	text := p.section(s)
	if text == nil {
		p.logger.Debug("parser.scope.section_absent", "section", s.String())
		return fn()
	}

	prev := p.qa.Context()
	p.qa.ResetContext(*text)
	defer p.qa.ResetContext(prev)
	return fn()
}

// instrument logs the field name, duration and outcome of one extraction.
func instrument[T any](p *Parser, field string, fn func() (T, error)) (T, error) {
	if !p.opts.instrumentation {
		return fn()
	}
	start := time.Now()
	v, err := fn()
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		p.logger.Error("parser.field.failed", "field", field, "error", err, "elapsed_ms", elapsed)
		return v, err
	}
	p.logger.Info("parser.field.ok", "field", field, "outcome", outcome(v), "elapsed_ms", elapsed)
	return v, nil
}

// extract composes instrumentation around a section-scoped extraction.
func extract[T any](p *Parser, field string, s Section, fn func() (T, error)) (T, error) {
	return instrument(p, field, func() (T, error) {
		return withSection(p, s, fn)
	})
}

func outcome(v any) string {
	switch x := v.(type) {
	case *string:
		switch {
		case x == nil:
			return "no_match"
		case *x == constants.NoOccurrence:
			return "no_occurrence"
		}
	case []string:
		if len(x) == 0 {
			return "no_match"
		}
	case CourtCommission:
		if x.Judge == nil && x.Prosecutor == nil && x.Clerk == nil {
			return "no_match"
		}
	case CasePartiesInfo:
		if x.Total == 0 {
			return "no_match"
		}
	}
	return "found"
}
