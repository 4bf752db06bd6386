package parser

import (
	"context"
	"regexp"
	"strings"

	"github.com/joseph-ayodele/courtdocs/constants"
)

const (
	questionIssueDate  = "Перша дата після іменем України?"
	questionLocation   = "Де розташований суд?"
	questionJudge      = "ПІБ головуючого судді?"
	questionProsecutor = "ПІБ прокурора?"
	questionClerk      = "ПІБ секретаря?"
)

var (
	regulatoryFrameworkPattern = regexp.MustCompile(`(?i)(пункт|частина|стаття).*України`)
	decisionStatusPattern      = regexp.MustCompile(`(задовольнити|відмовити)`)
	fullnamePattern            = regexp.MustCompile(`^[А-ЩЬЮЯІЇЄҐ][а-щьюяіїєґ'’]+\s?[А-ЩЬЮЯІЇЄҐ]\.\s?[А-ЩЬЮЯІЇЄҐ]\.$`)

	judgePattern      = regexp.MustCompile(`(?i)судд(я|і|ею)`)
	prosecutorPattern = regexp.MustCompile(`(?i)прокурор`)
	clerkPattern      = regexp.MustCompile(`(?i)секретар`)
)

func (p *Parser) findRegulatoryFramework() ([]string, error) {
	matches := regulatoryFrameworkPattern.FindAllString(p.document, -1)
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}

func (p *Parser) findIssueDate(ctx context.Context) (*string, error) {
	return p.qa.Ask(ctx, questionIssueDate)
}

func (p *Parser) findCourtLocation(ctx context.Context) (*string, error) {
	return p.qa.Ask(ctx, questionLocation)
}

// findDecisionStatus never calls the QA model: the status is read off the
// active context directly.
func (p *Parser) findDecisionStatus() (*string, error) {
	active := p.qa.Context()
	if !decisionStatusPattern.MatchString(active) {
		return sentinel(), nil
	}
	for _, status := range []string{constants.DecisionSatisfied, constants.DecisionRejected} {
		if strings.Contains(active, status) {
			s := status
			return &s, nil
		}
	}
	return nil, nil
}

func (p *Parser) findCaseForm() (*string, error) {
	return p.engine.CaseForm(p.document), nil
}

func (p *Parser) findCaseParties() (CasePartiesInfo, error) {
	return FindCaseParties(p.document, p.sentences), nil
}

func (p *Parser) findCourtCommission(ctx context.Context) (CourtCommission, error) {
	var (
		c   CourtCommission
		err error
	)
	if c.Judge, err = p.askRole(ctx, judgePattern, questionJudge); err != nil {
		return CourtCommission{}, err
	}
	if c.Prosecutor, err = p.askRole(ctx, prosecutorPattern, questionProsecutor); err != nil {
		return CourtCommission{}, err
	}
	if c.Clerk, err = p.askRole(ctx, clerkPattern, questionClerk); err != nil {
		return CourtCommission{}, err
	}
	return c, nil
}

// askRole skips the QA call when the role keyword is missing from the
// active context and keeps only answers shaped like "Прізвище І. Б.".
func (p *Parser) askRole(ctx context.Context, keyword *regexp.Regexp, question string) (*string, error) {
	if !keyword.MatchString(p.qa.Context()) {
		return sentinel(), nil
	}
	ans, err := p.qa.Ask(ctx, question)
	if err != nil {
		return nil, err
	}
	return onlyIfFullname(ans), nil
}

func onlyIfFullname(s *string) *string {
	if s == nil || !fullnamePattern.MatchString(*s) {
		return nil
	}
	return s
}

func sentinel() *string {
	s := constants.NoOccurrence
	return &s
}
