package insights

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/courtdocs/internal/parser"
)

// Report gathers every statistic computed over a set of parsed documents.
type Report struct {
	Documents    int                `json:"documents"`
	Efficiency   ParserEfficiency   `json:"efficiency"`
	Productivity []WeekdayCount     `json:"productivity"`
	TopArticles  []ArticleFrequency `json:"top_articles"`
	Sexes        SexDistribution    `json:"sexes"`
}

// Source yields the parsed documents to analyse.
type Source interface {
	ParsedDocuments(ctx context.Context) ([]*parser.ParsedDocument, error)
}

func Build(docs []*parser.ParsedDocument) *Report {
	return &Report{
		Documents:    len(docs),
		Efficiency:   Efficiency(docs),
		Productivity: Productivity(docs),
		TopArticles:  TopArticles(docs),
		Sexes:        Sexes(docs),
	}
}

// Analyze loads documents from src and builds a report.
func Analyze(ctx context.Context, src Source, logger *slog.Logger) (*Report, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()
	docs, err := src.ParsedDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("load parsed documents: %w", err)
	}
	r := Build(docs)
	logger.Info("insights.analyze.ok",
		"documents", r.Documents,
		"average_efficiency", r.Efficiency.AveragePercentage,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return r, nil
}

// EfficiencyJSON renders the efficiency.json artifact.
func (r *Report) EfficiencyJSON() ([]byte, error) {
	return json.MarshalIndent(r.Efficiency, "", "  ")
}
