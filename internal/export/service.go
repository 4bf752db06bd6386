package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/courtdocs/internal/insights"
)

// Sheet names of the insights workbook.
const (
	SheetEfficiency   = "Efficiency"
	SheetProductivity = "Productivity"
	SheetArticles     = "Top Articles"
	SheetSexes        = "Sexes"
)

// Service produces XLSX bytes for insights reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// InsightsXLSX returns a workbook with one sheet per statistic.
func (s *Service) InsightsXLSX(_ context.Context, r *insights.Report) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name    string
		headers []string
		rows    [][]any
		widths  []float64
	}{
		{SheetEfficiency, []string{"Entity", "Percentage"}, efficiencyRows(r.Efficiency), []float64{34, 12}},
		{SheetProductivity, []string{"Weekday", "Decisions"}, productivityRows(r.Productivity), []float64{14, 12}},
		{SheetArticles, []string{"Article", "Frequency"}, articleRows(r.TopArticles), []float64{48, 12}},
		{SheetSexes, []string{"Sex", "Count"}, sexRows(r.Sexes), []float64{14, 12}},
	}

	for i, sh := range sheets {
		if i == 0 {
			// reuse the default sheet so the workbook has no empty tab
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return nil, err
		}
		if err := writeTable(f, sh.name, sh.headers, sh.rows); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.name, err)
		}
		for col, w := range sh.widths {
			name, _ := excelize.ColumnNumberToName(col + 1)
			_ = f.SetColWidth(sh.name, name, name, w)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"documents", r.Documents,
		"sheets", len(sheets),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeTable(f *excelize.File, sheet string, headers []string, rows [][]any) error {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func efficiencyRows(e insights.ParserEfficiency) [][]any {
	rows := make([][]any, 0, len(e.MethodsEfficiencies)+1)
	for _, m := range e.MethodsEfficiencies {
		rows = append(rows, []any{m.Entity, m.Percentage})
	}
	return append(rows, []any{"average", e.AveragePercentage})
}

func productivityRows(days []insights.WeekdayCount) [][]any {
	rows := make([][]any, 0, len(days))
	for _, d := range days {
		rows = append(rows, []any{d.Day, d.Count})
	}
	return rows
}

func articleRows(articles []insights.ArticleFrequency) [][]any {
	rows := make([][]any, 0, len(articles))
	for _, a := range articles {
		rows = append(rows, []any{truncate(a.Article, 255), a.Count})
	}
	return rows
}

func sexRows(d insights.SexDistribution) [][]any {
	major := "-"
	if d.Major != nil {
		major = string(*d.Major)
	}
	return [][]any{{"Men", d.Men}, {"Women", d.Women}, {"Major", major}}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
