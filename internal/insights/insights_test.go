package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/parser"
	"github.com/joseph-ayodele/courtdocs/internal/sections"
	"github.com/joseph-ayodele/courtdocs/internal/storage"
)

func strPtr(s string) *string { return &s }

func sexPtr(s constants.Sex) *constants.Sex { return &s }

func sampleDocs() []*parser.ParsedDocument {
	return []*parser.ParsedDocument{
		{
			DocumentSections: sections.Sections{
				Header:   strPtr("шапка"),
				Ruling:   strPtr("встановив"),
				Decision: strPtr("ухвалив"),
			},
			DocumentIssueDate:           strPtr("15 березня 2021 року"),
			DocumentRegulatoryFramework: []string{"стаття 185 частина 1 КК України", "стаття 65 КК України"},
			DocumentDecisionStatus:      strPtr(constants.DecisionSatisfied),
			CaseForm:                    strPtr("вирок"),
			CasePartiesInfo: parser.CasePartiesInfo{Total: 2, Parties: []parser.CaseParty{
				{Name: "ОСОБА_1", Sex: sexPtr(constants.SexMasculine)},
				{Name: "ОСОБА_2", Sex: sexPtr(constants.SexFeminine)},
			}},
			CourtCommission: parser.CourtCommission{Judge: strPtr("Іванов І. І."), Clerk: strPtr(constants.NoOccurrence)},
			CourtLocation:   strPtr("м. Київ"),
		},
		{
			DocumentSections:            sections.Sections{Ruling: strPtr("встановив")},
			DocumentIssueDate:           strPtr("16.03.2021"),
			DocumentRegulatoryFramework: []string{"стаття 185 частина 1 КК України"},
			DocumentDecisionStatus:      strPtr(constants.DecisionRejected),
			CasePartiesInfo: parser.CasePartiesInfo{Total: 2, Parties: []parser.CaseParty{
				{Name: "ОСОБА_1", Sex: sexPtr(constants.SexMasculine)},
				{Name: "ОСОБА_2"},
			}},
			CourtCommission: parser.CourtCommission{Judge: strPtr("Петров П. П.")},
		},
	}
}

func efficiencyOf(t *testing.T, e ParserEfficiency, entity string) float64 {
	t.Helper()
	for _, m := range e.MethodsEfficiencies {
		if m.Entity == entity {
			return m.Percentage
		}
	}
	t.Fatalf("entity %s not reported", entity)
	return 0
}

func TestEfficiency(t *testing.T) {
	e := Efficiency(sampleDocs())
	require.Len(t, e.MethodsEfficiencies, 12)

	expected := map[string]float64{
		"document_sections_header":      0.5,
		"document_sections_ruling":      1,
		"document_sections_decision":    0.5,
		"document_issue_date":           1,
		"document_regulatory_framework": 1,
		"document_decision_status":      0.5, // second status has no decision section
		"case_form":                     0.5,
		"case_parties_info_sex":         0.75,
		"court_commission_judge":        0.5, // second judge has no header
		"court_commission_prosecutor":   0,
		"court_commission_clerk":        0.5,
		"court_location":                0.5,
	}
	var sum float64
	for entity, want := range expected {
		assert.Equal(t, want, efficiencyOf(t, e, entity), entity)
		sum += want
	}
	assert.Equal(t, round3(sum/12), e.AveragePercentage)
}

func TestEfficiency_NoDocuments(t *testing.T) {
	e := Efficiency(nil)
	assert.Equal(t, 0.0, e.AveragePercentage)
	assert.Len(t, e.MethodsEfficiencies, 12)
}

func TestRound3(t *testing.T) {
	assert.Equal(t, 0.667, round3(2.0/3.0))
	assert.Equal(t, 0.333, round3(1.0/3.0))
}

func TestParseIssueDate(t *testing.T) {
	cases := map[string]time.Time{
		"15 березня 2021 року":  time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC),
		`"01" ГРУДНЯ 2020 р.`:   time.Date(2020, time.December, 1, 0, 0, 0, 0, time.UTC),
		"16.03.2021":            time.Date(2021, time.March, 16, 0, 0, 0, 0, time.UTC),
		"дата: 05/11/2019 року": time.Date(2019, time.November, 5, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseIssueDate(in)
		require.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"березня", "31.02.2021", "нещодавно", "5 травня 2021"} {
		_, ok := ParseIssueDate(in)
		assert.False(t, ok, in)
	}
}

func TestProductivity(t *testing.T) {
	docs := sampleDocs()
	docs = append(docs, &parser.ParsedDocument{DocumentIssueDate: strPtr("невідомо")}, &parser.ParsedDocument{})

	got := Productivity(docs)
	require.Len(t, got, 7)
	assert.Equal(t, WeekdayCount{Day: "Monday", Count: 1}, got[0])
	assert.Equal(t, WeekdayCount{Day: "Tuesday", Count: 1}, got[1])
	assert.Equal(t, "Sunday", got[6].Day)
	assert.Zero(t, got[6].Count)
}

func TestTopArticles(t *testing.T) {
	long := strings.Repeat("б", 50)
	docs := []*parser.ParsedDocument{
		{DocumentRegulatoryFramework: []string{"стаття 185 КК України", "стаття 65 КК України", long}},
		{DocumentRegulatoryFramework: []string{"стаття 185 КК України", " ", long + "в"}},
		{DocumentRegulatoryFramework: []string{"стаття 185 КК України"}},
	}

	got := TopArticles(docs)
	require.Len(t, got, 3)
	assert.Equal(t, ArticleFrequency{Article: "стаття 185 КК України", Count: 3}, got[0])
	// both long citations collapse to the same 40-rune prefix
	assert.Equal(t, ArticleFrequency{Article: strings.Repeat("б", 40), Count: 2}, got[1])
	assert.Equal(t, ArticleFrequency{Article: "стаття 65 КК України", Count: 1}, got[2])
}

func TestTopArticles_Limit(t *testing.T) {
	var citations []string
	for i := 0; i < 30; i++ {
		citations = append(citations, "стаття "+strings.Repeat("1", i+1))
	}
	got := TopArticles([]*parser.ParsedDocument{{DocumentRegulatoryFramework: citations}})
	assert.Len(t, got, topArticlesLimit)
}

func TestSexes(t *testing.T) {
	d := Sexes(sampleDocs())
	assert.Equal(t, 2, d.Men)
	assert.Equal(t, 1, d.Women)
	require.NotNil(t, d.Major)
	assert.Equal(t, constants.SexMasculine, *d.Major)

	tie := Sexes(sampleDocs()[:1])
	assert.Nil(t, tie.Major)
}

type failingSource struct{}

func (failingSource) ParsedDocuments(context.Context) ([]*parser.ParsedDocument, error) {
	return nil, errors.New("disk gone")
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir(), nil)
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "1/parsed_document.json", []byte(`{"document_issue_date":"15 березня 2021 року","document_regulatory_framework":[],"case_parties_info":{"total":0,"parties":[]}}`)))
	require.NoError(t, store.Put(ctx, "1/document.txt", []byte("текст")))
	require.NoError(t, store.Put(ctx, "2/parsed_document.json", []byte("")))

	r, err := Analyze(ctx, StorageSource{Store: store}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Documents)
	assert.Equal(t, 1, r.Productivity[0].Count)

	body, err := r.EfficiencyJSON()
	require.NoError(t, err)
	assert.Contains(t, string(body), `"average_percentage"`)

	_, err = Analyze(ctx, failingSource{}, nil)
	assert.Error(t, err)
}
