package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/courtdocs/constants"
	"github.com/joseph-ayodele/courtdocs/internal/tagger"
)

func TestMajorSex(t *testing.T) {
	masc := constants.SexMasculine
	fem := constants.SexFeminine

	cases := []struct {
		name  string
		sexes []string
		want  *constants.Sex
	}{
		{"masculine majority", []string{"Masc", "Masc", "Fem"}, &masc},
		{"feminine only", []string{"Fem", "Fem"}, &fem},
		{"tie", []string{"Masc", "Fem"}, nil},
		{"empty", []string{}, nil},
		{"neuter only", []string{"Neut", "Neut"}, nil},
		{"neuter does not break ties", []string{"Neut", "Fem", "Masc"}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := MajorSex(tc.sexes)
			if tc.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tc.want, *got)
		})
	}
}

func TestCountParties(t *testing.T) {
	assert.Equal(t, 0, CountParties("без сторін"))
	assert.Equal(t, 2, CountParties("ОСОБА_1, ОСОБА_2 та знову ОСОБА_1"))
	assert.Equal(t, 3, CountParties("ОСОБА_1 ОСОБА_10 ОСОБА_2"))
}

func TestPartyGenders_OnlyExactTokenMatches(t *testing.T) {
	sentences := []tagger.TaggedSentence{
		{Sentence: "ОСОБА_10 та ОСОБА_1", Data: []tagger.TaggedToken{
			{Word: "ОСОБА_10", Features: "Gender=Fem"},
			{Word: "ОСОБА_1", Features: "Case=Nom|Gender=Masc|Number=Sing"},
		}},
		{Sentence: "інше речення", Data: []tagger.TaggedToken{
			{Word: "ОСОБА_1", Features: "Gender=Fem"},
		}},
		{Sentence: "ОСОБА_1 без роду", Data: []tagger.TaggedToken{
			{Word: "ОСОБА_1", Features: "_"},
		}},
	}

	genders := PartyGenders(sentences, 1)
	assert.Equal(t, []string{"Masc"}, genders["ОСОБА_1"])
}

func TestFindCaseParties(t *testing.T) {
	doc := "позов ОСОБА_1 до ОСОБА_2"
	info := FindCaseParties(doc, decisionSentences())

	require.Equal(t, 2, info.Total)
	require.Len(t, info.Parties, 2)
	assert.Equal(t, constants.SexMasculine, *info.Parties[0].Sex)
	assert.Equal(t, constants.SexFeminine, *info.Parties[1].Sex)
}
