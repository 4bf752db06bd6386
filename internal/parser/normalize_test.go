package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"city", "м. Київ", "місто  Київ"},
		{"article", "ст. 15 ЦК", "стаття  15 ЦК"},
		{"part and point", "ч.2 п.3", "частина 2 пункт 3"},
		{"mid-word untouched", "ім.Шевченка", "ім.Шевченка"},
		{"nbsp", "суд\u00a0ухвалив", "суд ухвалив"},
		{"stray lead byte", "суд\u00d0ухвалив", "суд ухвалив"},
		{"form feed", "сторінка\fдва", "сторінкадва"},
		{"url", "див. https://reyestr.court.gov.ua/Review/123 тут", "див.  тут"},
		{"timestamp", "друк 3/15/2021, 10:42 AM кінець", "друк  кінець"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalize_InvalidUTF8(t *testing.T) {
	assert.Equal(t, "a b", Normalize("a\xffb"))
}
