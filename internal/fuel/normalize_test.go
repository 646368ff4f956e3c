package fuel

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeState(t *testing.T) {
	cases := map[string]string{
		"São Paulo":          "SAO PAULO",
		"  paraná ":          "PARANA",
		"CEARÁ":              "CEARA",
		"Amapá":              "AMAPA",
		"Espírito Santo":     "ESPIRITO SANTO",
		"RONDÔNIA":           "RONDONIA",
		"MARANHÃO":           "MARANHAO",
		"":                   "",
		"DISTRITO FEDERAL":   "DISTRITO FEDERAL",
		"Piauí\t":            "PIAUI",
		"Goiás":              "GOIAS",
		"mato grosso do sul": "MATO GROSSO DO SUL",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeState(in), in)
	}
}

func TestNormalizeStateIsIdempotent(t *testing.T) {
	for name := range DefaultCatalog().States() {
		assert.Equal(t, name, NormalizeState(name))
		assert.Equal(t, NormalizeState(name), NormalizeState(NormalizeState(name)))
	}
}

func TestParseSurveyDate(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
		ok   bool
	}{
		{"5/9/04", time.Date(2004, 5, 9, 0, 0, 0, 0, time.UTC), true},
		{"5/9/85", time.Date(1985, 5, 9, 0, 0, 0, 0, time.UTC), true},
		{"12/31/49", time.Date(2049, 12, 31, 0, 0, 0, 0, time.UTC), true},
		{"1/1/50", time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC), true},
		{" 05/09/04 ", time.Date(2004, 5, 9, 0, 0, 0, 0, time.UTC), true},
		{"2/29/04", time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC), true},
		{"2/29/05", time.Time{}, false},
		{"13/1/04", time.Time{}, false},
		{"0/1/04", time.Time{}, false},
		{"5/0/04", time.Time{}, false},
		{"5/9/2004", time.Time{}, false},
		{"2004-05-09", time.Time{}, false},
		{"a/b/c", time.Time{}, false},
		{"", time.Time{}, false},
	}
	for _, tc := range cases {
		got, ok := ParseSurveyDate(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.True(t, tc.want.Equal(got), "%s: got %v", tc.in, got)
	}
}

func TestParseNumber(t *testing.T) {
	v, ok := parseNumber(" 2.557 ")
	assert.True(t, ok)
	assert.Equal(t, 2.557, v)

	for _, in := range []string{"-99999", "-99999.0", "", "abc", "NaN", "Inf", "-Inf"} {
		_, ok := parseNumber(in)
		assert.False(t, ok, in)
	}

	assert.Equal(t, 0.0, numberOrZero("-99999"))
	assert.False(t, math.IsNaN(numberOrZero("NaN")))
}

func TestParseCount(t *testing.T) {
	cases := map[string]int{
		"127":    127,
		" 42 ":   42,
		"12.9":   12,
		"-3":     0,
		"":       0,
		"-99999": 0,
		"many":   0,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseCount(in), in)
	}
}
