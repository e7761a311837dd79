package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Code
	}{
		{name: "sidel in letterhead", text: "SIDEL INDIA PVT LTD\nPlot 12, MIDC", want: Sidel},
		{name: "case insensitive", text: "Purchase order issued by Sidel India", want: Sidel},
		{name: "tetra pak with space", text: "TETRA PAK INDIA PRIVATE LIMITED", want: TetraPak},
		{name: "word boundary", text: "Sidelines Traders", want: Unknown},
		{name: "empty", text: "", want: Unknown},
		{name: "no match", text: "Acme Engineering Works", want: Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.text))
		})
	}
}

func TestDetect_FirstRegisteredWins(t *testing.T) {
	text := "Supplied to KRONES and SIDEL jointly"
	assert.Equal(t, Sidel, Detect(text))
	assert.Equal(t, Detect(text), Detect(text))
}

func TestLookup(t *testing.T) {
	p, ok := Lookup(Sidel)
	require.True(t, ok)
	assert.Equal(t, "Sidel India Pvt Ltd", p.DisplayName)
	assert.True(t, p.HasSpecializedParser())
	assert.Equal(t, "sidel", p.Parser.String())

	k, ok := Lookup(Krones)
	require.True(t, ok)
	assert.False(t, k.HasSpecializedParser())

	_, ok = Lookup(Unknown)
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	all := All()
	require.NotEmpty(t, all)
	assert.Equal(t, Sidel, all[0].Code)
	all[0].Code = "MUTATED"
	assert.Equal(t, Sidel, All()[0].Code)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "bad yaml", yaml: "profiles: ["},
		{name: "missing code", yaml: "profiles:\n  - display_name: X\n    keywords: ['x']\n"},
		{name: "duplicate", yaml: "profiles:\n  - code: A\n    keywords: ['a']\n  - code: A\n    keywords: ['b']\n"},
		{name: "bad regex", yaml: "profiles:\n  - code: A\n    keywords: ['(']\n"},
		{name: "unknown parser", yaml: "profiles:\n  - code: A\n    keywords: ['a']\n    parser: magic\n"},
		{name: "no keywords", yaml: "profiles:\n  - code: A\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
