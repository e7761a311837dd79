package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSegment(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantFound  bool
		wantHeader string
		wantTable  []string
		wantFooter string
	}{
		{
			name:       "item and description cue",
			text:       "ACME LTD\nPO No: 12\nItem   Description   Qty\nA1   Bolt   2\nSub Total   20\nThanks",
			wantFound:  true,
			wantHeader: "ACME LTD\nPO No: 12",
			wantTable:  []string{"A1   Bolt   2"},
			wantFooter: "Sub Total   20\nThanks",
		},
		{
			name:       "material and qty cue",
			text:       "head\nMaterial   Qty   Rate\nM-1   3   10",
			wantFound:  true,
			wantHeader: "head",
			wantTable:  []string{"M-1   3   10"},
			wantFooter: "",
		},
		{
			name:       "terms and conditions terminate the table",
			text:       "Item Description\nrow one\nTerms & Conditions\n1. Payment",
			wantFound:  true,
			wantHeader: "",
			wantTable:  []string{"row one"},
			wantFooter: "Terms & Conditions\n1. Payment",
		},
		{
			name:       "no table header",
			text:       "just some text\nwith no table",
			wantFound:  false,
			wantHeader: "just some text\nwith no table",
			wantTable:  []string{},
			wantFooter: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Segment(tt.text)
			assert.Equal(t, tt.wantFound, got.HeaderFound)
			assert.Equal(t, tt.wantHeader, got.HeaderText)
			assert.Equal(t, tt.wantTable, got.TableLines)
			assert.Equal(t, tt.wantFooter, got.FooterText)
		})
	}
}

func TestSegment_HeaderLineExcluded(t *testing.T) {
	got := Segment("Item   Description   Qty\nX1   Thing   1")
	for _, l := range got.TableLines {
		assert.NotContains(t, l, "Description")
	}
	assert.NotContains(t, got.HeaderText, "Description")
	assert.NotContains(t, got.FooterText, "Description")
}

func TestIsTableHeaderLine(t *testing.T) {
	tests := []struct {
		line string
		want bool
	}{
		{"Item   Description   Qty", true},
		{"Material   Qty   Rate", true},
		{"Sr   Description   Qty   Rate", true},
		{"S.No   Description of Goods   Quantity", true},
		{"Description: Annual maintenance", false},
		{"Qty   Rate   Amount", false},
		{"Item to be delivered at site", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, isTableHeaderLine(tt.line), tt.line)
	}
}
