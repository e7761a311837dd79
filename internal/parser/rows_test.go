package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeLines(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name:  "drops blank, date-only and separator lines",
			lines: []string{"", "   ", "12-Mar-2024", "------", "A1   Bolt   2"},
			want:  []string{"A1   Bolt   2"},
		},
		{
			name:  "drops contact lines",
			lines: []string{"GSTIN: 27AABCA1234B1Z5", "Phone: 022 1234", "sales@acme.in", "A1   Bolt   2"},
			want:  []string{"A1   Bolt   2"},
		},
		{
			name:  "drops repeated column labels",
			lines: []string{"A1   Bolt   2", "Sr.  Item  Description  Qty  Rate", "B2   Nut   4"},
			want:  []string{"A1   Bolt   2", "B2   Nut   4"},
		},
		{
			name:  "stops at the first stop line",
			lines: []string{"A1   Bolt   2", "Grand Total   200.00", "B2   Nut   4"},
			want:  []string{"A1   Bolt   2"},
		},
		{
			name:  "keeps numeric rows that share words with labels",
			lines: []string{"Item 12   Rate   5"},
			want:  []string{"Item 12   Rate   5"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeLines(tt.lines))
		})
	}
}

func TestChunkRows(t *testing.T) {
	lines := []string{
		"100234   Bracket Assembly   12   NOS   150",
		"  continuation of description",
		"200345   Shaft   3   PCS   90",
		"- with keyway",
	}
	got := ChunkRows(lines)
	assert.Equal(t, []string{
		"100234   Bracket Assembly   12   NOS   150 continuation of description",
		"200345   Shaft   3   PCS   90 - with keyway",
	}, got)
}

func TestChunkRows_FirstLineAlwaysStartsRow(t *testing.T) {
	got := ChunkRows([]string{"no gap here", "nor here"})
	assert.Equal(t, []string{"no gap here nor here"}, got)
}

func TestReconstructRows_WrappedRow(t *testing.T) {
	got := ReconstructRows([]string{
		"100234   Bracket Assembly   12   NOS   150",
		"  continuation of description",
	})
	assert.Len(t, got, 1)
	assert.Contains(t, got[0], "continuation of description")
}
