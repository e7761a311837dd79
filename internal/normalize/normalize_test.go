package normalize

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDecimal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "thousands separator", in: "1,234.50", want: "1234.5"},
		{name: "currency symbol", in: "₹ 2,500", want: "2500"},
		{name: "rupee prefix", in: "Rs 450.75", want: "450.75"},
		{name: "abbreviation dot swallowed", in: "Rs.450.75", want: "0"},
		{name: "negative", in: "-12.5", want: "-12.5"},
		{name: "letters only", in: "abc", want: "0"},
		{name: "empty", in: "", want: "0"},
		{name: "garbage dots", in: "1.2.3", want: "0"},
		{name: "lone minus", in: "-", want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decimal(tt.in)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("1,250.00"))
	assert.True(t, IsNumeric("12"))
	assert.True(t, IsNumeric("18%"))
	assert.True(t, IsNumeric(".5"))
	assert.False(t, IsNumeric("NOS"))
	assert.False(t, IsNumeric("12A"))
	assert.False(t, IsNumeric(""))
}

func TestDate(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{name: "month abbreviation two digit year", in: "01-Jan-24", want: "2024-01-01", wantOK: true},
		{name: "slash four digit year", in: "15/03/2024", want: "2024-03-15", wantOK: true},
		{name: "dotted four digit year", in: "5.6.2023", want: "2023-06-05", wantOK: true},
		{name: "two digit year", in: "07-08-25", want: "2025-08-07", wantOK: true},
		{name: "sept spelling", in: "12-SEPT-2024", want: "2024-09-12", wantOK: true},
		{name: "space separated", in: "3 Feb 2025", want: "2025-02-03", wantOK: true},
		{name: "iso passthrough", in: "2024-11-30", want: "2024-11-30", wantOK: true},
		{name: "serial date", in: "45292", want: "2024-01-01", wantOK: true},
		{name: "unknown month", in: "01-Foo-24", wantOK: false},
		{name: "impossible month", in: "01-13-2024", wantOK: false},
		{name: "free text", in: "not a date", wantOK: false},
		{name: "empty", in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Date(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDatePtr(t *testing.T) {
	assert.Nil(t, DatePtr("soon"))
	if got := DatePtr("01-Jan-24"); assert.NotNil(t, got) {
		assert.Equal(t, "2024-01-01", *got)
	}
}

func TestSerialDateOutOfRange(t *testing.T) {
	_, ok := SerialDate(0)
	assert.False(t, ok)
	_, ok = SerialDate(3e6)
	assert.False(t, ok)
}

func TestText(t *testing.T) {
	in := "PO No: 12\r\nItem\tQty  \r\n\fRate Value"
	got := Text(in)
	assert.Equal(t, "PO No: 12\nItem    Qty\n\nRate Value", got)
}

func TestSpaces(t *testing.T) {
	assert.Equal(t, "30 days net", Spaces("  30   days\n net "))
}
