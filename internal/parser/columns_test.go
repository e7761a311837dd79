package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildColumnMap(t *testing.T) {
	cm := BuildColumnMap([]string{
		"Sr", "Drawing No", "Rev", "Item Description", "HSN", "Qty", "UOM",
		"Unit Rate", "Disc %", "CGST %", "SGST %", "IGST %", "Delivery Date", "Drawing File", "Remarks",
	})

	want := map[Field]int{
		FieldDrawingNo:    1,
		FieldRevision:     2,
		FieldDescription:  3,
		FieldHSN:          4,
		FieldQuantity:     5,
		FieldUnit:         6,
		FieldRate:         7,
		FieldDiscount:     8,
		FieldCGST:         9,
		FieldSGST:         10,
		FieldIGST:         11,
		FieldDeliveryDate: 12,
		FieldDrawingFile:  13,
		FieldRemarks:      14,
	}
	for f, idx := range want {
		assert.Equal(t, idx, cm.Index(f), "field %s", f)
	}
	assert.Equal(t, len(want), cm.Len())
}

func TestBuildColumnMap_FirstMatchWins(t *testing.T) {
	cm := BuildColumnMap([]string{"Qty", "Description", "Quantity"})
	assert.Equal(t, 0, cm.Index(FieldQuantity))
	assert.Equal(t, 1, cm.Index(FieldDescription))
}

func TestBuildColumnMap_Unassigned(t *testing.T) {
	cm := BuildColumnMap([]string{"Description"})
	assert.Equal(t, Unassigned, cm.Index(FieldRate))
	assert.False(t, cm.Assigned(FieldRate))
	assert.True(t, cm.Assigned(FieldDescription))
}

func TestBuildColumnMap_FileTypeIsNotDrawingFile(t *testing.T) {
	cm := BuildColumnMap([]string{"File Type", "Drawing File"})
	assert.Equal(t, 1, cm.Index(FieldDrawingFile))
}

func TestFindHeaderRow(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
		want int
	}{
		{"drawing cue", [][]string{{"PO No", "1"}, {"Drawing No", "Description"}}, 1},
		{"part no cue", [][]string{{"Part No", "Name"}}, 0},
		{"description and qty", [][]string{{"x"}, {"", "Description", "Qty"}}, 1},
		{"description alone", [][]string{{"Description"}}, -1},
		{"no header", [][]string{{"a", "b"}, {"1", "2"}}, -1},
		{"empty grid", nil, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FindHeaderRow(tt.rows))
		})
	}
}

func TestFindHeaderRow_ScanLimit(t *testing.T) {
	rows := make([][]string, HeaderScanRows+5)
	for i := range rows {
		rows[i] = []string{"filler"}
	}
	rows[HeaderScanRows] = []string{"Drawing No", "Description"}
	assert.Equal(t, -1, FindHeaderRow(rows))

	rows[HeaderScanRows-1] = []string{"Drawing No", "Description"}
	assert.Equal(t, HeaderScanRows-1, FindHeaderRow(rows))
}

func TestBuildColumnMap_ItemDescriptionIsDescription(t *testing.T) {
	cm := BuildColumnMap([]string{"Sr", "Item Description", "Qty", "Rate"})
	assert.Equal(t, 1, cm.Index(FieldDescription))
	assert.False(t, cm.Assigned(FieldDrawingNo))
	assert.Equal(t, 2, cm.Index(FieldQuantity))
	assert.Equal(t, 3, cm.Index(FieldRate))
}
