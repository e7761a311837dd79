package parser

import (
	"regexp"
	"strings"
)

// HeaderScanRows bounds the search for a spreadsheet header row.
const HeaderScanRows = 50

// Field is a semantic spreadsheet column.
type Field string

const (
	FieldDrawingNo    Field = "drawingNo"
	FieldDescription  Field = "description"
	FieldQuantity     Field = "quantity"
	FieldRate         Field = "rate"
	FieldUnit         Field = "unit"
	FieldDrawingFile  Field = "drawingFile"
	FieldRevision     Field = "revision"
	FieldRemarks      Field = "remarks"
	FieldHSN          Field = "hsnCode"
	FieldCGST         Field = "cgstPercent"
	FieldSGST         Field = "sgstPercent"
	FieldIGST         Field = "igstPercent"
	FieldDiscount     Field = "discount"
	FieldDeliveryDate Field = "deliveryDate"
)

// Unassigned is the index of a field no column claimed.
const Unassigned = -1

// ColumnMap maps semantic fields to column indices. A field is assigned at most once.
type ColumnMap struct {
	idx map[Field]int
}

// NewColumnMap returns an empty map.
func NewColumnMap() ColumnMap {
	return ColumnMap{idx: make(map[Field]int)}
}

// Index returns the column of f, or Unassigned.
func (m ColumnMap) Index(f Field) int {
	if i, ok := m.idx[f]; ok {
		return i
	}
	return Unassigned
}

// Assigned reports whether f has a column.
func (m ColumnMap) Assigned(f Field) bool {
	_, ok := m.idx[f]
	return ok
}

// Len is the number of assigned fields.
func (m ColumnMap) Len() int {
	return len(m.idx)
}

func (m ColumnMap) claim(f Field, col int) bool {
	if _, taken := m.idx[f]; taken {
		return false
	}
	m.idx[f] = col
	return true
}

type columnRule struct {
	field Field
	match func(cell string) bool
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// columnRules are tested in order; a cell claims the first matching field that no
// earlier column has claimed. Description sits ahead of drawingNo so an
// "Item Description" cell is the description column, not the item code.
var columnRules = []columnRule{
	{FieldDrawingFile, func(c string) bool {
		return strings.Contains(c, "drawing_file") || (strings.Contains(c, "file") && !strings.Contains(c, "type"))
	}},
	{FieldDescription, func(c string) bool { return strings.Contains(c, "desc") && !strings.Contains(c, "discount") }},
	{FieldCGST, func(c string) bool { return strings.Contains(c, "cgst") }},
	{FieldSGST, func(c string) bool { return strings.Contains(c, "sgst") }},
	{FieldIGST, func(c string) bool { return strings.Contains(c, "igst") }},
	{FieldDiscount, func(c string) bool {
		return strings.Contains(c, "discount") || c == "disc" || strings.HasPrefix(c, "disc.") || strings.HasPrefix(c, "disc ") || strings.HasPrefix(c, "disc%")
	}},
	{FieldHSN, func(c string) bool { return strings.Contains(c, "hsn") }},
	{FieldDeliveryDate, func(c string) bool {
		return strings.Contains(c, "deliv") || (strings.Contains(c, "date") && !containsAny(c, "draw", "drw"))
	}},
	{FieldDrawingNo, func(c string) bool {
		return containsAny(c, "drawing", "drw", "dwg", "item", "code", "part", "material")
	}},
	{FieldRevision, func(c string) bool { return strings.Contains(c, "rev") }},
	{FieldQuantity, func(c string) bool { return containsAny(c, "qty", "quantity") }},
	{FieldRate, func(c string) bool { return containsAny(c, "rate", "price", "unit cost") }},
	{FieldUnit, func(c string) bool { return containsAny(c, "uom", "unit") }},
	{FieldRemarks, func(c string) bool { return containsAny(c, "remark", "note") }},
}

// BuildColumnMap assigns header cells to fields, first match wins.
func BuildColumnMap(header []string) ColumnMap {
	m := NewColumnMap()
	for col, raw := range header {
		cell := strings.ToLower(strings.TrimSpace(raw))
		if cell == "" {
			continue
		}
		for _, rule := range columnRules {
			if rule.match(cell) && m.claim(rule.field, col) {
				break
			}
		}
	}
	return m
}

var reDrawingCue = regexp.MustCompile(`(?i)drawing|\bdrw|part\s*no|item\s*code`)

// isGridHeaderRow reports whether a row names the item columns.
func isGridHeaderRow(row []string) bool {
	var hasDesc, hasQty bool
	for _, raw := range row {
		cell := strings.ToLower(strings.TrimSpace(raw))
		if cell == "" {
			continue
		}
		if reDrawingCue.MatchString(cell) {
			return true
		}
		if strings.Contains(cell, "desc") {
			hasDesc = true
		}
		if containsAny(cell, "qty", "quantity") {
			hasQty = true
		}
	}
	return hasDesc && hasQty
}

// FindHeaderRow returns the index of the header row within the first
// HeaderScanRows rows, or -1.
func FindHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > HeaderScanRows {
		limit = HeaderScanRows
	}
	for i := 0; i < limit; i++ {
		if isGridHeaderRow(rows[i]) {
			return i
		}
	}
	return -1
}
