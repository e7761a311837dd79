package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// gridCellSep joins grid cells into text wide enough to read as a column gap.
const gridCellSep = "   "

var reGridStop = regexp.MustCompile(`(?i)^\s*(?:sub\s*-?\s*total|grand\s+total|total|amount\s+payable)\b`)

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func isGridStopRow(row []string) bool {
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			return reGridStop.MatchString(c)
		}
	}
	return false
}

// joinCells renders the non-empty cells of a row as one gap-separated line.
func joinCells(row []string) string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		if c = strings.TrimSpace(c); c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, gridCellSep)
}

func joinRows(rows [][]string) string {
	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		if line := joinCells(r); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func gridUnit(cell string) string {
	if cell == "" {
		return ""
	}
	if u, ok := constants.CanonicalUnit(cell); ok {
		return u
	}
	return strings.ToUpper(cell)
}

// gridBody returns the data rows after headerIdx, stopping at the first total row,
// along with the index where the footer begins.
func gridBody(rows [][]string, headerIdx int) ([][]string, int) {
	end := len(rows)
	for i := headerIdx + 1; i < len(rows); i++ {
		if isGridStopRow(rows[i]) {
			end = i
			break
		}
	}
	return rows[headerIdx+1 : end], end
}

// columnMapTier reads data rows positionally through the header's column map.
func columnMapTier(body [][]string, cm ColumnMap) []entity.LineItem {
	var items []entity.LineItem
	cell := func(row []string, f Field) string { return cellAt(row, cm.Index(f)) }
	for _, row := range body {
		if isEmptyRow(row) {
			continue
		}
		desc := normalize.Spaces(cell(row, FieldDescription))
		if desc == "" {
			continue
		}
		items = append(items, entity.LineItem{
			DrawingNo:    cell(row, FieldDrawingNo),
			Description:  desc,
			Quantity:     normalize.Decimal(cell(row, FieldQuantity)),
			Unit:         gridUnit(cell(row, FieldUnit)),
			Rate:         normalize.Decimal(cell(row, FieldRate)),
			CGSTPercent:  normalize.Decimal(cell(row, FieldCGST)),
			SGSTPercent:  normalize.Decimal(cell(row, FieldSGST)),
			IGSTPercent:  normalize.Decimal(cell(row, FieldIGST)),
			Discount:     normalize.Decimal(cell(row, FieldDiscount)),
			DeliveryDate: normalize.DatePtr(cell(row, FieldDeliveryDate)),
			HSNCode:      cell(row, FieldHSN),
			RevisionNo:   cell(row, FieldRevision),
			DrawingFile:  cell(row, FieldDrawingFile),
			Remarks:      cell(row, FieldRemarks),
		})
	}
	return items
}

// gridGenericTier applies the text column heuristic to each row's non-empty cells.
func gridGenericTier(rows [][]string) []entity.LineItem {
	var items []entity.LineItem
	for _, row := range rows {
		if isEmptyRow(row) {
			continue
		}
		if isGridStopRow(row) {
			break
		}
		line := joinCells(row)
		if reIgnoreLine.MatchString(line) {
			continue
		}
		if item, ok := mapGenericRow(line); ok {
			items = append(items, item)
		}
	}
	return items
}

func hasAlphanumeric(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// positionalTier assumes the drawing register layout: drawing, revision,
// description, quantity, remarks, file.
func positionalTier(rows [][]string) []entity.LineItem {
	var items []entity.LineItem
	for _, row := range rows {
		first := cellAt(row, 0)
		if len(first) <= 3 || !hasAlphanumeric(first) {
			continue
		}
		if isGridStopRow(row) {
			break
		}
		desc := normalize.Spaces(cellAt(row, 2))
		if desc == "" {
			continue
		}
		items = append(items, entity.LineItem{
			DrawingNo:   first,
			RevisionNo:  cellAt(row, 1),
			Description: desc,
			Quantity:    normalize.Decimal(cellAt(row, 3)),
			Remarks:     cellAt(row, 4),
			DrawingFile: cellAt(row, 5),
		})
	}
	return items
}
