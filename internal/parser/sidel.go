package parser

import (
	"strings"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// sidelCodeDigits is the minimum length of a SIDEL item code.
const sidelCodeDigits = 4

func isSidelCode(tok string) bool {
	return len(tok) >= sidelCodeDigits && isAllDigits(tok)
}

// parseSidel reads SIDEL item rows: a numeric item code at row start, then a
// quantity immediately followed by a unit keyword, then the rate. A text-only row
// preceding a code row carries its description when the code row has none.
func parseSidel(rows []string) []entity.LineItem {
	var (
		items   []entity.LineItem
		pending string
	)
	for _, row := range rows {
		tokens := strings.Fields(row)
		if len(tokens) == 0 {
			continue
		}
		if !isSidelCode(tokens[0]) {
			pending = normalize.Spaces(row)
			continue
		}
		item, ok := mapSidelRow(tokens, pending)
		pending = ""
		if ok {
			items = append(items, item)
		}
	}
	return items
}

func mapSidelRow(tokens []string, pending string) (entity.LineItem, bool) {
	item := entity.LineItem{DrawingNo: tokens[0]}

	qtyIdx := -1
	for i := 1; i+1 < len(tokens); i++ {
		if !normalize.IsNumeric(tokens[i]) {
			continue
		}
		if unit, ok := constants.CanonicalUnit(tokens[i+1]); ok {
			qtyIdx = i
			item.Unit = unit
			break
		}
	}
	if qtyIdx < 0 {
		for i := 1; i < len(tokens); i++ {
			if normalize.IsNumeric(tokens[i]) {
				qtyIdx = i
				break
			}
		}
	}

	descEnd := len(tokens)
	var trailing []string
	if qtyIdx > 0 {
		item.Quantity = normalize.Decimal(tokens[qtyIdx])
		descEnd = qtyIdx

		start := qtyIdx + 2
		if start >= len(tokens) {
			start = qtyIdx + 1
		}
		for i := start; i < len(tokens); i++ {
			if !normalize.IsNumeric(tokens[i]) {
				continue
			}
			item.Rate = normalize.Decimal(tokens[i])
			// Wrapped description text follows the numbers.
			for _, tok := range tokens[i+1:] {
				if !normalize.IsNumeric(tok) && !isDateToken(tok) {
					trailing = append(trailing, tok)
				}
			}
			break
		}
	}

	for _, tok := range tokens[1:] {
		if isDateToken(tok) {
			item.DeliveryDate = normalize.DatePtr(tok)
			break
		}
	}

	var words []string
	for _, tok := range tokens[1:descEnd] {
		if !isDateToken(tok) {
			words = append(words, tok)
		}
	}
	if len(words) == 0 || isAllNumeric(words) {
		words = strings.Fields(pending)
	}
	item.Description = strings.Join(append(words, trailing...), " ")
	if item.Description == "" {
		return entity.LineItem{}, false
	}
	return item, true
}
