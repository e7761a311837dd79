package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/joseph-ayodele/po-extract/constants"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// FallbackItemLimit caps the items synthesized by the fallback tier.
const FallbackItemLimit = 5

var (
	reStructuredRow = regexp.MustCompile(`(?im)^[ \t]*(?:\d{1,3}[ \t]+)?` +
		`(\S*\d\S*)[ \t]+` + // code
		`(\S.*?\S)[ \t]+` + // description
		`(\d{1,2}[-./](?:\d{1,2}|[A-Za-z]{3,4})[-./]\d{2,4})[ \t]+` + // delivery date
		`([\d,]+(?:\.\d+)?)[ \t]+` + // rate
		`([\d,]+(?:\.\d+)?)[ \t]+` + // quantity
		`(` + unitAlternation() + `)\.?[ \t]+` +
		`(\d+(?:\.\d+)?)[ \t]*%?[ \t]+` + // cgst
		`(\d+(?:\.\d+)?)[ \t]*%?[ \t]+` + // sgst
		`([\d,]+\.\d{2})[ \t]*$`) // amount
	reDateToken   = regexp.MustCompile(`^(?:\d{1,2}[-./](?:\d{1,2}|[A-Za-z]{3,4})[-./]\d{2,4}|\d{4}-\d{2}-\d{2})$`)
	reHSNToken    = regexp.MustCompile(`^\d{4,8}$`)
	reSerialToken = regexp.MustCompile(`^\d{1,3}\.?$`)
	reHasDigit    = regexp.MustCompile(`\d`)

	// Registration ids reject a row anywhere in the description; contact and bank
	// labels only when they lead it. Total rows are cut earlier by reStopLine.
	reNoiseDesc = regexp.MustCompile(`(?i)\b(?:gstin|cin|address|ifsc)\b|^(?:pan|phone|e-?mail|bank)\b`)
)

// unitAlternation lists the unit keywords longest first so "PCS" wins over "PC".
func unitAlternation() string {
	units := constants.UnitKeywords()
	sort.SliceStable(units, func(i, j int) bool { return len(units[i]) > len(units[j]) })
	for i, u := range units {
		units[i] = regexp.QuoteMeta(u)
	}
	return strings.Join(units, "|")
}

func isDateToken(tok string) bool {
	return reDateToken.MatchString(tok)
}

func hasDigit(s string) bool {
	return reHasDigit.MatchString(s)
}

func firstField(s string) string {
	if f := strings.Fields(s); len(f) > 0 {
		return f[0]
	}
	return ""
}

func structuredTier(in tableInput) []entity.LineItem {
	if len(in.sanitized) == 0 {
		return nil
	}
	text := strings.Join(in.sanitized, "\n")
	var items []entity.LineItem
	for _, m := range reStructuredRow.FindAllStringSubmatch(text, -1) {
		desc := normalize.Spaces(m[2])
		if desc == "" {
			continue
		}
		unit, _ := constants.CanonicalUnit(m[6])
		items = append(items, entity.LineItem{
			DrawingNo:    m[1],
			Description:  desc,
			DeliveryDate: normalize.DatePtr(m[3]),
			Rate:         normalize.Decimal(m[4]),
			Quantity:     normalize.Decimal(m[5]),
			Unit:         unit,
			CGSTPercent:  normalize.Decimal(m[7]),
			SGSTPercent:  normalize.Decimal(m[8]),
		})
	}
	return items
}

func genericTier(in tableInput) []entity.LineItem {
	var items []entity.LineItem
	for _, row := range in.rows {
		if item, ok := mapGenericRow(row); ok {
			items = append(items, item)
		}
	}
	return items
}

// splitColumns splits a logical row on column gaps and separates a quantity from
// a unit sharing one cell ("12 NOS").
func splitColumns(row string) []string {
	raw := reGap.Split(strings.TrimSpace(row), -1)
	cols := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if f := strings.Fields(c); len(f) == 2 && normalize.IsNumeric(f[0]) {
			if _, ok := constants.CanonicalUnit(f[1]); ok {
				cols = append(cols, f[0], f[1])
				continue
			}
		}
		cols = append(cols, c)
	}
	return cols
}

// mapGenericRow maps one logical row by column heuristics. When no unit keyword is
// present the last two numeric columns are read as quantity and rate, which misreads
// rows that also carry tax percentages.
func mapGenericRow(row string) (entity.LineItem, bool) {
	cols := splitColumns(row)
	if len(cols) < 2 {
		return entity.LineItem{}, false
	}
	last := len(cols) - 1

	numeric := func(i int) bool {
		if normalize.IsNumeric(cols[i]) {
			return true
		}
		return i == last && normalize.IsNumeric(firstField(cols[i]))
	}

	unitIdx := -1
	for i := 1; i < len(cols); i++ {
		if _, ok := constants.CanonicalUnit(cols[i]); ok {
			unitIdx = i
			break
		}
	}

	qtyIdx, rateIdx := -1, -1
	if unitIdx > 0 {
		qtyIdx = unitIdx - 1
		if unitIdx+1 < len(cols) {
			rateIdx = unitIdx + 1
		}
	} else {
		var nums []int
		for i := 1; i < len(cols); i++ {
			if numeric(i) {
				nums = append(nums, i)
			}
		}
		switch {
		case len(nums) >= 2:
			qtyIdx, rateIdx = nums[len(nums)-2], nums[len(nums)-1]
		case len(nums) == 1:
			qtyIdx = nums[0]
		}
	}

	descStart := 0
	var item entity.LineItem
	if hasDigit(cols[0]) && qtyIdx != 0 {
		item.DrawingNo = cols[0]
		descStart = 1
		// A short leading serial number precedes the real code.
		if reSerialToken.MatchString(cols[0]) && len(cols) > 2 && qtyIdx != 1 && hasDigit(cols[1]) && !strings.ContainsAny(cols[1], " \t") {
			item.DrawingNo = cols[1]
			descStart = 2
		}
	}
	descEnd := len(cols)
	if qtyIdx >= 0 {
		descEnd = qtyIdx
	}

	var words []string
	if descStart < descEnd {
		for _, tok := range strings.Fields(strings.Join(cols[descStart:descEnd], " ")) {
			switch {
			case item.DeliveryDate == nil && isDateToken(tok):
				item.DeliveryDate = normalize.DatePtr(tok)
			case item.HSNCode == "" && reHSNToken.MatchString(tok):
				item.HSNCode = tok
			default:
				words = append(words, tok)
			}
		}
	}

	if qtyIdx >= 0 {
		item.Quantity = normalize.Decimal(firstField(cols[qtyIdx]))
	}
	if unitIdx > 0 {
		item.Unit, _ = constants.CanonicalUnit(cols[unitIdx])
	}
	if rateIdx >= 0 {
		item.Rate = normalize.Decimal(firstField(cols[rateIdx]))
	}

	// Wrapped continuation text lands after the last number of the row.
	tail := rateIdx
	if tail < 0 {
		tail = qtyIdx
	}
	if tail >= 0 && tail <= last {
		f := strings.Fields(cols[last])
		if len(f) > 1 && normalize.IsNumeric(f[0]) {
			for _, tok := range f[1:] {
				if !normalize.IsNumeric(tok) {
					words = append(words, tok)
				}
			}
		}
	}

	item.Description = strings.Join(words, " ")
	if item.Description == "" || reNoiseDesc.MatchString(item.Description) {
		return entity.LineItem{}, false
	}
	return item, true
}

func fallbackTier(in tableInput) []entity.LineItem {
	if len(in.sanitized) == 0 {
		return nil
	}
	picked := make([]string, 0, FallbackItemLimit)
	for _, line := range in.sanitized {
		if hasDigit(line) {
			picked = append(picked, strings.TrimSpace(line))
			if len(picked) == FallbackItemLimit {
				break
			}
		}
	}
	if len(picked) == 0 {
		for _, line := range in.sanitized {
			picked = append(picked, strings.TrimSpace(line))
			if len(picked) == FallbackItemLimit {
				break
			}
		}
	}

	items := make([]entity.LineItem, 0, len(picked))
	for _, line := range picked {
		f := strings.Fields(line)
		if len(f) == 0 {
			continue
		}
		desc := normalize.Spaces(strings.Join(f[1:], " "))
		if desc == "" {
			desc = f[0]
		}
		items = append(items, entity.LineItem{
			DrawingNo:   f[0],
			Description: desc,
		})
	}
	return items
}

// isAllNumeric reports whether every token is a number.
func isAllNumeric(tokens []string) bool {
	for _, t := range tokens {
		if !normalize.IsNumeric(t) {
			return false
		}
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
