package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	reDateOnlyLine = regexp.MustCompile(`(?i)^\d{1,2}[-./ ]?[a-z]{3,4}[-./ ]?\d{2,4}$`)
	reStopLine     = regexp.MustCompile(`(?i)^(?:sub\s*-?\s*total|total|grand\s+total|amount\s+payable|terms|remarks)\b|grand\s+total|amount\s+payable|total\s+value|authori[sz]ed\s+signator|terms\s*(?:&|and)\s*conditions`)
	reIgnoreLine   = regexp.MustCompile(`(?i)\bgstin\b|\bphone\b|\bph\.?\s*:|\btel\b|\bmobile\b|\bfax\b|\be-?mail\b|\S+@\S+\.\S+|\baddress\b|\bpin\s*code\b|\bpincode\b|\bstate\s*(?:code|name)?\s*:|\bcountry\b`)
	reSeparator    = regexp.MustCompile(`^[\s=\-_]+$`)
	reGap          = regexp.MustCompile(`\s{2,}`)
	reLabelToken   = regexp.MustCompile(`[^a-z0-9.%/]`)
)

// columnLabels are the words of a repeated table header row (page breaks repeat it).
var columnLabels = map[string]struct{}{
	"sr": {}, "sr.": {}, "s.no": {}, "s.no.": {}, "no": {}, "no.": {}, "sl": {}, "sl.": {},
	"item": {}, "code": {}, "description": {}, "desc": {}, "material": {},
	"qty": {}, "qty.": {}, "quantity": {}, "unit": {}, "uom": {}, "rate": {}, "price": {},
	"hsn": {}, "sac": {}, "hsn/sac": {}, "amount": {}, "value": {}, "total": {},
	"cgst": {}, "sgst": {}, "igst": {}, "%": {}, "tax": {}, "disc": {}, "discount": {},
	"delivery": {}, "date": {}, "of": {}, "per": {}, "drawing": {}, "rev": {},
	"rs": {}, "rs.": {}, "inr": {},
}

func isColumnLabelLine(line string) bool {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return false
	}
	for _, f := range fields {
		f = reLabelToken.ReplaceAllString(f, "")
		if f == "" {
			continue
		}
		if _, ok := columnLabels[f]; !ok {
			return false
		}
	}
	return true
}

// SanitizeLines drops noise lines from the table region and stops at the first
// totals/terms/signature line.
func SanitizeLines(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case line == "":
			continue
		case reDateOnlyLine.MatchString(line):
			continue
		case reStopLine.MatchString(line):
			return out
		case reIgnoreLine.MatchString(line):
			continue
		case isColumnLabelLine(line):
			continue
		case reSeparator.MatchString(line):
			continue
		}
		out = append(out, strings.TrimRight(raw, " "))
	}
	return out
}

// startsRow reports whether a sanitized line opens a new logical row: it carries a
// column gap and begins with a letter or digit.
func startsRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	r, _ := utf8.DecodeRuneInString(trimmed)
	if !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
		return false
	}
	return reGap.MatchString(trimmed)
}

// ChunkRows merges wrapped continuation lines into the row they belong to.
func ChunkRows(lines []string) []string {
	rows := make([]string, 0, len(lines))
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if startsRow(line) || len(rows) == 0 {
			rows = append(rows, trimmed)
			continue
		}
		rows[len(rows)-1] += " " + trimmed
	}
	return rows
}

// ReconstructRows is SanitizeLines followed by ChunkRows.
func ReconstructRows(tableLines []string) []string {
	return ChunkRows(SanitizeLines(tableLines))
}
