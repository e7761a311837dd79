package parser

import (
	"regexp"
	"strings"
)

// Sections is a text document split around its item table.
type Sections struct {
	HeaderText string
	TableLines []string
	FooterText string
	// HeaderFound is false in the degraded mode where no table header line exists.
	HeaderFound bool
}

var reTableTerminator = regexp.MustCompile(`(?i)sub\s*-?\s*total|total\s+value|grand\s+total|amount\s+payable|terms\s*(?:&|and)\s*conditions|remarks`)

// isTableHeaderLine reports whether line is the column-label row of the item table.
// Description next to a qty/quantity label also counts, for tables with no item or
// material column.
func isTableHeaderLine(line string) bool {
	l := strings.ToLower(line)
	switch {
	case strings.Contains(l, "item") && strings.Contains(l, "description"):
		return true
	case strings.Contains(l, "material") && strings.Contains(l, "qty"):
		return true
	case strings.Contains(l, "description") && (strings.Contains(l, "qty") || strings.Contains(l, "quantity")):
		return true
	}
	return false
}

// Segment splits text into header, table and footer regions. The table header line
// itself belongs to no region. Without a table header line the whole text is header.
func Segment(text string) Sections {
	lines := strings.Split(text, "\n")

	headerIdx := -1
	for i, line := range lines {
		if isTableHeaderLine(line) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return Sections{HeaderText: text, TableLines: []string{}}
	}

	end := len(lines)
	for i := headerIdx + 1; i < len(lines); i++ {
		if reTableTerminator.MatchString(lines[i]) {
			end = i
			break
		}
	}

	table := make([]string, 0, end-headerIdx-1)
	table = append(table, lines[headerIdx+1:end]...)
	return Sections{
		HeaderText:  strings.Join(lines[:headerIdx], "\n"),
		TableLines:  table,
		FooterText:  strings.Join(lines[end:], "\n"),
		HeaderFound: true,
	}
}
