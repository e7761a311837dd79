package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reFormFeed   = regexp.MustCompile(`\f`)
	reMultiSpace = regexp.MustCompile(`\s+`)
)

// Text prepares extracted document text for segmentation. It folds compatibility
// characters (NBSP, full-width digits) with NFKC, unifies line endings, expands tabs
// and trims trailing blanks. Runs of inner spaces are kept: they are the column signal.
func Text(s string) string {
	if s == "" {
		return s
	}
	s = norm.NFKC.String(s)
	s = reCRLF.ReplaceAllString(s, "\n")
	s = reFormFeed.ReplaceAllString(s, "\n")
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	return strings.Join(lines, "\n")
}

// Spaces collapses every whitespace run to one space and trims the ends.
func Spaces(s string) string {
	return strings.TrimSpace(reMultiSpace.ReplaceAllString(s, " "))
}
