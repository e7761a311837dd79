package constants

import "strings"

// Format is the input modality family a file belongs to.
type Format string

const (
	PDF   Format = "PDF"
	TEXT  Format = "TEXT"
	XLSX  Format = "XLSX"
	XLS   Format = "XLS"
	OTHER Format = "OTHER"
)

// AllowedExtensions holds the default allowed file extensions for purchase order ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"txt":  {},
	"xlsx": {},
	"xlsm": {},
	"xls":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a normalized extension to its Format.
func MapExtToFormat(ext string) Format {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt", "text":
		return TEXT
	case "xlsx", "xlsm":
		return XLSX
	case "xls":
		return XLS
	default:
		return OTHER
	}
}

// IsGrid reports whether the format is read as a spreadsheet grid.
func (f Format) IsGrid() bool {
	return f == XLSX || f == XLS
}
