package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// maxSerialDate is 9999-12-31 in the 1900 date system.
const maxSerialDate = 2958465

var (
	reDateSep   = regexp.MustCompile(`[./\s]+`)
	reDMY4      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{4})$`)
	reDMY2      = regexp.MustCompile(`^(\d{1,2})-(\d{1,2})-(\d{2})$`)
	reDMonY     = regexp.MustCompile(`^(\d{1,2})-([A-Za-z]{3,4})-(\d{2}|\d{4})$`)
	reISODate   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})$`)
	monthByName = map[string]int{
		"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4, "MAY": 5, "JUN": 6,
		"JUL": 7, "AUG": 8, "SEP": 9, "SEPT": 9, "OCT": 10, "NOV": 11, "DEC": 12,
	}
)

// Date resolves a document date to ISO YYYY-MM-DD. It accepts spreadsheet serial
// numbers, DD-MM-YYYY, DD-MM-YY, DD-MON-YY[YY] (any of '.', '/', '-' or spaces as
// separators) and already-ISO dates. ok is false when the input is unresolved.
// Two-digit years always land in 20YY.
func Date(s string) (iso string, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return SerialDate(serial)
	}

	norm := reDateSep.ReplaceAllString(s, "-")
	if m := reISODate.FindStringSubmatch(norm); m != nil {
		return ymd(atoi(m[1]), atoi(m[2]), atoi(m[3]))
	}
	if m := reDMY4.FindStringSubmatch(norm); m != nil {
		return ymd(atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := reDMY2.FindStringSubmatch(norm); m != nil {
		return ymd(2000+atoi(m[3]), atoi(m[2]), atoi(m[1]))
	}
	if m := reDMonY.FindStringSubmatch(norm); m != nil {
		month, known := monthByName[strings.ToUpper(m[2])]
		if !known {
			return "", false
		}
		year := atoi(m[3])
		if len(m[3]) == 2 {
			year += 2000
		}
		return ymd(year, month, atoi(m[1]))
	}
	return "", false
}

// DatePtr is Date returning nil for unresolved input.
func DatePtr(s string) *string {
	if iso, ok := Date(s); ok {
		return &iso
	}
	return nil
}

// SerialDate converts a spreadsheet serial date (days since 1899-12-30).
func SerialDate(serial float64) (string, bool) {
	if serial < 1 || serial > maxSerialDate {
		return "", false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func ymd(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
