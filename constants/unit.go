package constants

import "strings"

// DefaultUnit is applied to line items that carry no unit of measure.
const DefaultUnit = "NOS"

// DefaultCurrency is the header currency when the document names none.
const DefaultCurrency = "INR"

var unitKeywords = []string{
	"NOS", "PC", "PCS", "EA", "SET", "UNIT", "PAIR", "PACK",
	"KG", "LTR", "LITRE", "MTR", "METER", "ROLL", "LOT",
}

var unitSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(unitKeywords))
	for _, u := range unitKeywords {
		m[u] = struct{}{}
	}
	return m
}()

// UnitKeywords returns the recognized unit-of-measure keywords in canonical order.
func UnitKeywords() []string {
	out := make([]string, len(unitKeywords))
	copy(out, unitKeywords)
	return out
}

// CanonicalUnit returns the upper-case unit keyword for tok ("Nos." -> "NOS").
func CanonicalUnit(tok string) (string, bool) {
	u := strings.ToUpper(strings.TrimSpace(tok))
	u = strings.TrimSuffix(u, ".")
	if _, ok := unitSet[u]; ok {
		return u, true
	}
	return "", false
}
