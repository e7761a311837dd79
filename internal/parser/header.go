package parser

import (
	"regexp"
	"strings"

	"github.com/joseph-ayodele/po-extract/internal/company"
	"github.com/joseph-ayodele/po-extract/internal/entity"
	"github.com/joseph-ayodele/po-extract/internal/normalize"
)

// scope selects the text a header rule is matched against.
type scope int

const (
	scopeHeader scope = iota // header region only
	scopeAll                 // header followed by footer; terms often sit below the table
)

type headerRule struct {
	field    string
	scope    scope
	patterns []*regexp.Regexp
	set      func(h *entity.HeaderFields, v string)
}

const (
	reDateValue = `(\d{1,2}[-./ ](?:\d{1,2}|[A-Za-z]{3,4})[-./ ]\d{2,4})`
	reDocNumber = `([A-Z0-9][A-Z0-9/\-]*\d[A-Z0-9/\-]*)`
	reGSTIN     = `([0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][0-9A-Z]Z[0-9A-Z])`
)

func mustPatterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// headerRules are tried in order; within a rule the first non-empty capture wins.
var headerRules = []headerRule{
	{
		field: "companyName",
		patterns: mustPatterns(
			`(?im)^\s*(?:buyer|customer|company)\s*(?:name)?\s*:\s*([^\n]+)`,
			`(?im)^\s*(?:m/s\.?\s*)?([A-Z][A-Z0-9&.,'\- ]*?\b(?:PVT\.?\s*LTD|PRIVATE\s+LIMITED|LIMITED|LTD|LLP|INC|CORPORATION)\b\.?)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.CompanyName = v },
	},
	{
		field: "customerGstin",
		patterns: mustPatterns(
			`(?i)gstin?\s*(?:no\.?|number)?\s*[:\-]?\s*`+reGSTIN,
			`(?i)\b`+reGSTIN+`\b`,
		),
		set: func(h *entity.HeaderFields, v string) { h.CustomerGSTIN = strings.ToUpper(v) },
	},
	{
		field: "billingAddress",
		patterns: mustPatterns(
			`(?i)bill(?:ing)?\s*(?:to|address)\s*[:\-]?\s*([^\n]+(?:\n[^\n:]{3,}){0,2})`,
		),
		set: func(h *entity.HeaderFields, v string) { h.BillingAddress = v },
	},
	{
		field: "poNumber",
		patterns: mustPatterns(
			`(?i)\b(?:p\.?\s*o\.?|purchase\s+order)\s*(?:no\.?|number|#)\s*[:\-]?\s*`+reDocNumber,
			`(?i)\border\s*(?:no\.?|number)\s*[:\-]?\s*`+reDocNumber,
			`(?i)\bpo\s*[:#]\s*`+reDocNumber,
		),
		set: func(h *entity.HeaderFields, v string) { h.PONumber = strings.ToUpper(v) },
	},
	{
		field: "poDate",
		patterns: mustPatterns(
			`(?i)\b(?:p\.?\s*o\.?|order)\s*date\s*[:\-]?\s*`+reDateValue,
			`(?i)\bdated?\s*[:\-]?\s*`+reDateValue,
		),
		set: func(h *entity.HeaderFields, v string) {
			if iso, ok := normalize.Date(v); ok {
				h.PODate = iso
				return
			}
			h.PODate = v
		},
	},
	{
		field: "paymentTerms",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)payment\s*terms?\s*[:\-]?\s*([^\n]+)`,
			`(?i)terms\s+of\s+payment\s*[:\-]?\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.PaymentTerms = v },
	},
	{
		field: "creditDays",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)credit\s*(?:period|days)\s*[:\-]?\s*(\d+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.CreditDays = v },
	},
	{
		field: "freightTerms",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)freight(?:\s*terms?)?\s*[:\-]\s*([^\n]+)`,
			`(?i)freight\s+terms?\s+([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.FreightTerms = v },
	},
	{
		field: "packingForwarding",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)(?:p\s*&\s*f|packing\s*(?:&|and)\s*forwarding)(?:\s*charges)?\s*[:\-]?\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.PackingForwarding = v },
	},
	{
		field: "insuranceTerms",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)insurance(?:\s*terms?)?\s*[:\-]\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.InsuranceTerms = v },
	},
	{
		field: "currency",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)currency\s*(?:code)?\s*[:\-]?\s*([A-Z]{3})\b`,
		),
		set: func(h *entity.HeaderFields, v string) { h.Currency = strings.ToUpper(v) },
	},
	{
		field: "deliveryTerms",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)delivery\s*terms?\s*[:\-]?\s*([^\n]+)`,
			`(?i)inco\s*-?\s*terms?\s*[:\-]?\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.DeliveryTerms = v },
	},
	{
		field: "remarks",
		scope: scopeAll,
		patterns: mustPatterns(
			`(?i)remarks?\s*[:\-]\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.Remarks = v },
	},
	{
		field: "plant",
		patterns: mustPatterns(
			`(?i)\bplant\s*(?:code|name)?\s*[:\-]\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.Plant = v },
	},
	{
		field: "orderType",
		patterns: mustPatterns(
			`(?i)\b(?:order|po|document)\s*type\s*[:\-]?\s*([^\n]+)`,
		),
		set: func(h *entity.HeaderFields, v string) { h.OrderType = v },
	},
}

var (
	reColumnGap  = regexp.MustCompile(`\s{3,}`)
	reCreditDays = regexp.MustCompile(`(?i)(\d+)\s*days?`)
)

// cleanCapture keeps the part of each captured line before a wide layout gap
// (the neighbouring column), then collapses whitespace.
func cleanCapture(v string) string {
	lines := strings.Split(v, "\n")
	for i, l := range lines {
		l = strings.TrimSpace(l)
		if loc := reColumnGap.FindStringIndex(l); loc != nil {
			l = l[:loc[0]]
		}
		lines[i] = l
	}
	out := normalize.Spaces(strings.Join(lines, " "))
	return strings.Trim(out, " ,;:-")
}

// ExtractHeader fills the canonical header fields from the header and footer text.
// profile, when known, supplies the company code and a fallback company name.
func ExtractHeader(headerText, footerText string, profile *company.Profile) entity.HeaderFields {
	h := entity.NewHeaderFields()
	all := headerText
	if footerText != "" {
		all = headerText + "\n" + footerText
	}

	for _, rule := range headerRules {
		text := headerText
		if rule.scope == scopeAll {
			text = all
		}
		if v := firstCapture(text, rule.patterns); v != "" {
			rule.set(&h, v)
		}
	}

	if h.CreditDays == "" && h.PaymentTerms != "" {
		if m := reCreditDays.FindStringSubmatch(h.PaymentTerms); m != nil {
			h.CreditDays = m[1]
		}
	}
	if profile != nil {
		h.CompanyCode = string(profile.Code)
		if h.CompanyName == "" {
			h.CompanyName = profile.DisplayName
		}
	} else {
		h.CompanyCode = string(company.Unknown)
	}
	return h
}

func firstCapture(text string, patterns []*regexp.Regexp) string {
	if text == "" {
		return ""
	}
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(m) < 2 {
				continue
			}
			if v := cleanCapture(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}
