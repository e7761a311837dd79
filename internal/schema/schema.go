// Package schema validates serialized ParseResult documents before they are stored
// or returned to callers.
package schema

var headerFields = []string{
	"companyCode", "companyName", "customerGstin", "billingAddress", "poNumber", "poDate",
	"paymentTerms", "creditDays", "freightTerms", "packingForwarding", "insuranceTerms",
	"currency", "deliveryTerms", "remarks", "plant", "orderType",
}

// ParseResultSchema returns the JSON-Schema (draft 2020-12 subset) of a serialized
// ParseResult as a generic map.
func ParseResultSchema() map[string]any {
	headerProps := make(map[string]any, len(headerFields))
	for _, f := range headerFields {
		headerProps[f] = map[string]any{"type": "string"}
	}
	headerProps["companyCode"] = map[string]any{"type": "string", "minLength": 1}
	headerProps["currency"] = map[string]any{"type": "string", "pattern": `^[A-Z]{3}$`}

	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"drawingNo":         map[string]any{"type": "string", "minLength": 1},
			"description":       map[string]any{"type": "string", "minLength": 1, "pattern": `\S`},
			"quantity":          decimalProp(),
			"unit":              map[string]any{"type": "string", "minLength": 1},
			"rate":              decimalProp(),
			"cgstPercent":       decimalProp(),
			"sgstPercent":       decimalProp(),
			"igstPercent":       decimalProp(),
			"discount":          decimalProp(),
			"deliveryDate":      map[string]any{"type": []any{"string", "null"}, "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"hsnCode":           map[string]any{"type": "string"},
			"revisionNo":        map[string]any{"type": "string"},
			"purchaseReqNo":     map[string]any{"type": "string"},
			"customerReference": map[string]any{"type": "string"},
			"drawingFile":       map[string]any{"type": "string"},
			"remarks":           map[string]any{"type": "string"},
		},
		"required": []any{
			"drawingNo", "description", "quantity", "unit", "rate",
			"cgstPercent", "sgstPercent", "igstPercent", "deliveryDate", "discount",
		},
	}

	required := make([]any, len(headerFields))
	for i, f := range headerFields {
		required[i] = f
	}

	return map[string]any{
		"type":     "object",
		"required": []any{"header", "items"},
		"properties": map[string]any{
			"header": map[string]any{
				"type":       "object",
				"properties": headerProps,
				"required":   required,
			},
			"items": map[string]any{
				"type":  "array",
				"items": item,
			},
		},
	}
}

// decimalProp matches shopspring/decimal's quoted JSON form.
func decimalProp() map[string]any {
	return map[string]any{
		"type":    "string",
		"pattern": `^-?\d+(\.\d+)?$`,
	}
}
