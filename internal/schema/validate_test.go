package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/po-extract/internal/common"
	"github.com/joseph-ayodele/po-extract/internal/parser"
)

func TestValidateParseResult_EngineOutput(t *testing.T) {
	inputs := []string{
		"ACME PVT LTD\nPO No: 55",
		"Item   Description   Qty   Unit   Rate\n100234   Bracket Assembly   12   NOS   150",
		"Item Description Qty\nwidget alpha 10\ngear 30",
	}
	for _, in := range inputs {
		b, err := json.Marshal(parser.ParseTextDocument(in))
		require.NoError(t, err)
		assert.NoError(t, ValidateParseResult(b), "input %q", in)
	}

	b, err := json.Marshal(parser.ParseGridDocument([][]string{
		{"Drawing No", "Description", "Qty", "Delivery Date"},
		{"DRW-100", "Steel Bracket", "5", "45292"},
	}))
	require.NoError(t, err)
	assert.NoError(t, ValidateParseResult(b))
}

func TestValidateParseResult_Rejects(t *testing.T) {
	valid := parser.ParseTextDocument("Item   Description   Qty\nA-1   Pin   3")
	require.Len(t, valid.Items, 1)

	tests := []struct {
		name   string
		mutate func(m map[string]any)
	}{
		{"missing items", func(m map[string]any) { delete(m, "items") }},
		{"lowercase currency", func(m map[string]any) { m["header"].(map[string]any)["currency"] = "inr" }},
		{"empty description", func(m map[string]any) {
			m["items"].([]any)[0].(map[string]any)["description"] = " "
		}},
		{"non-decimal quantity", func(m map[string]any) {
			m["items"].([]any)[0].(map[string]any)["quantity"] = "five"
		}},
		{"bad delivery date", func(m map[string]any) {
			m["items"].([]any)[0].(map[string]any)["deliveryDate"] = "15/03/2024"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(valid)
			require.NoError(t, err)
			var m map[string]any
			require.NoError(t, json.Unmarshal(b, &m))
			tt.mutate(m)
			b, err = json.Marshal(m)
			require.NoError(t, err)

			err = ValidateParseResult(b)
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestValidateParseResult_NotJSON(t *testing.T) {
	assert.ErrorIs(t, ValidateParseResult([]byte("{")), common.ErrValidation)
}
