package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/po-extract/internal/common"
)

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func parseResultSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiled, compileErr = Compile(ParseResultSchema())
	})
	return compiled, compileErr
}

// Compile builds a validator from a schema map.
func Compile(schemaMap map[string]any) (*jsonschema.Schema, error) {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

// ValidateParseResult checks serialized ParseResult JSON against ParseResultSchema.
func ValidateParseResult(data []byte) error {
	schema, err := parseResultSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return common.NewAppError("SCHEMA_INVALID", "unmarshal result", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("SCHEMA_INVALID", "result does not match schema", fmt.Errorf("%w: %v", common.ErrValidation, err))
	}
	return nil
}
