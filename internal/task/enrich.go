// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package task

import (
	"strings"

	"github.com/pdiddy/parallel-research/internal/parallel"
)

// ParseEnrichInput parses an enrichment input spec of the form
// "company_name=Stripe,website=stripe.com" into a value map plus the keys in
// the order they appeared. Segments without an "=" are ignored.
func ParseEnrichInput(spec string) (map[string]string, []string, error) {
	input := make(map[string]string)
	var keys []string
	for _, pair := range strings.Split(spec, ",") {
		key, val, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, dup := input[key]; !dup {
			keys = append(keys, key)
		}
		input[key] = strings.TrimSpace(val)
	}
	if len(input) == 0 {
		return nil, nil, parallel.Configf("enrich input %q contains no key=value pairs", spec)
	}
	return input, keys, nil
}

// ParseOutputFields parses a comma-separated output field list, dropping
// empty entries.
func ParseOutputFields(spec string) []string {
	var fields []string
	for _, f := range strings.Split(spec, ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// Task spec wire shapes. The service accepts either a JSON schema pair
// (enrichment) or a bare text output schema (reports).

type taskSpec struct {
	InputSchema  *jsonSchemaSpec `json:"input_schema,omitempty"`
	OutputSchema any             `json:"output_schema,omitempty"`
}

type jsonSchemaSpec struct {
	Type       string     `json:"type"`
	JSONSchema jsonSchema `json:"json_schema"`
}

type jsonSchema struct {
	Type                 string              `json:"type"`
	Properties           map[string]property `json:"properties"`
	Required             []string            `json:"required"`
	AdditionalProperties bool                `json:"additionalProperties"`
}

type property struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
}

type textSchema struct {
	Type string `json:"type"`
}

// buildEnrichSpec produces the input/output schemas for an enrichment task.
// Every input key and output field is required; the output descriptions
// follow the service's convention of spelling out the field name.
func buildEnrichSpec(inputKeys, outputFields []string) *taskSpec {
	inputProps := make(map[string]property, len(inputKeys))
	for _, k := range inputKeys {
		inputProps[k] = property{Type: "string"}
	}

	outputProps := make(map[string]property, len(outputFields))
	for _, f := range outputFields {
		outputProps[f] = property{
			Type:        "string",
			Description: "The " + strings.ReplaceAll(f, "_", " ") + " of the entity",
		}
	}

	return &taskSpec{
		InputSchema: &jsonSchemaSpec{
			Type: "json",
			JSONSchema: jsonSchema{
				Type:       "object",
				Properties: inputProps,
				Required:   append([]string(nil), inputKeys...),
			},
		},
		OutputSchema: &jsonSchemaSpec{
			Type: "json",
			JSONSchema: jsonSchema{
				Type:       "object",
				Properties: outputProps,
				Required:   append([]string(nil), outputFields...),
			},
		},
	}
}
