package tool

import (
	"encoding/json"
	"fmt"
	"strings"

	tsukaiErrors "github.com/harunnryd/tsukai/internal/errors"
)

// ValidateInput checks the JSON input against the tool's parameter schema.
// The model's output is untrusted free-form structure: it may omit fields,
// use wrong types, or invent parameter names. All offenses are collected so
// the model gets one complete correction hint per rejection.
func ValidateInput(schema map[string]interface{}, input json.RawMessage) error {
	var inputMap map[string]interface{}
	if len(input) == 0 {
		inputMap = map[string]interface{}{}
	} else if err := json.Unmarshal(input, &inputMap); err != nil {
		return tsukaiErrors.InvalidArguments(fmt.Sprintf("arguments are not a JSON object: %v", err))
	}

	offending := validateObject(schema, inputMap)
	if len(offending) == 0 {
		return nil
	}
	return tsukaiErrors.InvalidArguments(strings.Join(offending, "; "))
}

func validateObject(schema map[string]interface{}, input map[string]interface{}) []string {
	var offending []string

	for _, fieldName := range requiredFields(schema) {
		if _, exists := input[fieldName]; !exists {
			offending = append(offending, fmt.Sprintf("missing required field %q", fieldName))
		}
	}

	properties, ok := schema["properties"].(map[string]interface{})
	if !ok {
		return offending
	}

	for key, value := range input {
		propSchema, defined := properties[key]
		if !defined {
			offending = append(offending, fmt.Sprintf("unknown field %q", key))
			continue
		}

		propSchemaMap, ok := propSchema.(map[string]interface{})
		if !ok {
			continue
		}

		offending = append(offending, validateType(key, propSchemaMap, value)...)
	}

	return offending
}

func requiredFields(schema map[string]interface{}) []string {
	// Schemas built in Go use []string; schemas decoded from JSON use
	// []interface{}. Accept both.
	if required, ok := schema["required"].([]string); ok {
		return required
	}
	if required, ok := schema["required"].([]interface{}); ok {
		fields := make([]string, 0, len(required))
		for _, field := range required {
			if name, ok := field.(string); ok {
				fields = append(fields, name)
			}
		}
		return fields
	}
	return nil
}

func validateType(fieldName string, schema map[string]interface{}, value interface{}) []string {
	expectedType, ok := schema["type"].(string)
	if !ok {
		return nil
	}

	switch expectedType {
	case "string":
		if _, ok := value.(string); !ok {
			return []string{fmt.Sprintf("field %q expected string, got %T", fieldName, value)}
		}
	case "number", "integer":
		// JSON unmarshals numbers to float64
		if _, ok := value.(float64); !ok {
			return []string{fmt.Sprintf("field %q expected number, got %T", fieldName, value)}
		}
	case "boolean":
		if _, ok := value.(bool); !ok {
			return []string{fmt.Sprintf("field %q expected boolean, got %T", fieldName, value)}
		}
	case "array":
		arr, ok := value.([]interface{})
		if !ok {
			return []string{fmt.Sprintf("field %q expected array, got %T", fieldName, value)}
		}
		var offending []string
		if itemsSchema, ok := schema["items"].(map[string]interface{}); ok {
			for i, item := range arr {
				offending = append(offending, validateType(fmt.Sprintf("%s[%d]", fieldName, i), itemsSchema, item)...)
			}
		}
		return offending
	case "object":
		obj, ok := value.(map[string]interface{})
		if !ok {
			return []string{fmt.Sprintf("field %q expected object, got %T", fieldName, value)}
		}
		return validateObject(schema, obj)
	}

	return nil
}
