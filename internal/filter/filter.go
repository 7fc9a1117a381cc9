// Package filter narrows structured command output with JMESPath.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Apply runs expression over v's JSON form and returns the selection as a
// plain value ready to be re-encoded. An empty expression returns v.
func Apply(v any, expression string) (any, error) {
	if expression == "" {
		return v, nil
	}

	// Round-trip through JSON so that custom marshalers (tuple language
	// stats, wire section names) are what the expression sees
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// IsValid checks if an expression is valid JMESPath syntax
func IsValid(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
