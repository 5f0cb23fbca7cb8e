// Package jsonutil provides defensive parsing for untrusted JSON request
// bodies. Failure is always encoded in a nil return, never a panic, so
// callers can translate malformed input into a 400 without exception-style
// control flow.
package jsonutil

import "encoding/json"

// SafeParseObject parses data as a JSON object. It returns nil when the input
// is not valid JSON, or parses to null, an array, or a scalar.
func SafeParseObject(data []byte) map[string]any {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return obj
}

// SafeParseArray parses data as a JSON array. It returns nil when the input
// is not valid JSON or does not parse to an array.
func SafeParseArray(data []byte) []any {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	return arr
}
