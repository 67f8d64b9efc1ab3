package services

import (
	"encoding/json"
	"strings"
)

// This file is the sole error boundary for untrusted JSON payloads. Nothing
// here ever returns an error: malformed text, wrong types and null inputs all
// collapse into "absent", and downstream stages skip gracefully.

// DecodeValue parses a possibly-empty, possibly-malformed JSON payload.
// ok is false whenever no usable structure came out.
func DecodeValue(raw string) (any, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "null" {
		return nil, false
	}

	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, false
	}
	if v == nil {
		return nil, false
	}
	return v, true
}

// DecodeObject decodes a payload expected to hold a JSON object.
func DecodeObject(raw string) (map[string]any, bool) {
	v, ok := DecodeValue(raw)
	if !ok {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}

// DecodeArray decodes a payload expected to hold a JSON array.
func DecodeArray(raw string) ([]any, bool) {
	v, ok := DecodeValue(raw)
	if !ok {
		return nil, false
	}
	arr, ok := v.([]any)
	return arr, ok
}
