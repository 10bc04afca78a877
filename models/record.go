// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FieldKey identifies a survey item or demographic field (e.g. "interest")
type FieldKey string

// Record is one survey response keyed by field name.
// Values are strings, numbers, booleans or nil, as decoded from the data source.
type Record map[string]any

// Label stringifies the value stored under key.
// Numbers use their shortest decimal form so 3 and "3" yield the same label.
// Returns false when the key is missing or holds nil.
func (r Record) Label(key FieldKey) (string, bool) {
	v, ok := r[string(key)]
	if !ok || v == nil {
		return "", false
	}

	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case json.Number:
		return val.String(), true
	case bool:
		return strconv.FormatBool(val), true
	case []byte:
		return string(val), true
	default:
		return fmt.Sprint(val), true
	}
}

// Float parses the value stored under key as a finite real number.
// Numeric strings are trimmed before parsing. NaN, infinities and
// anything unparseable report false.
func (r Record) Float(key FieldKey) (float64, bool) {
	v, ok := r[string(key)]
	if !ok || v == nil {
		return 0, false
	}

	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case int32:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		return parseFinite(val)
	case []byte:
		return parseFinite(string(val))
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Blank reports whether key is present on the record with an empty value
// (nil or ""). A key that is absent is not blank.
func (r Record) Blank(key string) bool {
	v, ok := r[key]
	if !ok {
		return false
	}
	if v == nil {
		return true
	}
	if s, isString := v.(string); isString {
		return s == ""
	}
	return false
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
