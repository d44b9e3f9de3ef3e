// Package encoding provides serialization adapters for the driver's
// machine-readable output (ShowProjSettings /Format=toon).
package encoding

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/cidbuild/cidbuild/internal/core/usecases"
)

// Ensure Encoder implements usecases.OutputEncoder.
var _ usecases.OutputEncoder = (*Encoder)(nil)

// Encoder provides JSON and TOON encoding/decoding for ShowProjSettings'
// supplemental machine-readable rendering (SPEC_FULL.md's ambient stack
// expansion). TOON (Token-Optimized Object Notation) trims JSON's
// punctuation for LLM-facing consumption while staying trivially parseable.
//
// Grounded on the teacher's own encoding/toon.go reflection-based encoder:
// the teacher's go.mod lists github.com/toon-format/toon-go but the
// teacher's own code never imports it either, so this keeps the teacher's
// hand-rolled implementation rather than wiring a library neither side
// actually uses (see DESIGN.md).
type Encoder struct{}

// NewEncoder creates a new Encoder instance.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// EncodeJSON serializes a value to JSON bytes.
func (e *Encoder) EncodeJSON(value any) ([]byte, error) {
	return json.Marshal(value)
}

// DecodeJSON deserializes JSON bytes to a value.
func (e *Encoder) DecodeJSON(data []byte, value any) error {
	return json.Unmarshal(data, value)
}

// EncodeTOON serializes a value to TOON format.
//
// Format rules:
//   - Objects: {k1:v1;k2:v2} (semicolon-delimited)
//   - Arrays: [v1;v2;v3] (semicolon-delimited)
//   - Strings: unquoted if simple alphanumeric, quoted otherwise
//   - Numbers: as-is
//   - Booleans: T/F
//   - Null: -
func (e *Encoder) EncodeTOON(value any) ([]byte, error) {
	result := encodeTOONValue(reflect.ValueOf(value), 0)
	return []byte(result), nil
}

// DecodeTOON deserializes TOON format to a value. Decode support only
// covers the JSON-compatible subset TOON shares with JSON; a genuinely
// TOON-encoded payload (unquoted keys, T/F booleans) cannot round-trip
// through this path yet.
func (e *Encoder) DecodeTOON(data []byte, value any) error {
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return json.Unmarshal(data, value)
	}
	return fmt.Errorf("TOON decode only supports JSON-compatible payloads")
}

// keyAbbreviations shortens common ProjectSettings field names for the
// token-efficient rendering.
var keyAbbreviations = map[string]string{
	"name":            "n",
	"directory":       "dir",
	"type":            "ty",
	"display":         "disp",
	"dependencies":    "deps",
	"extlibs":         "elibs",
	"extincludes":     "einc",
	"defines":         "def",
	"platformoptions": "popt",
	"idlentrycount":   "idl",
	"cppfilecount":    "cpp",
	"hppfilecount":    "hpp",
	"hasmessagefile":  "msg",
	"hasresfile":      "res",
	"key":             "k",
	"value":           "v",
}

// encodeTOONValue recursively encodes a value to TOON format.
func encodeTOONValue(v reflect.Value, depth int) string {
	if !v.IsValid() {
		return "-"
	}

	if v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return "-"
		}
		return encodeTOONValue(v.Elem(), depth)
	}

	switch v.Kind() {
	case reflect.String:
		s := v.String()
		if s == "" {
			return "-"
		}
		if isSimpleString(s) {
			return s
		}
		return fmt.Sprintf("%q", s)

	case reflect.Bool:
		if v.Bool() {
			return "T"
		}
		return "F"

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fmt.Sprintf("%d", v.Int())

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return fmt.Sprintf("%d", v.Uint())

	case reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%g", v.Float())

	case reflect.Slice, reflect.Array:
		if v.Len() == 0 {
			return "[]"
		}
		var parts []string
		for i := 0; i < v.Len(); i++ {
			parts = append(parts, encodeTOONValue(v.Index(i), depth+1))
		}
		return "[" + strings.Join(parts, ";") + "]"

	case reflect.Map:
		if v.Len() == 0 {
			return "{}"
		}
		var parts []string
		iter := v.MapRange()
		for iter.Next() {
			key := abbreviateKey(fmt.Sprintf("%v", iter.Key().Interface()))
			val := encodeTOONValue(iter.Value(), depth+1)
			parts = append(parts, key+":"+val)
		}
		return "{" + strings.Join(parts, ";") + "}"

	case reflect.Struct:
		t := v.Type()
		var parts []string
		for i := 0; i < v.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}

			name := field.Name
			if jsonTag := field.Tag.Get("json"); jsonTag != "" {
				tagParts := strings.Split(jsonTag, ",")
				if tagParts[0] != "" && tagParts[0] != "-" {
					name = tagParts[0]
				}
				if len(tagParts) > 1 && tagParts[1] == "omitempty" && isEmptyValue(v.Field(i)) {
					continue
				}
			}

			fieldVal := encodeTOONValue(v.Field(i), depth+1)
			if fieldVal == "-" || fieldVal == "[]" || fieldVal == "{}" {
				continue
			}

			parts = append(parts, abbreviateKey(name)+":"+fieldVal)
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{" + strings.Join(parts, ";") + "}"

	default:
		data, err := json.Marshal(v.Interface())
		if err != nil {
			return "-"
		}
		return string(data)
	}
}

// isSimpleString checks if a string can be represented without quotes.
func isSimpleString(s string) bool {
	if len(s) == 0 || len(s) > 50 {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.') {
			return false
		}
	}
	return true
}

// abbreviateKey returns the abbreviated key if one is known, else the
// lowercased key unchanged.
func abbreviateKey(key string) string {
	lower := strings.ToLower(key)
	if abbr, ok := keyAbbreviations[lower]; ok {
		return abbr
	}
	return lower
}

// isEmptyValue checks if a value is empty (for omitempty support).
func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	}
	return false
}
