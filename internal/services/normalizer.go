package services

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var codeFencePattern = regexp.MustCompile("```[A-Za-z0-9_-]*")

// Normalize turns a raw completion reply into an object holding exactly the
// schema's keys. Text that does not parse as JSON is ErrUpstreamFormat;
// parseable but incomplete objects are filled with typed defaults.
func Normalize(raw string, schema *Schema) (map[string]interface{}, error) {
	jsonStr := ExtractJSON(raw)
	if jsonStr == "" {
		return nil, fmt.Errorf("%w: empty %s response", ErrUpstreamFormat, schema.Name)
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s response is not valid JSON: %v", ErrUpstreamFormat, schema.Name, err)
	}

	obj, err := asObject(parsed, schema)
	if err != nil {
		return nil, err
	}

	values := mapKeys(obj, schema)

	out := make(map[string]interface{}, len(schema.Fields))
	for _, f := range schema.Fields {
		out[f.Key] = coerce(values[f.Key], f)
	}

	if err := schema.validate(out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstreamFormat, schema.Name, err)
	}

	return out, nil
}

// NormalizeInto normalizes raw and decodes the result into target.
func NormalizeInto(raw string, schema *Schema, target interface{}) error {
	out, err := Normalize(raw, schema)
	if err != nil {
		return err
	}

	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
	}
	if err := json.Unmarshal(b, target); err != nil {
		return fmt.Errorf("%w: %v", ErrUpstreamFormat, err)
	}

	return nil
}

// NormalizeText cleans a free-text reply. An empty reply is ErrUpstreamFormat.
func NormalizeText(raw string) (string, error) {
	text := StripCodeFences(raw)
	if text == "" {
		return "", fmt.Errorf("%w: empty text response", ErrUpstreamFormat)
	}
	return text, nil
}

// StripCodeFences removes markdown fences such as ```json and ```.
func StripCodeFences(text string) string {
	return strings.TrimSpace(codeFencePattern.ReplaceAllString(text, ""))
}

// ExtractJSON tries to extract JSON from text that might contain markdown or
// other formatting around it. The outermost object and the outermost array
// are both candidates; the first one that is valid JSON wins, in order of
// where they start.
func ExtractJSON(text string) string {
	text = StripCodeFences(text)

	var candidates []string
	objStart, objEnd := strings.Index(text, "{"), strings.LastIndex(text, "}")
	arrStart, arrEnd := strings.Index(text, "["), strings.LastIndex(text, "]")

	obj := ""
	if objStart != -1 && objEnd > objStart {
		obj = text[objStart : objEnd+1]
	}
	arr := ""
	if arrStart != -1 && arrEnd > arrStart {
		arr = text[arrStart : arrEnd+1]
	}

	if arr != "" && (obj == "" || arrStart < objStart) {
		candidates = append(candidates, arr, obj)
	} else {
		candidates = append(candidates, obj, arr)
	}

	for _, c := range candidates {
		if c != "" && json.Valid([]byte(c)) {
			return c
		}
	}
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}

	return text
}

// asObject accepts a JSON object, a bare array when the schema has a single
// list field, or an object wrapping the payload under one envelope key.
func asObject(parsed interface{}, schema *Schema) (map[string]interface{}, error) {
	switch v := parsed.(type) {
	case map[string]interface{}:
		if len(v) == 1 && !hasSchemaKey(v, schema) {
			for _, inner := range v {
				if nested, ok := inner.(map[string]interface{}); ok {
					return nested, nil
				}
			}
		}
		return v, nil
	case []interface{}:
		if len(schema.Fields) == 1 && schema.Fields[0].Type == FieldStringList {
			return map[string]interface{}{schema.Fields[0].Key: v}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s response is not a JSON object", ErrUpstreamFormat, schema.Name)
}

func hasSchemaKey(obj map[string]interface{}, schema *Schema) bool {
	for key := range obj {
		if _, ok := schema.canonicalKey(key); ok {
			return true
		}
	}
	return false
}

// mapKeys resolves upstream keys onto declared keys. A key that folds to the
// declared name wins over an alias.
func mapKeys(obj map[string]interface{}, schema *Schema) map[string]interface{} {
	values := make(map[string]interface{}, len(schema.Fields))
	exact := make(map[string]bool, len(schema.Fields))

	for key, value := range obj {
		canonical, ok := schema.canonicalKey(key)
		if !ok {
			continue
		}
		isExact := foldKey(key) == foldKey(canonical)
		if exact[canonical] && !isExact {
			continue
		}
		if _, seen := values[canonical]; seen && !isExact {
			continue
		}
		values[canonical] = value
		if isExact {
			exact[canonical] = true
		}
	}

	return values
}

func coerce(value interface{}, f Field) interface{} {
	switch f.Type {
	case FieldStringList:
		return coerceList(value)
	case FieldScore:
		return coerceScore(value, f.Min, f.Max)
	default:
		return coerceString(value)
	}
}

func coerceString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// coerceList never returns nil. Non-array values become an empty list and
// non-string or blank elements are dropped.
func coerceList(value interface{}) []string {
	out := []string{}
	arr, ok := value.([]interface{})
	if !ok {
		return out
	}
	for _, item := range arr {
		if s, ok := item.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func coerceScore(value interface{}, min, max int) int {
	var f float64
	switch v := value.(type) {
	case float64:
		f = v
	case string:
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(v), "%"))
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return min
		}
		f = parsed
	default:
		return min
	}

	if math.IsNaN(f) {
		return min
	}
	return clampInt(int(math.Round(math.Max(math.Min(f, float64(max)), float64(min)))), min, max)
}
