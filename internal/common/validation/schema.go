package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Schema is a JSON Schema document describing one tool action's arguments.
type Schema map[string]interface{}

// Object builds an object schema from property definitions and required names.
// Additional properties are allowed so unknown extracted fields are ignored.
func Object(properties map[string]Schema, required ...string) Schema {
	props := make(map[string]interface{}, len(properties))
	for k, v := range properties {
		props[k] = map[string]interface{}(v)
	}
	s := Schema{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		req := make([]interface{}, len(required))
		for i, r := range required {
			req[i] = r
		}
		s["required"] = req
	}
	return s
}

func String() Schema  { return Schema{"type": "string"} }
func Integer() Schema { return Schema{"type": "integer"} }
func Number() Schema  { return Schema{"type": "number"} }

// NonEmptyString is a string with at least one character.
func NonEmptyString() Schema { return Schema{"type": "string", "minLength": 1} }

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ValidateInput checks fields against schema after light coercion.
// The coerced document is returned alongside the result.
func ValidateInput(fields map[string]interface{}, schema Schema) (map[string]interface{}, *ValidationResult, error) {
	coerced := Coerce(fields, schema)

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(map[string]interface{}(schema)),
		gojsonschema.NewGoLoader(coerced),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("validation error: %w", err)
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if desc.Type() == "required" {
			if prop, ok := desc.Details()["property"].(string); ok {
				field = prop
			}
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: desc.Description(),
			Code:    strings.ToUpper(desc.Type()),
		})
	}
	sort.SliceStable(out.Errors, func(i, j int) bool { return out.Errors[i].Field < out.Errors[j].Field })
	return coerced, out, nil
}

// Bind validates fields and decodes them into dst, a pointer to a struct with json tags.
func Bind(fields map[string]interface{}, schema Schema, dst interface{}) error {
	coerced, result, err := ValidateInput(fields, schema)
	if err != nil {
		return err
	}
	if !result.Valid {
		return &Error{Result: result}
	}
	raw, err := json.Marshal(coerced)
	if err != nil {
		return fmt.Errorf("encode fields: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return nil
}

// Error wraps a failed ValidationResult.
type Error struct {
	Result *ValidationResult
}

func (e *Error) Error() string {
	return strings.Join(e.Result.GetErrorMessages(), "; ")
}

// Coerce drops null values and converts numeric and boolean strings to the
// types the schema declares. Unconvertible values are left for the validator to reject.
func Coerce(fields map[string]interface{}, schema Schema) map[string]interface{} {
	props, _ := schema["properties"].(map[string]interface{})
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		if v == nil {
			continue
		}
		prop, _ := props[k].(map[string]interface{})
		out[k] = coerceValue(v, prop["type"])
	}
	return out
}

func coerceValue(v interface{}, typ interface{}) interface{} {
	s, isString := v.(string)
	switch typ {
	case "integer":
		if isString {
			if n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
				return n
			}
		}
		if f, ok := v.(float64); ok && f == float64(int64(f)) {
			return int64(f)
		}
	case "number":
		if isString {
			if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
				return f
			}
		}
	case "boolean":
		if isString {
			if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
				return b
			}
		}
	case "string":
		switch n := v.(type) {
		case float64:
			return strconv.FormatFloat(n, 'f', -1, 64)
		case int:
			return strconv.Itoa(n)
		case int64:
			return strconv.FormatInt(n, 10)
		}
	}
	return v
}

func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

var emailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)

func ValidateEmail(email string) bool {
	return emailPattern.FindString(email) == email && email != ""
}

// ExtractEmail returns the first address in a header value such as
// `"Jane Doe" <jane@example.com>`, or the trimmed input when none is found.
func ExtractEmail(header string) string {
	if m := emailPattern.FindString(header); m != "" {
		return m
	}
	return strings.TrimSpace(header)
}

var controlChars = regexp.MustCompile(`[\x00-\x1f\x7f]+`)

// NormalizeText replaces control characters with spaces and collapses whitespace.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(controlChars.ReplaceAllString(s, " ")), " ")
}
