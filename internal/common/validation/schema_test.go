package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventSchema() Schema {
	return Object(map[string]Schema{
		"summary":    NonEmptyString(),
		"start_time": NonEmptyString(),
		"end_time":   String(),
		"attendees":  Integer(),
	}, "summary", "start_time")
}

type eventArgs struct {
	Summary   string `json:"summary"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Attendees int    `json:"attendees"`
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name       string
		fields     map[string]interface{}
		valid      bool
		errorField string
	}{
		{
			name:   "all required present",
			fields: map[string]interface{}{"summary": "Dentist", "start_time": "2025-03-10T09:00"},
			valid:  true,
		},
		{
			name:       "missing required field",
			fields:     map[string]interface{}{"summary": "Dentist"},
			valid:      false,
			errorField: "start_time",
		},
		{
			name:   "extra fields are ignored",
			fields: map[string]interface{}{"summary": "Dentist", "start_time": "x", "mood": "happy"},
			valid:  true,
		},
		{
			name:       "wrong type rejected",
			fields:     map[string]interface{}{"summary": "Dentist", "start_time": "x", "attendees": "many"},
			valid:      false,
			errorField: "attendees",
		},
		{
			name:       "null required counts as missing",
			fields:     map[string]interface{}{"summary": nil, "start_time": "x"},
			valid:      false,
			errorField: "summary",
		},
		{
			name:       "empty string rejected by minLength",
			fields:     map[string]interface{}{"summary": "", "start_time": "x"},
			valid:      false,
			errorField: "summary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, result, err := ValidateInput(tt.fields, eventSchema())
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			if tt.errorField != "" {
				assert.True(t, result.HasErrors(tt.errorField), result.GetErrorMessages())
			}
		})
	}
}

func TestBind_CoercesAndDecodes(t *testing.T) {
	var args eventArgs
	err := Bind(map[string]interface{}{
		"summary":    "Standup",
		"start_time": "2025-03-10T09:00",
		"end_time":   nil,
		"attendees":  "4",
	}, eventSchema(), &args)

	require.NoError(t, err)
	assert.Equal(t, "Standup", args.Summary)
	assert.Equal(t, 4, args.Attendees)
	assert.Empty(t, args.EndTime)
}

func TestBind_ReturnsValidationError(t *testing.T) {
	var args eventArgs
	err := Bind(map[string]interface{}{"summary": "Standup"}, eventSchema(), &args)

	var vErr *Error
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, err.Error(), "start_time")
}

func TestCoerce(t *testing.T) {
	schema := Object(map[string]Schema{
		"n":    Integer(),
		"f":    Number(),
		"b":    {"type": "boolean"},
		"s":    String(),
		"free": {},
	})

	out := Coerce(map[string]interface{}{
		"n":    "12",
		"f":    "0.75",
		"b":    "true",
		"s":    float64(42),
		"free": "as-is",
		"nil":  nil,
	}, schema)

	assert.Equal(t, int64(12), out["n"])
	assert.Equal(t, 0.75, out["f"])
	assert.Equal(t, true, out["b"])
	assert.Equal(t, "42", out["s"])
	assert.Equal(t, "as-is", out["free"])
	assert.NotContains(t, out, "nil")
}

func TestExtractEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Jane Doe" <jane.doe@example.com>`, "jane.doe@example.com"},
		{"bob@example.org", "bob@example.org"},
		{"  No Address  ", "No Address"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExtractEmail(tt.in))
	}
}

func TestValidateEmail(t *testing.T) {
	assert.True(t, ValidateEmail("a@b.io"))
	assert.False(t, ValidateEmail("Jane <a@b.io>"))
	assert.False(t, ValidateEmail(""))
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Invoice for March", NormalizeText("Invoice\r\n\tfor   March\x00"))
	assert.Equal(t, "", NormalizeText(" \n "))
}
