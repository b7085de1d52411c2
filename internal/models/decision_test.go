package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoToolDecision(t *testing.T) {
	d := NoToolDecision("unknown")
	assert.Equal(t, Decision{
		Tool:    "none",
		Action:  "no_tool_available",
		Message: "No tool handles intent 'unknown'.",
	}, d)
}

func TestNotSureDecision(t *testing.T) {
	d := NotSureDecision(0.1)
	assert.Equal(t, "not_sure", d.Action)
	assert.Equal(t, "Low confidence (0.10). Please rephrase.", d.Message)
}

func TestDecision_OmitsEmptyOptionalFields(t *testing.T) {
	raw, err := json.Marshal(NoToolDecision("x"))
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.NotContains(t, out, "result")
	assert.NotContains(t, out, "summary")
	assert.Contains(t, out, "message")
}
