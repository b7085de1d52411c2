// internal/models/decision.go
package models

import "fmt"

const (
	ToolNone      = "none"
	IntentUnknown = "unknown"

	ActionNotSure         = "not_sure"
	ActionNoToolAvailable = "no_tool_available"
	ActionUnknownIntent   = "unknown_intent"
)

// ParsedInput is the classifier's verdict for one utterance.
type ParsedInput struct {
	Intent       string  `json:"intent"`
	Confidence   float64 `json:"confidence"`
	OriginalText string  `json:"original_text"`
}

// Decision is the uniform envelope returned for every dispatched request.
type Decision struct {
	Tool    string      `json:"tool"`
	Action  string      `json:"action"`
	Result  interface{} `json:"result,omitempty"`
	Summary string      `json:"summary,omitempty"`
	Message string      `json:"message"`
}

// ProcessResponse is the body of POST /process.
type ProcessResponse struct {
	Parsed   ParsedInput `json:"parsed"`
	Decision Decision    `json:"decision"`
}

// NoToolDecision is returned when no registered tool handles intent.
func NoToolDecision(intent string) Decision {
	return Decision{
		Tool:    ToolNone,
		Action:  ActionNoToolAvailable,
		Message: fmt.Sprintf("No tool handles intent '%s'.", intent),
	}
}

// NotSureDecision is returned by the reject policy when confidence is too low.
func NotSureDecision(confidence float64) Decision {
	return Decision{
		Tool:    ToolNone,
		Action:  ActionNotSure,
		Message: fmt.Sprintf("Low confidence (%.2f). Please rephrase.", confidence),
	}
}
