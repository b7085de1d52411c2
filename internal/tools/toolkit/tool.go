// Package toolkit holds the contract every assistant tool implements and the
// extraction template they share.
package toolkit

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "orianna-agent/internal/common/errors"
	"orianna-agent/internal/common/metrics"
	"orianna-agent/internal/common/validation"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
)

// Tool is one capability the dispatcher can route an intent to.
type Tool interface {
	Name() string
	CanHandle(intent string) bool
	SchemaPrompt() string
	Execute(ctx context.Context, text, intent string) models.Decision
}

// Describer is implemented by tools that can list their intents and actions
// for the tool manifest.
type Describer interface {
	Intents() []string
	Actions() []string
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// BuildInstruction appends the reference time and the raw utterance to a
// tool's schema prompt.
func BuildInstruction(schemaPrompt string, now time.Time, text string) string {
	return fmt.Sprintf("%s\nToday is %s.\nUser text: %s", schemaPrompt, now.Format(time.RFC3339), text)
}

// Base carries what every tool needs to run the extraction template.
type Base struct {
	ToolName  string
	Extractor llm.ParameterExtractor
	Clock     func() time.Time
	Logger    Logger
}

func (b *Base) Name() string {
	return b.ToolName
}

func (b *Base) Now() time.Time {
	if b.Clock == nil {
		return time.Now()
	}
	return b.Clock()
}

// ExtractArgs runs the extractor with prompt and binds the fields into dst.
// A non-nil Decision means the flow must stop and return it.
func (b *Base) ExtractArgs(ctx context.Context, action, prompt string, schema validation.Schema, text string, dst interface{}) *models.Decision {
	res := b.Extractor.Extract(ctx, BuildInstruction(prompt, b.Now(), text))
	if res.Failed() {
		b.Failure("Parameter extraction failed", action, ExtractionFailure(res.Err))
		d := ExtractionError(b.ToolName, action, res.Err)
		return &d
	}

	if err := validation.Bind(res.Fields, schema, dst); err != nil {
		b.Failure("Extracted parameters rejected", action, apperrors.NewParameterValidationError(err.Error()))
		d := ValidationError(b.ToolName, action, err)
		return &d
	}
	return nil
}

// Failure logs a tool-level failure with its code. Tool failures are reported
// to the caller in the Decision message, never as request errors.
func (b *Base) Failure(msg, action string, err *apperrors.StandardError) {
	b.Logger.Warn(msg, map[string]interface{}{
		"action":        action,
		"errorCode":     string(err.Code),
		"errorCategory": apperrors.GetErrorCategory(err.Code),
		"retryable":     err.Retryable,
		"error":         err.Details,
	})
}

// ExtractionFailure maps an extractor error string to its error code.
func ExtractionFailure(reason string) *apperrors.StandardError {
	cause := errors.New(reason)
	if reason == llm.ReasonTimeout {
		return apperrors.NewLLMTimeoutError(cause)
	}
	return apperrors.NewLLMExtractionFailedError(cause)
}

func ExtractionError(tool, action, reason string) models.Decision {
	metrics.ExtractionFailures.WithLabelValues(tool).Inc()
	return models.Decision{
		Tool:    tool,
		Action:  action,
		Message: fmt.Sprintf("LLM extraction error: %s", reason),
	}
}

func ValidationError(tool, action string, err error) models.Decision {
	return models.Decision{
		Tool:    tool,
		Action:  action,
		Message: fmt.Sprintf("Invalid parameters: %v", err),
	}
}

// APIError reports a failed side effect. service is the display name, e.g. "Calendar".
func APIError(tool, action, service string, err error) models.Decision {
	return models.Decision{
		Tool:    tool,
		Action:  action,
		Message: fmt.Sprintf("%s API error: %v", service, err),
	}
}

// UnknownIntent is returned when a tool is executed with an intent it does not handle.
func UnknownIntent(tool, display, intent string) models.Decision {
	return models.Decision{
		Tool:    tool,
		Action:  models.ActionUnknownIntent,
		Message: fmt.Sprintf("%s cannot handle '%s'.", display, intent),
	}
}
