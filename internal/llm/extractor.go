// Package llm turns an instruction into a structured field map using a local model.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ReasonTimeout is the Result.Err reported when the model does not answer in time.
const ReasonTimeout = "timeout"

var (
	ErrEmptyOutput = errors.New("LLM_EMPTY_OUTPUT")
	ErrNotJSON     = errors.New("LLM_OUTPUT_NOT_JSON")
)

// ParameterExtractor sends one prompt to the model and returns its JSON object.
// Implementations never return a Go error: failures are carried in Result.Err.
type ParameterExtractor interface {
	Extract(ctx context.Context, prompt string) Result
}

// Result is either a field map or an error description.
type Result struct {
	Fields map[string]interface{}
	Err    string
}

func (r Result) Failed() bool {
	return r.Err != ""
}

func Failure(format string, args ...interface{}) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}

type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Config struct {
	BaseURL string
	Model   string
	Command string
	Timeout time.Duration
}

// resultFromOutput parses raw model output into a Result. An object carrying an
// "error" key is reported as a failure.
func resultFromOutput(raw string) Result {
	fields, err := ParseJSONObject(raw)
	if err != nil {
		return Result{Err: err.Error()}
	}
	if v, ok := fields["error"]; ok && v != nil {
		if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
			return Result{Err: s}
		}
	}
	return Result{Fields: fields}
}

// errorText renders transport errors, collapsing deadline errors to "timeout".
func errorText(ctx context.Context, err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ReasonTimeout
	}
	return err.Error()
}

// ParseJSONObject decodes the first JSON object in raw. Markdown code fences
// and leading or trailing chatter around the object are tolerated.
func ParseJSONObject(raw string) (map[string]interface{}, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, ErrEmptyOutput
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
		s = strings.TrimSpace(s)
	}
	if !strings.HasPrefix(s, "{") {
		start, end := strings.Index(s, "{"), strings.LastIndex(s, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: %s", ErrNotJSON, truncate(s, 80))
		}
		s = s[start : end+1]
	}

	var out map[string]interface{}
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJSON, err)
	}
	if out == nil {
		return nil, fmt.Errorf("%w: null", ErrNotJSON)
	}
	return out, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// New returns the extractor for mode: "command" shells out, anything else uses HTTP.
func New(mode string, config *Config, log Logger) ParameterExtractor {
	if mode == "command" {
		return NewCommandExtractor(config, log)
	}
	return NewOllamaExtractor(config, log)
}
