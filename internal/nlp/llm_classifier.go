package nlp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"orianna-agent/internal/common/validation"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
)

var verdictSchema = validation.Object(map[string]validation.Schema{
	"intent":     validation.String(),
	"confidence": validation.Number(),
})

// LLMClassifier asks the local model to pick a label when no hosted
// zero-shot endpoint is available.
type LLMClassifier struct {
	extractor llm.ParameterExtractor
	logger    Logger
}

func NewLLMClassifier(extractor llm.ParameterExtractor, log Logger) *LLMClassifier {
	return &LLMClassifier{
		extractor: extractor,
		logger:    log.With(map[string]interface{}{"classifier": "llm"}),
	}
}

func (c *LLMClassifier) buildPrompt(text string, labels []string) string {
	return fmt.Sprintf(`You are an intent classifier for a personal assistant.
Pick exactly one intent from this list: %s.
If none fits, answer "%s".
Reply with JSON only: {"intent": "<intent>", "confidence": <number between 0 and 1>}
User text: %s`, strings.Join(quoteAll(labels), ", "), models.IntentUnknown, text)
}

func (c *LLMClassifier) Classify(ctx context.Context, text string, labels []string) (*Classification, error) {
	res := c.extractor.Extract(ctx, c.buildPrompt(text, labels))
	if res.Failed() {
		if res.Err == llm.ReasonTimeout {
			return nil, fmt.Errorf("%w: %s", ErrClassifierTimeout, res.Err)
		}
		return nil, fmt.Errorf("%w: %s", ErrClassifierUnavailable, res.Err)
	}

	intent := strings.ToLower(strings.TrimSpace(fmt.Sprint(res.Fields["intent"])))
	if !contains(labels, intent) {
		c.logger.Warn("model answered with an unknown label", map[string]interface{}{"label": intent})
		intent = models.IntentUnknown
	}

	confidence := 0.5
	if v, ok := validation.Coerce(res.Fields, verdictSchema)["confidence"].(float64); ok {
		confidence = v
	}

	return &Classification{
		Labels: []string{intent},
		Scores: []float64{clamp01(confidence)},
	}, nil
}

func quoteAll(labels []string) []string {
	out := make([]string, len(labels))
	for i, l := range labels {
		out[i] = strconv.Quote(l)
	}
	return out
}
