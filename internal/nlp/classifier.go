// Package nlp classifies utterances into one of a fixed set of intent labels.
package nlp

import (
	"context"
	"errors"
	"sort"

	"orianna-agent/internal/models"
)

var (
	ErrClassifierUnavailable = errors.New("CLASSIFIER_UNAVAILABLE")
	ErrClassifierTimeout     = errors.New("CLASSIFIER_TIMEOUT")
)

// Classifier ranks candidate labels for text, highest score first.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) (*Classification, error)
}

type Classification struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Top returns the best label and its score.
func (c *Classification) Top() (string, float64) {
	if c == nil || len(c.Labels) == 0 || len(c.Scores) == 0 {
		return models.IntentUnknown, 0
	}
	return c.Labels[0], c.Scores[0]
}

// sortDescending orders labels by score, keeping the input order for ties.
func (c *Classification) sortDescending() {
	n := len(c.Labels)
	if len(c.Scores) < n {
		n = len(c.Scores)
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return c.Scores[idx[a]] > c.Scores[idx[b]] })

	labels := make([]string, n)
	scores := make([]float64, n)
	for i, j := range idx {
		labels[i] = c.Labels[j]
		scores[i] = c.Scores[j]
	}
	c.Labels, c.Scores = labels, scores
}

// Parse classifies text and builds the ParsedInput from the top-ranked entry.
// Labels outside the candidate set are reported as "unknown".
func Parse(ctx context.Context, classifier Classifier, text string, labels []string) (*models.ParsedInput, error) {
	result, err := classifier.Classify(ctx, text, labels)
	if err != nil {
		return nil, err
	}
	intent, confidence := result.Top()
	if !contains(labels, intent) {
		intent = models.IntentUnknown
	}
	return &models.ParsedInput{
		Intent:       intent,
		Confidence:   clamp01(confidence),
		OriginalText: text,
	}, nil
}

func contains(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
