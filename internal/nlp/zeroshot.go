package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonhttp "orianna-agent/internal/common/http"
)

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// ZeroShotClassifier calls a hosted zero-shot classification model using the
// Hugging Face inference request shape.
type ZeroShotClassifier struct {
	config *Config
	client *commonhttp.Client
	logger Logger
}

func NewZeroShotClassifier(config *Config, log Logger) *ZeroShotClassifier {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	client := commonhttp.NewClient(config.Timeout)
	if config.APIKey != "" {
		client = client.WithHeader("Authorization", "Bearer "+config.APIKey)
	}
	return &ZeroShotClassifier{
		config: config,
		client: client,
		logger: log.With(map[string]interface{}{"classifier": "zeroshot"}),
	}
}

type zeroShotRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters zeroShotParameters `json:"parameters"`
}

type zeroShotParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
	MultiLabel      bool     `json:"multi_label"`
}

type labelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *ZeroShotClassifier) Classify(ctx context.Context, text string, labels []string) (*Classification, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req := zeroShotRequest{
		Inputs:     text,
		Parameters: zeroShotParameters{CandidateLabels: labels},
	}

	var raw json.RawMessage
	if err := c.client.PostJSON(ctx, c.config.BaseURL, req, &raw); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: %v", ErrClassifierTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}

	result, err := decodeZeroShot(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	result.sortDescending()

	intent, score := result.Top()
	c.logger.Info("utterance classified", map[string]interface{}{
		"intent":     intent,
		"confidence": score,
	})
	return result, nil
}

// decodeZeroShot accepts both the {labels, scores} object and the
// [{label, score}] list the inference API returns.
func decodeZeroShot(raw json.RawMessage) (*Classification, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("empty classifier response")
	}

	result := &Classification{}
	if trimmed[0] == '[' {
		var pairs []labelScore
		if err := json.Unmarshal(trimmed, &pairs); err != nil {
			return nil, fmt.Errorf("decode label list: %w", err)
		}
		for _, p := range pairs {
			result.Labels = append(result.Labels, p.Label)
			result.Scores = append(result.Scores, p.Score)
		}
	} else if err := json.Unmarshal(trimmed, result); err != nil {
		return nil, fmt.Errorf("decode classification: %w", err)
	}

	if len(result.Labels) == 0 || len(result.Labels) != len(result.Scores) {
		return nil, fmt.Errorf("malformed classification: %d labels, %d scores", len(result.Labels), len(result.Scores))
	}
	return result, nil
}
