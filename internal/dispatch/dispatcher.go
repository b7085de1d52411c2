// Package dispatch turns an utterance into a Decision: classify, gate on the
// user's confidence threshold, resolve a tool and execute it.
package dispatch

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"orianna-agent/internal/common/config"
	apperrors "orianna-agent/internal/common/errors"
	"orianna-agent/internal/common/metrics"
	"orianna-agent/internal/models"
	"orianna-agent/internal/nlp"
	"orianna-agent/internal/preferences"
	"orianna-agent/internal/tools/toolkit"
)

const tracerName = "orianna-agent/dispatch"

var ErrEmptyUtterance = errors.New("EMPTY_UTTERANCE")

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Resolver finds the tool for an intent.
type Resolver interface {
	Resolve(intent string) (toolkit.Tool, bool)
}

type Config struct {
	Labels           []string
	DefaultThreshold float64
	Policy           string
	DefaultUser      string
}

type Dispatcher struct {
	config     *Config
	classifier nlp.Classifier
	prefs      preferences.Store
	tools      Resolver
	logger     Logger
}

func New(cfg *Config, classifier nlp.Classifier, prefs preferences.Store, tools Resolver, log Logger) *Dispatcher {
	if cfg.DefaultThreshold <= 0 || cfg.DefaultThreshold > 1 {
		cfg.DefaultThreshold = 0.5
	}
	if cfg.Policy == "" {
		cfg.Policy = config.PolicyDowngrade
	}
	if len(cfg.Labels) == 0 {
		cfg.Labels = config.DefaultLabels
	}
	return &Dispatcher{
		config:     cfg,
		classifier: classifier,
		prefs:      prefs,
		tools:      tools,
		logger:     log.With(map[string]interface{}{"component": "dispatcher"}),
	}
}

func (d *Dispatcher) DefaultUser() string {
	return d.config.DefaultUser
}

// Process classifies text for userID and decides what to do with it.
// Only classification failures are returned as errors.
func (d *Dispatcher) Process(ctx context.Context, userID, text string) (*models.ProcessResponse, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.NewInvalidRequestError(ErrEmptyUtterance.Error())
	}
	if userID == "" {
		userID = d.config.DefaultUser
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "dispatch.process")
	defer span.End()

	parsed, err := nlp.Parse(ctx, d.classifier, text, d.config.Labels)
	if err != nil {
		span.RecordError(err)
		return nil, d.classifierError(err)
	}
	span.SetAttributes(
		attribute.String("intent", parsed.Intent),
		attribute.Float64("confidence", parsed.Confidence),
	)

	decision := d.Decide(ctx, userID, *parsed)
	return &models.ProcessResponse{Parsed: *parsed, Decision: decision}, nil
}

// Decide applies the confidence gate to parsed and routes it to a tool.
func (d *Dispatcher) Decide(ctx context.Context, userID string, parsed models.ParsedInput) models.Decision {
	threshold := d.threshold(ctx, userID)
	intent := parsed.Intent
	downgraded := false

	if parsed.Confidence < threshold {
		metrics.LowConfidenceTotal.WithLabelValues(d.config.Policy).Inc()
		if d.config.Policy == config.PolicyReject {
			decision := models.NotSureDecision(parsed.Confidence)
			d.record(parsed, intent, threshold, false, decision)
			return decision
		}
		intent = models.IntentUnknown
		downgraded = true
	}

	tool, ok := d.tools.Resolve(intent)
	if !ok {
		decision := models.NoToolDecision(intent)
		d.record(parsed, intent, threshold, downgraded, decision)
		return decision
	}

	decision := tool.Execute(ctx, parsed.OriginalText, intent)
	d.record(parsed, intent, threshold, downgraded, decision)
	return decision
}

func (d *Dispatcher) threshold(ctx context.Context, userID string) float64 {
	t, err := preferences.Threshold(ctx, d.prefs, userID, models.PrefMinConfidenceThreshold, d.config.DefaultThreshold)
	if err != nil {
		d.logger.Warn("Using default confidence threshold", map[string]interface{}{
			"userId":    userID,
			"threshold": t,
			"error":     err.Error(),
		})
	}
	return t
}

func (d *Dispatcher) record(parsed models.ParsedInput, intent string, threshold float64, downgraded bool, decision models.Decision) {
	metrics.DispatchTotal.WithLabelValues(intent, decision.Tool, decision.Action).Inc()
	d.logger.Info("Utterance dispatched", map[string]interface{}{
		"textLength": len(parsed.OriginalText),
		"intent":     parsed.Intent,
		"resolved":   intent,
		"confidence": parsed.Confidence,
		"threshold":  threshold,
		"downgraded": downgraded,
		"tool":       decision.Tool,
		"action":     decision.Action,
	})
}

func (d *Dispatcher) classifierError(err error) error {
	if errors.Is(err, nlp.ErrClassifierTimeout) || errors.Is(err, context.DeadlineExceeded) {
		metrics.ClassifierFailures.WithLabelValues("timeout").Inc()
		d.logger.Error("Intent classification timed out", map[string]interface{}{"error": err.Error()})
		return apperrors.NewClassifierTimeoutError(err)
	}
	metrics.ClassifierFailures.WithLabelValues("unavailable").Inc()
	d.logger.Error("Intent classification failed", map[string]interface{}{"error": err.Error()})
	return apperrors.NewClassifierUnavailableError(err)
}
