package toolkit

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"orianna-agent/internal/common/metrics"
	"orianna-agent/internal/models"
)

const tracerName = "orianna-agent/tools"

// Instrument wraps t so every Execute is traced and timed. A positive
// timeout bounds the context handed to the tool.
func Instrument(t Tool, timeout time.Duration) Tool {
	if _, ok := t.(*instrumented); ok {
		return t
	}
	return &instrumented{Tool: t, timeout: timeout}
}

type instrumented struct {
	Tool
	timeout time.Duration
}

func (i *instrumented) Execute(ctx context.Context, text, intent string) models.Decision {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "tool."+i.Name())
	defer span.End()

	start := time.Now()
	d := i.Tool.Execute(ctx, text, intent)
	metrics.ToolDuration.WithLabelValues(i.Name(), d.Action).Observe(time.Since(start).Seconds())

	span.SetAttributes(
		attribute.String("intent", intent),
		attribute.String("action", d.Action),
	)
	return d
}

func (i *instrumented) Intents() []string {
	if d, ok := i.Tool.(Describer); ok {
		return d.Intents()
	}
	return nil
}

func (i *instrumented) Actions() []string {
	if d, ok := i.Tool.(Describer); ok {
		return d.Actions()
	}
	return nil
}

// Unwrap returns the tool Instrument wrapped.
func Unwrap(t Tool) Tool {
	if i, ok := t.(*instrumented); ok {
		return i.Tool
	}
	return t
}
