package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_dispatch_total",
			Help: "Total number of dispatched utterances by resolved intent, tool and action",
		},
		[]string{"intent", "tool", "action"},
	)

	LowConfidenceTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_low_confidence_total",
			Help: "Utterances whose confidence fell below the user's threshold",
		},
		[]string{"policy"},
	)

	ClassifierFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_classifier_failures_total",
			Help: "Intent classification calls that could not be completed",
		},
		[]string{"reason"},
	)

	ExtractionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_extraction_failures_total",
			Help: "Parameter extractions that returned an error payload",
		},
		[]string{"tool"},
	)

	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_tool_duration_seconds",
			Help:    "Duration of tool execution in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"tool", "action"},
	)

	PreferenceErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_preference_errors_total",
			Help: "Preference store operations that failed",
		},
		[]string{"backend", "op"},
	)

	SheetRowsAppended = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "assistant_sheet_rows_appended_total",
			Help: "Rows appended to the remote spreadsheet by the sync job",
		},
	)
)
