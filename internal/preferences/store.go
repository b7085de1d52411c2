// Package preferences persists per-user scalar settings such as the
// minimum confidence threshold.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"orianna-agent/internal/common/metrics"
)

var (
	ErrInvalidKey       = errors.New("INVALID_PREFERENCE_KEY")
	ErrMalformedValue   = errors.New("MALFORMED_PREFERENCE_VALUE")
	ErrUnsupportedValue = errors.New("UNSUPPORTED_PREFERENCE_VALUE")
)

// Store reads and upserts preferences. Get reports found=false, with a nil
// error, when the user or the key does not exist.
type Store interface {
	Get(ctx context.Context, userID, key string) (value interface{}, found bool, err error)
	Set(ctx context.Context, userID, key string, value interface{}) error
	Ping(ctx context.Context) error
}

type Logger interface {
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

func validateKey(userID, key string) error {
	if strings.TrimSpace(userID) == "" {
		return fmt.Errorf("%w: empty user id", ErrInvalidKey)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty preference key", ErrInvalidKey)
	}
	if strings.ContainsAny(key, ".$") {
		return fmt.Errorf("%w: %q must not contain '.' or '$'", ErrInvalidKey, key)
	}
	return nil
}

// normalizeValue restricts values to JSON scalars.
func normalizeValue(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case string, bool, float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f, nil
		}
		return v.String(), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

func encodeValue(value interface{}) (string, error) {
	v, err := normalizeValue(value)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func decodeValue(raw string) interface{} {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

// Threshold reads the user's min_confidence_threshold. Absent, malformed or
// unreadable values yield def; the error is returned so callers can log it.
func Threshold(ctx context.Context, store Store, userID, key string, def float64) (float64, error) {
	value, found, err := store.Get(ctx, userID, key)
	if err != nil {
		return def, err
	}
	if !found {
		return def, nil
	}
	f, ok := toFloat(value)
	if !ok || f < 0 || f > 1 {
		return def, fmt.Errorf("%w: %v", ErrMalformedValue, value)
	}
	return f, nil
}

func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// ParseValue interprets a raw request value: numbers become float64, "true"
// and "false" become bools, anything else stays a string.
func ParseValue(raw string) interface{} {
	trimmed := strings.TrimSpace(raw)
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(trimmed); err == nil && (trimmed == "true" || trimmed == "false") {
		return b
	}
	return raw
}

// instrumented counts backend failures.
type instrumented struct {
	Store
	backend string
}

func (s *instrumented) Get(ctx context.Context, userID, key string) (interface{}, bool, error) {
	v, found, err := s.Store.Get(ctx, userID, key)
	if err != nil {
		metrics.PreferenceErrors.WithLabelValues(s.backend, "get").Inc()
	}
	return v, found, err
}

func (s *instrumented) Set(ctx context.Context, userID, key string, value interface{}) error {
	err := s.Store.Set(ctx, userID, key, value)
	if err != nil && !errors.Is(err, ErrInvalidKey) && !errors.Is(err, ErrUnsupportedValue) {
		metrics.PreferenceErrors.WithLabelValues(s.backend, "set").Inc()
	}
	return err
}
