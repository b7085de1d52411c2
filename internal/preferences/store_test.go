package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{}) {
	l.t.Logf("INFO: %s %v", msg, fields)
}

func (l *TestLogger) Warn(msg string, fields map[string]interface{}) {
	l.t.Logf("WARN: %s %v", msg, fields)
}

func (l *TestLogger) Error(msg string, fields map[string]interface{}) {
	l.t.Logf("ERROR: %s %v", msg, fields)
}

func (l *TestLogger) With(fields map[string]interface{}) Logger {
	return l
}

type failingStore struct {
	err error
}

func (s failingStore) Get(context.Context, string, string) (interface{}, bool, error) {
	return nil, false, s.err
}

func (s failingStore) Set(context.Context, string, string, interface{}) error {
	return s.err
}

func (s failingStore) Ping(context.Context) error {
	return s.err
}

func TestMemoryStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, found, err := store.Get(ctx, "alice", "min_confidence_threshold")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Set(ctx, "alice", "min_confidence_threshold", 0.7))
	require.NoError(t, store.Set(ctx, "alice", "theme", "dark"))

	v, found, err := store.Get(ctx, "alice", "min_confidence_threshold")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 0.7, v)

	// Upsert replaces only the named key.
	require.NoError(t, store.Set(ctx, "alice", "min_confidence_threshold", 0.9))
	v, _, _ = store.Get(ctx, "alice", "min_confidence_threshold")
	assert.Equal(t, 0.9, v)
	v, _, _ = store.Get(ctx, "alice", "theme")
	assert.Equal(t, "dark", v)

	_, found, _ = store.Get(ctx, "bob", "theme")
	assert.False(t, found)
}

func TestMemoryStore_RejectsBadInput(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	assert.ErrorIs(t, store.Set(ctx, "", "k", 1), ErrInvalidKey)
	assert.ErrorIs(t, store.Set(ctx, "u", " ", 1), ErrInvalidKey)
	assert.ErrorIs(t, store.Set(ctx, "u", "a.b", 1), ErrInvalidKey)
	assert.ErrorIs(t, store.Set(ctx, "u", "k", []string{"x"}), ErrUnsupportedValue)
}

func TestThreshold(t *testing.T) {
	ctx := context.Background()
	const key = "min_confidence_threshold"

	tests := []struct {
		name    string
		value   interface{}
		set     bool
		want    float64
		wantErr error
	}{
		{name: "absent uses default", want: 0.5},
		{name: "stored float", value: 0.8, set: true, want: 0.8},
		{name: "stored int", value: 1, set: true, want: 1},
		{name: "stored numeric string", value: "0.3", set: true, want: 0.3},
		{name: "non numeric string", value: "high", set: true, want: 0.5, wantErr: ErrMalformedValue},
		{name: "out of range", value: 1.5, set: true, want: 0.5, wantErr: ErrMalformedValue},
		{name: "boolean", value: true, set: true, want: 0.5, wantErr: ErrMalformedValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMemoryStore()
			if tt.set {
				require.NoError(t, store.Set(ctx, "u1", key, tt.value))
			}
			got, err := Threshold(ctx, store, "u1", key, 0.5)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestThreshold_StoreFailureFallsBack(t *testing.T) {
	boom := errors.New("connection refused")
	got, err := Threshold(context.Background(), failingStore{err: boom}, "u1", "k", 0.5)
	assert.Equal(t, 0.5, got)
	assert.ErrorIs(t, err, boom)
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 0.25, ParseValue("0.25"))
	assert.Equal(t, true, ParseValue("true"))
	assert.Equal(t, "dark", ParseValue("dark"))
	assert.Equal(t, "T", ParseValue("T"))
}
