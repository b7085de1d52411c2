package registry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orianna-agent/internal/common/config"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
	"orianna-agent/internal/tools/calendar"
	"orianna-agent/internal/tools/mail"
	"orianna-agent/internal/tools/tasks"
	"orianna-agent/internal/tools/toolkit"
	"orianna-agent/internal/tools/transactions"
	websearch "orianna-agent/internal/tools/web-search"
)

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) Info(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Warn(msg string, fields map[string]interface{})  {}
func (l *TestLogger) Error(msg string, fields map[string]interface{}) {}

func (l *TestLogger) With(fields map[string]interface{}) toolkit.Logger {
	return l
}

type fakeTool struct {
	name    string
	intents []string
}

func (f *fakeTool) Name() string         { return f.name }
func (f *fakeTool) SchemaPrompt() string { return "" }
func (f *fakeTool) CanHandle(intent string) bool {
	for _, i := range f.intents {
		if i == intent {
			return true
		}
	}
	return false
}
func (f *fakeTool) Execute(ctx context.Context, text, intent string) models.Decision {
	return models.Decision{Tool: f.name}
}

type nopExtractor struct{}

func (nopExtractor) Extract(context.Context, string) llm.Result { return llm.Result{} }

func defaultTools(t *testing.T) Tools {
	log := &TestLogger{t}
	return Tools{
		Calendar:     calendar.NewHandler(&calendar.Config{}, nopExtractor{}, nil, log),
		Tasks:        tasks.NewHandler(&tasks.Config{}, nopExtractor{}, nil, log),
		Mail:         mail.NewHandler(&mail.Config{}, nopExtractor{}, nil, log),
		WebSearch:    websearch.NewHandler(&websearch.Config{}, nopExtractor{}, log),
		Transactions: transactions.NewHandler(&transactions.Config{}, nil, nil, log),
	}
}

func TestResolve_FirstMatchWins(t *testing.T) {
	a := &fakeTool{name: "a", intents: []string{"shared"}}
	b := &fakeTool{name: "b", intents: []string{"shared", "only b"}}
	r := New(a, b)

	got, ok := r.Resolve("shared")
	require.True(t, ok)
	assert.Equal(t, "a", got.Name())

	got, ok = r.Resolve("only b")
	require.True(t, ok)
	assert.Equal(t, "b", got.Name())

	_, ok = r.Resolve("nothing")
	assert.False(t, ok)
}

func TestAll_IsACopy(t *testing.T) {
	r := New(&fakeTool{name: "a"}, nil, &fakeTool{name: "b"})
	all := r.All()
	require.Len(t, all, 2)
	all[0] = nil
	assert.Equal(t, []string{"a", "b"}, r.Names())
}

func TestDefault_OrderAndRouting(t *testing.T) {
	r := Default(&config.Config{}, defaultTools(t))

	assert.Equal(t, []string{"calendar_tool", "tasks_tool", "gmail_tool", "websearch_tool", "transactions_tool"}, r.Names())

	routes := map[string]string{
		"create calendar event": "calendar_tool",
		"list calendar events":  "calendar_tool",
		"create task":           "tasks_tool",
		"list tasks":            "tasks_tool",
		"check email":           "gmail_tool",
		"web search":            "websearch_tool",
		"unknown":               "websearch_tool",
		"update transactions":   "transactions_tool",
	}
	for intent, want := range routes {
		tool, ok := r.Resolve(intent)
		require.True(t, ok, intent)
		assert.Equal(t, want, tool.Name(), intent)
	}
}

func TestDefault_SkipsDisabledTools(t *testing.T) {
	cfg := &config.Config{Tools: map[string]config.ToolConfig{
		"websearch_tool": {Enabled: false},
		"gmail_tool":     {Enabled: true},
	}}
	r := Default(cfg, defaultTools(t))

	assert.Equal(t, []string{"calendar_tool", "tasks_tool", "gmail_tool", "transactions_tool"}, r.Names())
	_, ok := r.Resolve("unknown")
	assert.False(t, ok)
}

func TestManifest(t *testing.T) {
	r := Default(&config.Config{}, defaultTools(t))
	m := r.Manifest(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), &fakeTool{name: "GoogleSheetsTool"})

	require.NoError(t, m.Validate())
	assert.Equal(t, "2025-03-10T12:00:00Z", m.GeneratedAt)
	require.Len(t, m.Tools, 6)
	assert.Equal(t, []string{"create_event", "list_events"}, m.Tools[0].Actions)
	assert.True(t, m.Tools[0].Enabled)
	assert.True(t, m.Tools[4].Enabled)
	assert.Equal(t, []string{"update_transactions"}, m.Tools[4].Actions)
	assert.False(t, m.Tools[5].Enabled)

	owner, ok := m.Owner("unknown")
	require.True(t, ok)
	assert.Equal(t, "websearch_tool", owner)
}
