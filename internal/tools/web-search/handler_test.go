package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"orianna-agent/internal/llm"
	"orianna-agent/internal/tools/toolkit"
)

// ==========================
// Test Logger Implementation
// ==========================

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

func (l *TestLogger) With(fields map[string]interface{}) toolkit.Logger {
	return l
}

type warnRecorder struct {
	TestLogger
	codes []string
}

func (l *warnRecorder) Warn(msg string, fields map[string]interface{}) {
	code, _ := fields["errorCode"].(string)
	l.codes = append(l.codes, code)
}

func (l *warnRecorder) With(fields map[string]interface{}) toolkit.Logger {
	return l
}

type mockExtractor struct {
	mock.Mock
}

func (m *mockExtractor) Extract(ctx context.Context, prompt string) llm.Result {
	return m.Called(ctx, prompt).Get(0).(llm.Result)
}

// ==========================
// Test Helper Functions
// ==========================

func createTestConfig(baseURL string) *Config {
	return &Config{
		SearchAPIBaseURL: baseURL,
		SearchAPIKey:     "test-api-key",
		SearchEngineID:   "test-engine-id",
		MaxResults:       3,
		Timeout:          3 * time.Second,
	}
}

func searchServer(t *testing.T, status int, items []map[string]string) *httptest.Server {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.URL.Query().Get("key"))
		assert.Equal(t, "test-engine-id", r.URL.Query().Get("cx"))
		assert.Equal(t, "3", r.URL.Query().Get("num"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}))
	t.Cleanup(server.Close)
	return server
}

// ==========================
// Core Functionality Tests
// ==========================

func TestExecute_SearchAndSummarize(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"items": []map[string]string{
			{"title": "Paris", "link": "https://en.wikipedia.org/wiki/Paris", "snippet": "Paris is the capital of France."},
			{"title": "France", "link": "https://example.com/france"},
		}})
	}))
	defer server.Close()

	ex := &mockExtractor{}
	ex.On("Extract", mock.Anything, mock.MatchedBy(func(p string) bool {
		return strings.HasPrefix(p, summaryPrompt) && strings.Contains(p, "No description available.")
	})).Return(llm.Result{Fields: map[string]interface{}{"summary": "Paris is France's capital."}}).Once()

	h := NewHandler(createTestConfig(server.URL), ex, &TestLogger{t})
	d := h.Execute(context.Background(), "what is the capital of france", "unknown")

	assert.Equal(t, "what is the capital of france", gotQuery)
	assert.Equal(t, ToolName, d.Tool)
	assert.Equal(t, ActionWebSearch, d.Action)
	assert.Equal(t, "Paris is France's capital.", d.Summary)
	assert.Equal(t, "Web search completed and summarized for query: 'what is the capital of france'.", d.Message)
	assert.Len(t, d.Result, 2)
	ex.AssertExpectations(t)
}

func TestExecute_SearchErrorSkipsSummarization(t *testing.T) {
	server := searchServer(t, http.StatusForbidden, nil)
	ex := &mockExtractor{}

	d := NewHandler(createTestConfig(server.URL), ex, &TestLogger{t}).
		Execute(context.Background(), "weather", "web search")

	assert.True(t, strings.HasPrefix(d.Message, "Search failed: "), d.Message)
	assert.Empty(t, d.Summary)
	ex.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestExecute_SearchErrorLogsCode(t *testing.T) {
	server := searchServer(t, http.StatusForbidden, nil)
	log := &warnRecorder{TestLogger: TestLogger{t}}

	NewHandler(createTestConfig(server.URL), &mockExtractor{}, log).
		Execute(context.Background(), "weather", "web search")

	assert.Equal(t, []string{"WEB_SEARCH_FAILED"}, log.codes)
}

func TestExecute_SearchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	cfg := createTestConfig(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	d := NewHandler(cfg, &mockExtractor{}, &TestLogger{t}).Execute(ctx, "slow", "web search")
	assert.Equal(t, "Search failed: WEB_SEARCH_TIMEOUT", d.Message)
}

func TestExecute_SummaryFallsBackToSnippet(t *testing.T) {
	server := searchServer(t, http.StatusOK, []map[string]string{
		{"title": "Go", "link": "https://go.dev", "snippet": "Build simple, secure, scalable systems with Go."},
	})
	ex := &mockExtractor{}
	ex.On("Extract", mock.Anything, mock.Anything).Return(llm.Result{Err: "timeout"})

	d := NewHandler(createTestConfig(server.URL), ex, &TestLogger{t}).
		Execute(context.Background(), "golang", "web search")

	assert.Equal(t, "Build simple, secure, scalable systems with Go.", d.Summary)
}

func TestExecute_NoResults(t *testing.T) {
	server := searchServer(t, http.StatusOK, nil)
	ex := &mockExtractor{}

	d := NewHandler(createTestConfig(server.URL), ex, &TestLogger{t}).
		Execute(context.Background(), "asdfgh", "web search")

	assert.Equal(t, "I couldn't find anything on the web for that.", d.Summary)
	ex.AssertNumberOfCalls(t, "Extract", 0)
}

func TestNewHandler_ClampsMaxResults(t *testing.T) {
	tests := []struct {
		configured, want int
	}{
		{0, 5},
		{-3, 5},
		{7, 7},
		{20, 10},
	}
	for _, tt := range tests {
		cfg := createTestConfig("http://unused")
		cfg.MaxResults = tt.configured
		h := NewHandler(cfg, &mockExtractor{}, &TestLogger{t})
		assert.Equal(t, tt.want, h.config.MaxResults, "configured %d", tt.configured)
	}
}

func TestCanHandle(t *testing.T) {
	h := NewHandler(createTestConfig("http://localhost"), &mockExtractor{}, &TestLogger{t})
	assert.True(t, h.CanHandle("web search"))
	assert.True(t, h.CanHandle("unknown"))
	assert.False(t, h.CanHandle("create task"))
}
