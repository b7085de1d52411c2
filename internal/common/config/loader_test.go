package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
classifier:
  base_url: http://classifier.local
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "orianna", cfg.App.Name)
	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "memory", cfg.Preferences.Backend)
	assert.Equal(t, 0.5, cfg.Dispatch.DefaultThreshold)
	assert.Equal(t, PolicyDowngrade, cfg.Dispatch.LowConfidencePolicy)
	assert.Equal(t, "default", cfg.Dispatch.DefaultUser)
	assert.Equal(t, DefaultLabels, cfg.Classifier.Labels)
	assert.Equal(t, "dolphin3", cfg.LLM.Model)
	assert.Equal(t, "UTC", cfg.Google.Timezone)
	assert.Equal(t, 5, cfg.APIs.WebSearch.MaxResults)
	assert.Equal(t, "Completed Date", cfg.Sheets.DateColumn)
	assert.Equal(t, "user_preferences", cfg.Database.Mongo.Collection)
}

func TestLoadFromFile_ExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_CLASSIFIER_URL", "http://expanded.local")
	path := writeConfig(t, `
classifier:
  base_url: "${TEST_CLASSIFIER_URL}"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "http://expanded.local", cfg.Classifier.BaseURL)
}

func TestLoadFromFile_OverridesSecretsFromEnv(t *testing.T) {
	t.Setenv("WEB_SEARCH_API_KEY", "search-key")
	t.Setenv("WEB_SEARCH_ENGINE_ID", "engine")
	path := writeConfig(t, `
classifier:
  base_url: http://classifier.local
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "search-key", cfg.APIs.WebSearch.APIKey)
	assert.Equal(t, "engine", cfg.APIs.WebSearch.EngineID)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "zeroshot without base url",
			body:    "classifier:\n  provider: zeroshot\n",
			wantErr: "classifier.base_url",
		},
		{
			name:    "redis backend without address",
			body:    "classifier:\n  provider: llm\npreferences:\n  backend: redis\n",
			wantErr: "database.redis.address",
		},
		{
			name:    "unknown backend",
			body:    "classifier:\n  provider: llm\npreferences:\n  backend: sqlite\n",
			wantErr: "unknown preferences.backend",
		},
		{
			name:    "threshold out of range",
			body:    "classifier:\n  provider: llm\ndispatch:\n  default_threshold: 1.5\n",
			wantErr: "default_threshold",
		},
		{
			name:    "unknown policy",
			body:    "classifier:\n  provider: llm\ndispatch:\n  low_confidence_policy: ask\n",
			wantErr: "low_confidence_policy",
		},
		{
			name:    "labels without unknown",
			body:    "classifier:\n  provider: llm\n  labels: [\"create task\"]\n",
			wantErr: "must include \"unknown\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFromFile_RejectPolicyAccepted(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, "classifier:\n  provider: llm\ndispatch:\n  low_confidence_policy: reject\n"))
	require.NoError(t, err)
	assert.Equal(t, PolicyReject, cfg.Dispatch.LowConfidencePolicy)
}

func TestToolHelpers(t *testing.T) {
	cfg := &Config{Tools: map[string]ToolConfig{
		"gmail_tool": {Enabled: false, Timeout: 1000},
	}}

	assert.False(t, IsToolEnabled(cfg, "gmail_tool"))
	assert.True(t, IsToolEnabled(cfg, "calendar_tool"))
	assert.Equal(t, 1000, GetToolConfig(cfg, "gmail_tool").Timeout)
	assert.Equal(t, ToolConfig{Enabled: true, Timeout: 120000}, GetToolConfig(cfg, "tasks_tool"))
	assert.Equal(t, 1500*time.Millisecond, GetDuration(1500))
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: 5432, User: "u", Password: "p", Database: "orianna", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=orianna sslmode=disable", p.GetDSN())
}
