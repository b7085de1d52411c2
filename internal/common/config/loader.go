// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	PolicyDowngrade = "downgrade"
	PolicyReject    = "reject"
)

// DefaultLabels is the candidate intent set used when none is configured.
var DefaultLabels = []string{
	"check email",
	"list calendar events",
	"create calendar event",
	"list tasks",
	"create task",
	"web search",
	"update transactions",
	"unknown",
}

// Load reads ./configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml and
// applies environment overrides.
func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// overrideEmptyConfig fills secrets from well-known environment variables.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Classifier.APIKey, "HF_API_TOKEN")
	setIfEmpty(&cfg.APIs.WebSearch.APIKey, "WEB_SEARCH_API_KEY")
	setIfEmpty(&cfg.APIs.WebSearch.EngineID, "WEB_SEARCH_ENGINE_ID")
	setIfEmpty(&cfg.Google.CredentialsFile, "GOOGLE_CREDENTIALS_FILE")
	setIfEmpty(&cfg.Sheets.SpreadsheetID, "SPREADSHEET_ID")
	setIfEmpty(&cfg.Database.Mongo.URI, "MONGO_URI")
	setIfEmpty(&cfg.Database.Redis.Password, "REDIS_PASSWORD")
	setIfEmpty(&cfg.Database.Postgres.User, "DB_USER")
	setIfEmpty(&cfg.Database.Postgres.Password, "DB_PASSWORD")
}

func setIfEmpty(dst *string, envKey string) {
	if *dst != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*dst = val
	}
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "orianna"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15000
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 180000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30000
	}

	if cfg.Database.Redis.KeyPrefix == "" {
		cfg.Database.Redis.KeyPrefix = "prefs:"
	}
	if cfg.Database.Mongo.Database == "" {
		cfg.Database.Mongo.Database = "orianna_db"
	}
	if cfg.Database.Mongo.Collection == "" {
		cfg.Database.Mongo.Collection = "user_preferences"
	}
	if cfg.Database.Mongo.Timeout == 0 {
		cfg.Database.Mongo.Timeout = 5000
	}
	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 10
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 2
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}

	if cfg.Preferences.Backend == "" {
		cfg.Preferences.Backend = "memory"
	}

	if cfg.Dispatch.DefaultThreshold == 0 {
		cfg.Dispatch.DefaultThreshold = 0.5
	}
	if cfg.Dispatch.LowConfidencePolicy == "" {
		cfg.Dispatch.LowConfidencePolicy = PolicyDowngrade
	}
	if cfg.Dispatch.DefaultUser == "" {
		cfg.Dispatch.DefaultUser = "default"
	}

	if cfg.Classifier.Provider == "" {
		cfg.Classifier.Provider = "zeroshot"
	}
	if len(cfg.Classifier.Labels) == 0 {
		cfg.Classifier.Labels = append([]string(nil), DefaultLabels...)
	}
	if cfg.Classifier.Timeout == 0 {
		cfg.Classifier.Timeout = 30000
	}

	if cfg.LLM.Mode == "" {
		cfg.LLM.Mode = "http"
	}
	if cfg.LLM.BaseURL == "" {
		cfg.LLM.BaseURL = "http://localhost:11434"
	}
	if cfg.LLM.Model == "" {
		cfg.LLM.Model = "dolphin3"
	}
	if cfg.LLM.Command == "" {
		cfg.LLM.Command = "ollama"
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = 60000
	}

	if cfg.Google.TokenDir == "" {
		cfg.Google.TokenDir = "tokens"
	}
	if cfg.Google.Timezone == "" {
		cfg.Google.Timezone = "UTC"
	}
	if cfg.Google.CalendarID == "" {
		cfg.Google.CalendarID = "primary"
	}
	if cfg.Google.TaskListID == "" {
		cfg.Google.TaskListID = "@default"
	}
	if cfg.Google.RedirectPort == 0 {
		cfg.Google.RedirectPort = 8765
	}

	if cfg.APIs.WebSearch.BaseURL == "" {
		cfg.APIs.WebSearch.BaseURL = "https://www.googleapis.com/customsearch/v1"
	}
	if cfg.APIs.WebSearch.MaxResults == 0 {
		cfg.APIs.WebSearch.MaxResults = 5
	}
	if cfg.APIs.WebSearch.Timeout == 0 {
		cfg.APIs.WebSearch.Timeout = 10000
	}

	if cfg.Sheets.SheetName == "" {
		cfg.Sheets.SheetName = "Sheet1"
	}
	if cfg.Sheets.DateColumn == "" {
		cfg.Sheets.DateColumn = "Completed Date"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	if cfg.Observability.ServiceName == "" {
		cfg.Observability.ServiceName = cfg.App.Name
	}
	if cfg.Observability.SampleRatio == 0 {
		cfg.Observability.SampleRatio = 1
	}

	if cfg.Tools == nil {
		cfg.Tools = map[string]ToolConfig{}
	}
	for name, tool := range cfg.Tools {
		if tool.Timeout == 0 {
			tool.Timeout = 120000
		}
		cfg.Tools[name] = tool
	}
}

func validateConfig(cfg *Config) error {
	switch cfg.Preferences.Backend {
	case "memory":
	case "redis":
		if cfg.Database.Redis.Address == "" {
			return fmt.Errorf("database.redis.address is required for the redis preference backend")
		}
	case "mongo":
		if cfg.Database.Mongo.URI == "" {
			return fmt.Errorf("database.mongo.uri is required for the mongo preference backend")
		}
	case "postgres":
		if cfg.Database.Postgres.Host == "" || cfg.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.host and database.postgres.database are required for the postgres preference backend")
		}
	default:
		return fmt.Errorf("unknown preferences.backend %q", cfg.Preferences.Backend)
	}

	if cfg.Dispatch.DefaultThreshold < 0 || cfg.Dispatch.DefaultThreshold > 1 {
		return fmt.Errorf("dispatch.default_threshold must be within [0,1], got %v", cfg.Dispatch.DefaultThreshold)
	}
	if cfg.Dispatch.LowConfidencePolicy != PolicyDowngrade && cfg.Dispatch.LowConfidencePolicy != PolicyReject {
		return fmt.Errorf("dispatch.low_confidence_policy must be %q or %q", PolicyDowngrade, PolicyReject)
	}

	switch cfg.Classifier.Provider {
	case "zeroshot":
		if cfg.Classifier.BaseURL == "" {
			return fmt.Errorf("classifier.base_url is required for the zeroshot provider")
		}
	case "llm":
	default:
		return fmt.Errorf("unknown classifier.provider %q", cfg.Classifier.Provider)
	}
	if !containsLabel(cfg.Classifier.Labels, "unknown") {
		return fmt.Errorf("classifier.labels must include \"unknown\"")
	}

	if cfg.LLM.Mode != "http" && cfg.LLM.Mode != "command" {
		return fmt.Errorf("llm.mode must be \"http\" or \"command\"")
	}
	return nil
}

func containsLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetToolConfig retrieves tool-specific configuration with fallback to defaults.
func GetToolConfig(cfg *Config, toolName string) ToolConfig {
	if tool, exists := cfg.Tools[toolName]; exists {
		return tool
	}
	return ToolConfig{Enabled: true, Timeout: 120000}
}

// IsToolEnabled reports whether a tool is enabled. Unlisted tools are enabled.
func IsToolEnabled(cfg *Config, toolName string) bool {
	if tool, exists := cfg.Tools[toolName]; exists {
		return tool.Enabled
	}
	return true
}
