// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig             `mapstructure:"app"`
	Server        ServerConfig          `mapstructure:"server"`
	Database      DatabaseConfig        `mapstructure:"database"`
	Preferences   PreferencesConfig     `mapstructure:"preferences"`
	Dispatch      DispatchConfig        `mapstructure:"dispatch"`
	Classifier    ClassifierConfig      `mapstructure:"classifier"`
	LLM           LLMConfig             `mapstructure:"llm"`
	Google        GoogleConfig          `mapstructure:"google"`
	APIs          APIsConfig            `mapstructure:"apis"`
	Sheets        SheetsConfig          `mapstructure:"sheets"`
	Transactions  TransactionsConfig    `mapstructure:"transactions"`
	Tools         map[string]ToolConfig `mapstructure:"tools"`
	Logging       LoggingConfig         `mapstructure:"logging"`
	Observability ObservabilityConfig   `mapstructure:"observability"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Address         string   `mapstructure:"address"`
	ReadTimeout     int      `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int      `mapstructure:"write_timeout"`    // milliseconds
	ShutdownTimeout int      `mapstructure:"shutdown_timeout"` // milliseconds
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
}

type DatabaseConfig struct {
	Redis    RedisConfig    `mapstructure:"redis"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// --- Assistant Pipeline ---

// PreferencesConfig selects the preference store backend: redis, mongo, postgres or memory.
type PreferencesConfig struct {
	Backend string `mapstructure:"backend"`
}

// DispatchConfig controls the confidence gate.
type DispatchConfig struct {
	DefaultThreshold    float64 `mapstructure:"default_threshold"`
	LowConfidencePolicy string  `mapstructure:"low_confidence_policy"` // downgrade | reject
	DefaultUser         string  `mapstructure:"default_user"`
}

// ClassifierConfig describes the intent classifier endpoint.
type ClassifierConfig struct {
	Provider string   `mapstructure:"provider"` // zeroshot | llm
	BaseURL  string   `mapstructure:"base_url"`
	APIKey   string   `mapstructure:"api_key"`
	Labels   []string `mapstructure:"labels"`
	Timeout  int      `mapstructure:"timeout"` // milliseconds
}

// LLMConfig describes the local parameter extractor.
type LLMConfig struct {
	Mode    string `mapstructure:"mode"` // http | command
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Command string `mapstructure:"command"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// GoogleConfig holds OAuth client credentials and the reference timezone.
type GoogleConfig struct {
	CredentialsFile string `mapstructure:"credentials_file"`
	TokenDir        string `mapstructure:"token_dir"`
	Timezone        string `mapstructure:"timezone"`
	CalendarID      string `mapstructure:"calendar_id"`
	TaskListID      string `mapstructure:"task_list_id"`
	RedirectPort    int    `mapstructure:"redirect_port"`
}

// APIsConfig holds settings for external API integrations.
type APIsConfig struct {
	WebSearch struct {
		BaseURL    string `mapstructure:"base_url"`
		APIKey     string `mapstructure:"api_key"`
		EngineID   string `mapstructure:"engine_id"`
		MaxResults int    `mapstructure:"max_results"`
		Timeout    int    `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"web_search"`
}

// SheetsConfig configures the out-of-band spreadsheet sync.
type SheetsConfig struct {
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	SheetName     string `mapstructure:"sheet_name"`
	LocalFile     string `mapstructure:"local_file"`
	DateColumn    string `mapstructure:"date_column"`
	Schedule      string `mapstructure:"schedule"` // cron expression with seconds, empty disables
}

// TransactionsConfig locates the bank statement export and its categorized copy.
type TransactionsConfig struct {
	InputFile  string   `mapstructure:"input_file"`
	OutputFile string   `mapstructure:"output_file"`
	Categories []string `mapstructure:"categories"`
}

// ToolConfig holds the settings applicable to every tool.
type ToolConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Timeout int  `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ObservabilityConfig configures otel metrics and tracing.
type ObservabilityConfig struct {
	ServiceName    string  `mapstructure:"service_name"`
	JaegerEndpoint string  `mapstructure:"jaeger_endpoint"`
	SampleRatio    float64 `mapstructure:"sample_ratio"`
}
