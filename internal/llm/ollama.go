package llm

import (
	"context"
	"strings"
	"time"

	commonhttp "orianna-agent/internal/common/http"
)

// OllamaExtractor calls the Ollama HTTP API in JSON mode.
type OllamaExtractor struct {
	config *Config
	client *commonhttp.Client
	logger Logger
}

func NewOllamaExtractor(config *Config, log Logger) *OllamaExtractor {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &OllamaExtractor{
		config: config,
		client: commonhttp.NewClient(config.Timeout),
		logger: log.With(map[string]interface{}{
			"extractor": "ollama",
			"model":     config.Model,
		}),
	}
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Format  string                 `json:"format,omitempty"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (e *OllamaExtractor) Extract(ctx context.Context, prompt string) Result {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	req := generateRequest{
		Model:   e.config.Model,
		Prompt:  prompt,
		Stream:  false,
		Format:  "json",
		Options: map[string]interface{}{"temperature": 0},
	}

	var resp generateResponse
	url := strings.TrimRight(e.config.BaseURL, "/") + "/api/generate"
	if err := e.client.PostJSON(ctx, url, req, &resp); err != nil {
		msg := errorText(ctx, err)
		e.logger.Warn("ollama generate failed", map[string]interface{}{"error": msg})
		return Result{Err: msg}
	}

	e.logger.Debug("ollama generate completed", map[string]interface{}{
		"promptLength":   len(prompt),
		"responseLength": len(resp.Response),
	})
	return resultFromOutput(resp.Response)
}
