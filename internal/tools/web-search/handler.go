// Package websearch answers open questions with a web search summarized by the local model.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	apperrors "orianna-agent/internal/common/errors"
	commonhttp "orianna-agent/internal/common/http"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
	"orianna-agent/internal/tools/toolkit"
)

const (
	ToolName = "websearch_tool"

	ActionWebSearch = "web_search"

	IntentWebSearch = "web search"
)

var ErrWebSearchTimeout = errors.New("WEB_SEARCH_TIMEOUT")

const schemaPrompt = `You are a parameter-extraction assistant for web search.
Output ONLY JSON with a single field:
{ "query": "<string representing the search query>" }
No extra text, markdown, or explanation.`

const summaryPrompt = `You are a summarization assistant. Given the search results, summarize the key information clearly and concisely.
Output ONLY JSON:
{ "summary": "<concise summary of the search results>" }
No extra text, markdown, or explanation.`

const maxSearchResults = 10

type Handler struct {
	toolkit.Base
	config *Config
	client *commonhttp.Client
}

func NewHandler(config *Config, extractor llm.ParameterExtractor, log toolkit.Logger) *Handler {
	// Custom Search rejects num outside 1..10.
	switch {
	case config.MaxResults <= 0:
		config.MaxResults = 5
	case config.MaxResults > maxSearchResults:
		config.MaxResults = maxSearchResults
	}
	return &Handler{
		Base: toolkit.Base{
			ToolName:  ToolName,
			Extractor: extractor,
			Logger:    log.With(map[string]interface{}{"tool": ToolName}),
		},
		config: config,
		client: commonhttp.NewClient(config.Timeout),
	}
}

// CanHandle also accepts "unknown" so unclassified questions fall back to search.
func (h *Handler) CanHandle(intent string) bool {
	return intent == IntentWebSearch || intent == models.IntentUnknown
}

func (h *Handler) SchemaPrompt() string { return schemaPrompt }

func (h *Handler) Intents() []string { return []string{IntentWebSearch, models.IntentUnknown} }

func (h *Handler) Actions() []string { return []string{ActionWebSearch} }

func (h *Handler) Execute(ctx context.Context, text, intent string) models.Decision {
	if !h.CanHandle(intent) {
		return toolkit.UnknownIntent(ToolName, "WebSearchTool", intent)
	}

	sources, err := h.search(ctx, text)
	if err != nil {
		h.Failure("Web search failed", ActionWebSearch, apperrors.NewWebSearchFailedError(err))
		return models.Decision{
			Tool:    ToolName,
			Action:  ActionWebSearch,
			Message: fmt.Sprintf("Search failed: %v", err),
		}
	}

	summary := h.summarize(ctx, sources)

	h.Logger.Info("Web search completed", map[string]interface{}{
		"resultCount": len(sources),
		"summarized":  summary != "",
	})

	return models.Decision{
		Tool:    ToolName,
		Action:  ActionWebSearch,
		Result:  sources,
		Summary: summary,
		Message: fmt.Sprintf("Web search completed and summarized for query: '%s'.", text),
	}
}

func (h *Handler) search(ctx context.Context, query string) ([]Source, error) {
	var resp searchResponse
	if err := h.client.GetJSON(ctx, h.buildSearchURL(query), &resp); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrWebSearchTimeout
		}
		return nil, err
	}

	sources := make([]Source, 0, len(resp.Items))
	for _, item := range resp.Items {
		snippet := item.Snippet
		if snippet == "" {
			snippet = "No description available."
		}
		sources = append(sources, Source{Title: item.Title, Link: item.Link, Snippet: snippet})
	}
	return sources, nil
}

func (h *Handler) buildSearchURL(query string) string {
	base, err := url.Parse(h.config.SearchAPIBaseURL)
	if err != nil {
		base = &url.URL{}
	}
	params := url.Values{}
	params.Add("key", h.config.SearchAPIKey)
	params.Add("cx", h.config.SearchEngineID)
	params.Add("q", query)
	params.Add("num", strconv.Itoa(h.config.MaxResults))
	base.RawQuery = params.Encode()
	return base.String()
}

// summarize asks the model for a short summary. When the model fails the
// first snippet stands in.
func (h *Handler) summarize(ctx context.Context, sources []Source) string {
	if len(sources) == 0 {
		return "I couldn't find anything on the web for that."
	}

	raw, _ := json.Marshal(sources)
	res := h.Extractor.Extract(ctx, fmt.Sprintf("%s\nSearch results:\n%s", summaryPrompt, raw))
	if !res.Failed() {
		if s, ok := res.Fields["summary"].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}

	reason := res.Err
	if reason == "" {
		reason = "summary field missing"
	}
	h.Failure("Summarization unavailable, using first snippet", ActionWebSearch, toolkit.ExtractionFailure(reason))
	return sources[0].Snippet
}
