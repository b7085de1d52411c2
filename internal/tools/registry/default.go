package registry

import (
	"time"

	"orianna-agent/internal/common/config"
	"orianna-agent/internal/tools/calendar"
	"orianna-agent/internal/tools/mail"
	"orianna-agent/internal/tools/tasks"
	"orianna-agent/internal/tools/toolkit"
	"orianna-agent/internal/tools/transactions"
	websearch "orianna-agent/internal/tools/web-search"
)

// Tools are the dispatchable tool instances built by the caller.
type Tools struct {
	Calendar     *calendar.Handler
	Tasks        *tasks.Handler
	Mail         *mail.Handler
	WebSearch    *websearch.Handler
	Transactions *transactions.Handler
}

// Default registers calendar, tasks, mail, web search and transactions in that order,
// skipping tools disabled in cfg. Each tool is instrumented.
func Default(cfg *config.Config, t Tools) *Registry {
	candidates := []toolkit.Tool{}
	if t.Calendar != nil {
		candidates = append(candidates, t.Calendar)
	}
	if t.Tasks != nil {
		candidates = append(candidates, t.Tasks)
	}
	if t.Mail != nil {
		candidates = append(candidates, t.Mail)
	}
	if t.WebSearch != nil {
		candidates = append(candidates, t.WebSearch)
	}
	if t.Transactions != nil {
		candidates = append(candidates, t.Transactions)
	}

	enabled := make([]toolkit.Tool, 0, len(candidates))
	for _, tool := range candidates {
		var timeout time.Duration
		if cfg != nil {
			if !config.IsToolEnabled(cfg, tool.Name()) {
				continue
			}
			timeout = config.GetDuration(config.GetToolConfig(cfg, tool.Name()).Timeout)
		}
		enabled = append(enabled, toolkit.Instrument(tool, timeout))
	}
	return New(enabled...)
}
