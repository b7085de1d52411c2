// Package mail reads recent Gmail messages.
package mail

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/gmail/v1"

	"orianna-agent/internal/common/validation"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
	"orianna-agent/internal/tools/toolkit"
)

const (
	ToolName = "gmail_tool"

	ActionCheckInbox = "check_inbox"
)

var intents = []string{"check email", "list emails", "read emails"}

const schemaPrompt = `You are a parameter-extraction assistant for checking Gmail.
Output ONLY JSON with fields:
{
  "label": "<string (inbox, spam, primary, etc.)>",
  "max_results": <integer>,
  "sender": "<string or empty>"
}
No extra text.
If user doesn't mention max, default to 5.
If user doesn't mention label, default to "inbox".`

var checkInboxSchema = validation.Object(map[string]validation.Schema{
	"label":       validation.String(),
	"max_results": validation.Integer(),
	"sender":      validation.String(),
})

type Handler struct {
	toolkit.Base
	config  *Config
	connect Connector
}

func NewHandler(config *Config, extractor llm.ParameterExtractor, connect Connector, log toolkit.Logger) *Handler {
	config.applyDefaults()
	return &Handler{
		Base: toolkit.Base{
			ToolName:  ToolName,
			Extractor: extractor,
			Logger:    log.With(map[string]interface{}{"tool": ToolName}),
		},
		config:  config,
		connect: connect,
	}
}

func (h *Handler) CanHandle(intent string) bool {
	for _, i := range intents {
		if i == intent {
			return true
		}
	}
	return false
}

func (h *Handler) SchemaPrompt() string { return schemaPrompt }

func (h *Handler) Intents() []string { return append([]string(nil), intents...) }

func (h *Handler) Actions() []string { return []string{ActionCheckInbox} }

func (h *Handler) Execute(ctx context.Context, text, intent string) models.Decision {
	if !h.CanHandle(intent) {
		return toolkit.UnknownIntent(ToolName, "GmailTool", intent)
	}

	var input CheckInboxInput
	if d := h.ExtractArgs(ctx, ActionCheckInbox, schemaPrompt, checkInboxSchema, text, &input); d != nil {
		return *d
	}

	label := ResolveLabel(input.Label)
	max := h.clampMax(input.MaxResults)

	api, err := h.connect(ctx)
	if err != nil {
		return toolkit.APIError(ToolName, ActionCheckInbox, "Gmail", err)
	}
	emails, err := h.fetch(ctx, api, label, max)
	if err != nil {
		h.Logger.Error("Gmail fetch failed", map[string]interface{}{"label": label, "error": err.Error()})
		return toolkit.APIError(ToolName, ActionCheckInbox, "Gmail", err)
	}
	emails = FilterBySender(emails, input.Sender)

	h.Logger.Info("Emails fetched", map[string]interface{}{
		"label":     label,
		"count":     len(emails),
		"hasSender": input.Sender != "",
	})

	return models.Decision{
		Tool:    ToolName,
		Action:  ActionCheckInbox,
		Result:  emails,
		Summary: FormatEmails(emails),
		Message: fmt.Sprintf("Fetched %d emails from label '%s'.", len(emails), label),
	}
}

func (h *Handler) clampMax(n int) int64 {
	if n <= 0 {
		n = h.config.DefaultMaxResults
	}
	if n > h.config.MaxResultsLimit {
		n = h.config.MaxResultsLimit
	}
	return int64(n)
}

func (h *Handler) fetch(ctx context.Context, api MessagesAPI, label string, max int64) ([]Email, error) {
	ids, err := api.List(ctx, label, max)
	if err != nil {
		return nil, err
	}
	emails := make([]Email, 0, len(ids))
	for _, id := range ids {
		msg, err := api.Get(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get message %s: %w", id, err)
		}
		emails = append(emails, toEmail(msg))
	}
	return emails, nil
}

func toEmail(msg *gmail.Message) Email {
	e := Email{ID: msg.Id, Snippet: msg.Snippet}
	if msg.Payload == nil {
		return e
	}
	for _, hdr := range msg.Payload.Headers {
		switch strings.ToLower(hdr.Name) {
		case "from":
			e.From = hdr.Value
		case "subject":
			e.Subject = hdr.Value
		}
	}
	return e
}

// FilterBySender keeps emails whose From header contains sender, ignoring case.
func FilterBySender(emails []Email, sender string) []Email {
	sender = strings.ToLower(strings.TrimSpace(sender))
	if sender == "" {
		return emails
	}
	out := emails[:0:0]
	for _, e := range emails {
		if strings.Contains(strings.ToLower(e.From), sender) {
			out = append(out, e)
		}
	}
	return out
}

func FormatEmails(emails []Email) string {
	if len(emails) == 0 {
		return "No emails found."
	}
	parts := make([]string, 0, len(emails))
	for _, e := range emails {
		subject := validation.NormalizeText(e.Subject)
		if subject == "" {
			subject = "(no subject)"
		}
		parts = append(parts, fmt.Sprintf("From %s: %s", validation.ExtractEmail(e.From), subject))
	}
	return strings.Join(parts, ", ")
}
