// Package calendar creates and lists Google Calendar events.
package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"

	"orianna-agent/internal/common/validation"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
	"orianna-agent/internal/tools/toolkit"
)

const (
	ToolName = "calendar_tool"

	ActionCreateEvent = "create_event"
	ActionListEvents  = "list_events"

	IntentCreateEvent = "create calendar event"
	IntentListEvents  = "list calendar events"
	IntentListShort   = "list calendar"
)

const schemaPrompt = `You are a parameter-extraction assistant for creating calendar events.
Output ONLY JSON with fields:
{
  "summary": "<string>",
  "start_time": "<ISO8601 datetime>",
  "end_time": "<ISO8601 datetime or empty>",
  "location": "<string or empty>",
  "description": "<string or empty>"
}
No extra text.`

var createEventSchema = validation.Object(map[string]validation.Schema{
	"summary":     validation.NonEmptyString(),
	"start_time":  validation.NonEmptyString(),
	"end_time":    validation.String(),
	"location":    validation.String(),
	"description": validation.String(),
}, "summary", "start_time")

type Handler struct {
	toolkit.Base
	config  *Config
	connect Connector
}

func NewHandler(config *Config, extractor llm.ParameterExtractor, connect Connector, log toolkit.Logger) *Handler {
	if config.CalendarID == "" {
		config.CalendarID = "primary"
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 10
	}
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
	switch intent {
	case IntentCreateEvent, IntentListEvents, IntentListShort:
		return true
	}
	return false
}

func (h *Handler) SchemaPrompt() string {
	return schemaPrompt
}

func (h *Handler) Intents() []string {
	return []string{IntentCreateEvent, IntentListEvents, IntentListShort}
}

func (h *Handler) Actions() []string {
	return []string{ActionCreateEvent, ActionListEvents}
}

func (h *Handler) Execute(ctx context.Context, text, intent string) models.Decision {
	switch intent {
	case IntentCreateEvent:
		return h.createEvent(ctx, text)
	case IntentListEvents, IntentListShort:
		return h.listEvents(ctx, text)
	}
	return toolkit.UnknownIntent(ToolName, "CalendarTool", intent)
}

func (h *Handler) createEvent(ctx context.Context, text string) models.Decision {
	var input CreateEventInput
	if d := h.ExtractArgs(ctx, ActionCreateEvent, schemaPrompt, createEventSchema, text, &input); d != nil {
		return *d
	}

	loc := h.config.location()
	start, err := ParseTime(input.StartTime, loc)
	if err != nil {
		return h.decision(ActionCreateEvent, "Could not parse start_time for the event.")
	}

	var rolled bool
	start, rolled = RollForward(start, h.Now())

	end := start.Add(time.Hour)
	if input.EndTime != "" {
		parsed, err := ParseTime(input.EndTime, loc)
		if err != nil {
			return h.decision(ActionCreateEvent, "Could not parse end_time for the event.")
		}
		if rolled {
			parsed = parsed.AddDate(0, 0, 7)
		}
		if parsed.After(start) {
			end = parsed
		}
	}

	event := &gcal.Event{
		Summary:     input.Summary,
		Location:    input.Location,
		Description: input.Description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: loc.String()},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: loc.String()},
	}

	api, err := h.connect(ctx)
	if err != nil {
		return toolkit.APIError(ToolName, ActionCreateEvent, "Calendar", err)
	}
	created, err := api.Insert(ctx, h.config.CalendarID, event)
	if err != nil {
		h.Logger.Error("Calendar insert failed", map[string]interface{}{"error": err.Error()})
		return toolkit.APIError(ToolName, ActionCreateEvent, "Calendar", err)
	}

	h.Logger.Info("Event created", map[string]interface{}{
		"eventId":      created.Id,
		"start":        event.Start.DateTime,
		"rolledAhead":  rolled,
		"defaultedEnd": input.EndTime == "",
	})

	return models.Decision{
		Tool:    ToolName,
		Action:  ActionCreateEvent,
		Result:  created,
		Summary: fmt.Sprintf("%s is scheduled for %s.", input.Summary, start.Format("Mon 2 Jan 3:04 PM")),
		Message: fmt.Sprintf("Event '%s' created.", input.Summary),
	}
}

func (h *Handler) listEvents(ctx context.Context, text string) models.Decision {
	loc := h.config.location()
	label, from, to := ContextWindow(text, h.Now(), loc)

	api, err := h.connect(ctx)
	if err != nil {
		return toolkit.APIError(ToolName, ActionListEvents, "Calendar", err)
	}
	events, err := api.List(ctx, h.config.CalendarID, from.UTC(), to.UTC(), h.config.MaxResults)
	if err != nil {
		h.Logger.Error("Calendar list failed", map[string]interface{}{"error": err.Error()})
		return toolkit.APIError(ToolName, ActionListEvents, "Calendar", err)
	}

	h.Logger.Info("Events listed", map[string]interface{}{"window": label, "count": len(events)})

	return models.Decision{
		Tool:    ToolName,
		Action:  ActionListEvents,
		Result:  events,
		Summary: FormatEvents(events, loc),
		Message: fmt.Sprintf("Found %d upcoming events.", len(events)),
	}
}

func (h *Handler) decision(action, message string) models.Decision {
	return models.Decision{Tool: ToolName, Action: action, Message: message}
}
