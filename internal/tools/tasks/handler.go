// Package tasks creates and lists Google Tasks.
package tasks

import (
	"context"
	"fmt"
	"strings"
	"time"

	gtasks "google.golang.org/api/tasks/v1"

	"orianna-agent/internal/common/validation"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/models"
	"orianna-agent/internal/tools/toolkit"
)

const (
	ToolName = "tasks_tool"

	ActionCreateTask = "create_task"
	ActionListTasks  = "list_tasks"

	IntentCreateTask = "create task"
	IntentListTasks  = "list tasks"
)

const schemaPrompt = `You are a parameter-extraction assistant for creating tasks.
Output ONLY JSON with fields:
{
  "title": "<string>",
  "notes": "<string or empty>",
  "due": "<RFC3339 date or empty>"
}
No extra text.`

var createTaskSchema = validation.Object(map[string]validation.Schema{
	"title": validation.NonEmptyString(),
	"notes": validation.String(),
	"due":   validation.String(),
}, "title")

type Handler struct {
	toolkit.Base
	config  *Config
	connect Connector
}

func NewHandler(config *Config, extractor llm.ParameterExtractor, connect Connector, log toolkit.Logger) *Handler {
	if config.TaskListID == "" {
		config.TaskListID = "@default"
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
	return intent == IntentCreateTask || intent == IntentListTasks
}

func (h *Handler) SchemaPrompt() string { return schemaPrompt }

func (h *Handler) Intents() []string { return []string{IntentCreateTask, IntentListTasks} }

func (h *Handler) Actions() []string { return []string{ActionCreateTask, ActionListTasks} }

func (h *Handler) Execute(ctx context.Context, text, intent string) models.Decision {
	switch intent {
	case IntentCreateTask:
		return h.createTask(ctx, text)
	case IntentListTasks:
		return h.listTasks(ctx)
	}
	return toolkit.UnknownIntent(ToolName, "TasksTool", intent)
}

func (h *Handler) createTask(ctx context.Context, text string) models.Decision {
	var input CreateTaskInput
	if d := h.ExtractArgs(ctx, ActionCreateTask, schemaPrompt, createTaskSchema, text, &input); d != nil {
		return *d
	}

	task := &gtasks.Task{Title: input.Title, Notes: input.Notes}
	if input.Due != "" {
		due, err := NormalizeDue(input.Due)
		if err != nil {
			return toolkit.ValidationError(ToolName, ActionCreateTask, err)
		}
		task.Due = due
	}

	api, err := h.connect(ctx)
	if err != nil {
		return toolkit.APIError(ToolName, ActionCreateTask, "Tasks", err)
	}
	created, err := api.Insert(ctx, h.config.TaskListID, task)
	if err != nil {
		h.Logger.Error("Task insert failed", map[string]interface{}{"error": err.Error()})
		return toolkit.APIError(ToolName, ActionCreateTask, "Tasks", err)
	}

	h.Logger.Info("Task created", map[string]interface{}{"taskId": created.Id, "hasDue": task.Due != ""})

	return models.Decision{
		Tool:    ToolName,
		Action:  ActionCreateTask,
		Result:  created,
		Summary: fmt.Sprintf("Added %s to your tasks.", input.Title),
		Message: fmt.Sprintf("Task '%s' created.", input.Title),
	}
}

func (h *Handler) listTasks(ctx context.Context) models.Decision {
	api, err := h.connect(ctx)
	if err != nil {
		return toolkit.APIError(ToolName, ActionListTasks, "Tasks", err)
	}
	items, err := api.List(ctx, h.config.TaskListID)
	if err != nil {
		h.Logger.Error("Task list failed", map[string]interface{}{"error": err.Error()})
		return toolkit.APIError(ToolName, ActionListTasks, "Tasks", err)
	}

	return models.Decision{
		Tool:    ToolName,
		Action:  ActionListTasks,
		Result:  items,
		Summary: FormatTasks(items),
		Message: fmt.Sprintf("Found %d tasks.", len(items)),
	}
}

// NormalizeDue returns due as RFC3339. A bare date becomes midnight UTC.
func NormalizeDue(due string) (string, error) {
	due = strings.TrimSpace(due)
	if t, err := time.Parse(time.RFC3339, due); err == nil {
		return t.UTC().Format(time.RFC3339), nil
	}
	if t, err := time.Parse("2006-01-02", due); err == nil {
		return t.Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("due: %q is not an RFC3339 date", due)
}

func FormatTasks(items []*gtasks.Task) string {
	if len(items) == 0 {
		return "You have no tasks."
	}
	titles := make([]string, 0, len(items))
	for _, t := range items {
		titles = append(titles, t.Title)
	}
	return fmt.Sprintf("You have %d tasks: %s", len(items), strings.Join(titles, ", "))
}
