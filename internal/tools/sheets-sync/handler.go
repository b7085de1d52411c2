// Package sheetssync appends newly completed rows from a local export to a
// Google spreadsheet. It runs out-of-band, never through intent dispatch.
package sheetssync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"google.golang.org/api/sheets/v4"

	"orianna-agent/internal/common/auth"
	apperrors "orianna-agent/internal/common/errors"
	"orianna-agent/internal/common/metrics"
	"orianna-agent/internal/models"
	"orianna-agent/internal/tools/toolkit"
)

const (
	ToolName = "GoogleSheetsTool"

	ActionUpdateSpreadsheet = "update_spreadsheet"
)

const dateOutputLayout = "2006-01-02 15:04:05"

type Handler struct {
	config  *Config
	connect Connector
	logger  toolkit.Logger
}

func NewHandler(config *Config, connect Connector, log toolkit.Logger) *Handler {
	config.applyDefaults()
	return &Handler{
		config:  config,
		connect: connect,
		logger:  log.With(map[string]interface{}{"tool": ToolName}),
	}
}

func (h *Handler) Name() string { return ToolName }

func (h *Handler) CanHandle(intent string) bool { return false }

func (h *Handler) SchemaPrompt() string { return "" }

func (h *Handler) Intents() []string { return nil }

func (h *Handler) Actions() []string { return []string{ActionUpdateSpreadsheet} }

// Execute treats text as the local file path; empty uses the configured file.
func (h *Handler) Execute(ctx context.Context, text, intent string) models.Decision {
	return h.Sync(ctx, text)
}

// Outcome is the result of one sync pass.
type Outcome struct {
	Rows     int                          `json:"rows"`
	Response *sheets.AppendValuesResponse `json:"response,omitempty"`
	Message  string                       `json:"message"`
}

// Sync runs one pass and reports it as a Decision. Failures are carried in the message.
func (h *Handler) Sync(ctx context.Context, path string) models.Decision {
	out, _ := h.Run(ctx, path)
	var result interface{}
	if out.Response != nil {
		result = out.Response
	}
	return models.Decision{Tool: ToolName, Action: ActionUpdateSpreadsheet, Result: result, Message: out.Message}
}

// Run appends the rows of path newer than the latest date already online.
// The returned error is a *errors.StandardError; "nothing new" is not an error.
func (h *Handler) Run(ctx context.Context, path string) (Outcome, error) {
	if path == "" {
		path = h.config.LocalFile
	}
	if _, err := os.Stat(path); path == "" || err != nil {
		return h.failed(fmt.Sprintf("Local file '%s' not found.", path), fmt.Errorf("local file %q: %w", path, os.ErrNotExist))
	}

	local, err := ReadLocal(path)
	if err != nil {
		return h.failed(fmt.Sprintf("Could not read local file '%s': %v", path, err), err)
	}
	if len(local) < 2 {
		return Outcome{Message: "No new rows to update."}, nil
	}
	dateCol := columnIndex(local[0], h.config.DateColumn)
	if dateCol < 0 {
		return h.failed(fmt.Sprintf("Column '%s' not found in '%s'.", h.config.DateColumn, path),
			fmt.Errorf("column %q missing", h.config.DateColumn))
	}

	api, err := h.connect(ctx)
	if err != nil {
		return h.apiFailed(err)
	}
	online, err := api.Get(ctx, h.config.SpreadsheetID, h.config.SheetName+"!A:Z")
	if err != nil {
		h.logger.Error("Reading spreadsheet failed", map[string]interface{}{"error": err.Error()})
		return h.apiFailed(err)
	}

	latest := LatestDate(online, h.config.DateColumn)
	rows := NewRows(local[1:], dateCol, latest)
	if len(rows) == 0 {
		return Outcome{Message: "No new rows to update."}, nil
	}

	res, err := api.Append(ctx, h.config.SpreadsheetID, h.config.SheetName+"!A1", rows)
	if err != nil {
		h.logger.Error("Appending rows failed", map[string]interface{}{"error": err.Error(), "rows": len(rows)})
		return h.apiFailed(err)
	}

	metrics.SheetRowsAppended.Add(float64(len(rows)))
	h.logger.Info("Spreadsheet updated", map[string]interface{}{
		"rows":         len(rows),
		"latestOnline": latest.Format(dateOutputLayout),
	})
	return Outcome{Rows: len(rows), Response: res, Message: fmt.Sprintf("Appended %d new rows.", len(rows))}, nil
}

func (h *Handler) failed(message string, err error) (Outcome, error) {
	return Outcome{Message: message}, apperrors.NewSheetSyncFailedError(err)
}

// apiFailed maps a missing or unusable token to OAUTH_TOKEN_INVALID so the
// CLI can point at "orianna authorize sheets".
func (h *Handler) apiFailed(err error) (Outcome, error) {
	out := Outcome{Message: toolkit.APIError(ToolName, ActionUpdateSpreadsheet, "Sheets", err).Message}
	if errors.Is(err, auth.ErrAuthorizationRequired) {
		return out, apperrors.NewOAuthTokenInvalidError("sheets", err)
	}
	return out, apperrors.NewSheetSyncFailedError(err)
}

// LatestDate returns the newest parseable value in the named column of the
// remote rows, or the zero time when there is none.
func LatestDate(values [][]interface{}, column string) time.Time {
	var latest time.Time
	if len(values) < 2 {
		return latest
	}
	header := make([]string, len(values[0]))
	for i, v := range values[0] {
		header[i] = fmt.Sprint(v)
	}
	col := columnIndex(header, column)
	if col < 0 {
		return latest
	}
	for _, row := range values[1:] {
		if len(row) <= col {
			continue
		}
		if t, ok := ParseDate(fmt.Sprint(row[col])); ok && t.After(latest) {
			latest = t
		}
	}
	return latest
}

// NewRows keeps local rows dated strictly after latest. The date cell is
// rewritten in a layout Sheets parses back.
func NewRows(rows [][]string, dateCol int, latest time.Time) [][]interface{} {
	var out [][]interface{}
	for _, row := range rows {
		if len(row) <= dateCol {
			continue
		}
		t, ok := ParseDate(row[dateCol])
		if !ok || !t.After(latest) {
			continue
		}
		cells := make([]interface{}, len(row))
		for i, c := range row {
			cells[i] = c
		}
		cells[dateCol] = t.Format(dateOutputLayout)
		out = append(out, cells)
	}
	return out
}
