// Package transactions categorizes a bank statement export and hands the
// result to the spreadsheet sync.
package transactions

import (
	"context"
	"fmt"
	"os"
	"strings"

	"orianna-agent/internal/models"
	"orianna-agent/internal/nlp"
	sheetssync "orianna-agent/internal/tools/sheets-sync"
	"orianna-agent/internal/tools/toolkit"
)

const (
	ToolName = "transactions_tool"

	ActionUpdateTransactions = "update_transactions"

	IntentUpdateTransactions = "update transactions"
)

// Syncer pushes a local export to the remote spreadsheet.
type Syncer interface {
	Run(ctx context.Context, path string) (sheetssync.Outcome, error)
}

type Handler struct {
	config     *Config
	classifier nlp.Classifier
	sync       Syncer
	logger     toolkit.Logger
}

// NewHandler builds the tool. sync may be nil, in which case the export is
// only written locally.
func NewHandler(config *Config, classifier nlp.Classifier, sync Syncer, log toolkit.Logger) *Handler {
	config.applyDefaults()
	return &Handler{
		config:     config,
		classifier: classifier,
		sync:       sync,
		logger:     log.With(map[string]interface{}{"tool": ToolName}),
	}
}

func (h *Handler) Name() string { return ToolName }

func (h *Handler) CanHandle(intent string) bool { return intent == IntentUpdateTransactions }

// SchemaPrompt is empty: the tool takes no arguments from the utterance.
func (h *Handler) SchemaPrompt() string { return "" }

func (h *Handler) Intents() []string { return []string{IntentUpdateTransactions} }

func (h *Handler) Actions() []string { return []string{ActionUpdateTransactions} }

func (h *Handler) Execute(ctx context.Context, text, intent string) models.Decision {
	if !h.CanHandle(intent) {
		return toolkit.UnknownIntent(ToolName, "TransactionsTool", intent)
	}
	return h.Update(ctx)
}

// Update reads the statement, assigns a category to every row, writes the
// export and syncs it. Rows categorized SKIP are left out of the export.
func (h *Handler) Update(ctx context.Context) models.Decision {
	path := h.config.InputFile
	if path == "" {
		return h.decision(nil, "Transactions file is not configured.")
	}
	if _, err := os.Stat(path); err != nil {
		return h.decision(nil, fmt.Sprintf("Transactions file '%s' not found.", path))
	}

	rows, err := sheetssync.ReadLocal(path)
	if err != nil {
		return h.decision(nil, fmt.Sprintf("Could not read transactions file '%s': %v", path, err))
	}
	if len(rows) < 2 {
		return h.decision(nil, "No transactions to categorize.")
	}

	header := make([]string, len(rows[0]))
	for i, col := range rows[0] {
		header[i] = strings.TrimSpace(col)
	}
	descCol := columnIndex(header, h.config.DescriptionColumn)
	if descCol < 0 {
		return h.decision(nil, fmt.Sprintf("Column '%s' not found in '%s'.", h.config.DescriptionColumn, path))
	}
	typeCol := columnIndex(header, h.config.TypeColumn)

	report := &Report{Output: h.config.OutputFile, ByCategory: map[string]int{}}
	out := h.categorize(ctx, header, rows[1:], descCol, typeCol, report)

	if err := WriteWorkbook(h.config.OutputFile, out); err != nil {
		h.logger.Error("Writing categorized export failed", map[string]interface{}{"error": err.Error()})
		return h.decision(nil, fmt.Sprintf("Could not write '%s': %v", h.config.OutputFile, err))
	}

	h.logger.Info("Transactions categorized", map[string]interface{}{
		"rows":         report.Rows,
		"skipped":      report.Skipped,
		"unclassified": report.Unclassified,
	})

	message := fmt.Sprintf("Categorized %d transactions into '%s'.", report.Rows, h.config.OutputFile)
	if h.sync != nil {
		outcome, err := h.sync.Run(ctx, h.config.OutputFile)
		if err != nil {
			h.logger.Warn("Spreadsheet sync after categorization failed", map[string]interface{}{"error": err.Error()})
		}
		report.Appended = outcome.Rows
		message += " " + outcome.Message
	}
	return h.decision(report, message)
}

func (h *Handler) categorize(ctx context.Context, header []string, rows [][]string, descCol, typeCol int, report *Report) [][]string {
	catCol := columnIndex(header, h.config.CategoryColumn)
	outHeader := header
	if catCol < 0 {
		outHeader = append(append([]string(nil), header...), h.config.CategoryColumn)
		catCol = len(header)
	}
	out := [][]string{outHeader}

	// Statements repeat merchants; classify each description once.
	cache := map[string]string{}
	for _, row := range rows {
		desc := cell(row, descCol)
		category, ok := RuleCategory(desc, cell(row, typeCol))
		if !ok {
			category = h.classify(ctx, desc, cache, report)
		}
		if category == CategorySkip {
			report.Skipped++
			continue
		}

		record := make([]string, len(outHeader))
		copy(record, row)
		record[catCol] = category
		out = append(out, record)
		report.Rows++
		report.ByCategory[category]++
	}
	return out
}

func (h *Handler) classify(ctx context.Context, desc string, cache map[string]string, report *Report) string {
	key := strings.ToUpper(strings.TrimSpace(desc))
	if category, ok := cache[key]; ok {
		return category
	}
	if key == "" || ctx.Err() != nil {
		return CategoryUncategorized
	}

	result, err := h.classifier.Classify(ctx, desc, h.config.Categories)
	if err != nil {
		report.Unclassified++
		h.logger.Warn("Transaction classification failed", map[string]interface{}{"error": err.Error()})
		return CategoryUncategorized
	}
	category, _ := result.Top()
	if category == "" || category == models.IntentUnknown {
		category = CategoryUncategorized
	}
	cache[key] = category
	return category
}

func (h *Handler) decision(result interface{}, message string) models.Decision {
	return models.Decision{Tool: ToolName, Action: ActionUpdateTransactions, Result: result, Message: message}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
