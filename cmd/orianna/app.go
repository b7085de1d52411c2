package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"
	gtasks "google.golang.org/api/tasks/v1"

	"orianna-agent/internal/common/auth"
	"orianna-agent/internal/common/config"
	"orianna-agent/internal/common/logger"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/nlp"
	"orianna-agent/internal/tools/calendar"
	"orianna-agent/internal/tools/mail"
	"orianna-agent/internal/tools/registry"
	sheetssync "orianna-agent/internal/tools/sheets-sync"
	"orianna-agent/internal/tools/tasks"
	"orianna-agent/internal/tools/transactions"
	websearch "orianna-agent/internal/tools/web-search"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			select {
			case <-ctx.Done():
				return fmt.Errorf("%s interrupted: %w", operationName, ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func newExtractor(cfg *config.Config, log logger.Logger) llm.ParameterExtractor {
	return llm.New(cfg.LLM.Mode, &llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Command: cfg.LLM.Command,
		Timeout: config.GetDuration(cfg.LLM.Timeout),
	}, &llmLoggerAdapter{log})
}

func newClassifier(cfg *config.Config, extractor llm.ParameterExtractor, log logger.Logger) (nlp.Classifier, error) {
	switch cfg.Classifier.Provider {
	case "zeroshot":
		return nlp.NewZeroShotClassifier(&nlp.Config{
			BaseURL: cfg.Classifier.BaseURL,
			APIKey:  cfg.Classifier.APIKey,
			Timeout: config.GetDuration(cfg.Classifier.Timeout),
		}, &nlpLoggerAdapter{log}), nil
	case "llm":
		return nlp.NewLLMClassifier(extractor, &nlpLoggerAdapter{log}), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Classifier.Provider)
	}
}

func newAuthorizer(cfg *config.Config, log logger.Logger) *auth.GoogleAuthorizer {
	return auth.NewGoogleAuthorizer(
		cfg.Google.CredentialsFile,
		auth.NewFileStore(cfg.Google.TokenDir),
		cfg.Google.RedirectPort,
		log,
	)
}

func calendarConnector(a *auth.GoogleAuthorizer) calendar.Connector {
	return func(ctx context.Context) (calendar.EventsAPI, error) {
		opt, err := a.ClientOption(ctx, "calendar")
		if err != nil {
			return nil, err
		}
		svc, err := gcal.NewService(ctx, opt)
		if err != nil {
			return nil, err
		}
		return calendar.NewServiceAPI(svc), nil
	}
}

func tasksConnector(a *auth.GoogleAuthorizer) tasks.Connector {
	return func(ctx context.Context) (tasks.TasksAPI, error) {
		opt, err := a.ClientOption(ctx, "tasks")
		if err != nil {
			return nil, err
		}
		svc, err := gtasks.NewService(ctx, opt)
		if err != nil {
			return nil, err
		}
		return tasks.NewServiceAPI(svc), nil
	}
}

func mailConnector(a *auth.GoogleAuthorizer) mail.Connector {
	return func(ctx context.Context) (mail.MessagesAPI, error) {
		opt, err := a.ClientOption(ctx, "gmail")
		if err != nil {
			return nil, err
		}
		svc, err := gmail.NewService(ctx, opt)
		if err != nil {
			return nil, err
		}
		return mail.NewServiceAPI(svc), nil
	}
}

func sheetsConnector(a *auth.GoogleAuthorizer) sheetssync.Connector {
	return func(ctx context.Context) (sheetssync.ValuesAPI, error) {
		opt, err := a.ClientOption(ctx, "sheets")
		if err != nil {
			return nil, err
		}
		svc, err := sheets.NewService(ctx, opt)
		if err != nil {
			return nil, err
		}
		return sheetssync.NewServiceAPI(svc), nil
	}
}

// newTools builds every dispatchable tool. Disabled tools are filtered later
// by registry.Default.
func newTools(cfg *config.Config, extractor llm.ParameterExtractor, classifier nlp.Classifier, a *auth.GoogleAuthorizer, log logger.Logger) (registry.Tools, error) {
	loc, err := time.LoadLocation(cfg.Google.Timezone)
	if err != nil {
		return registry.Tools{}, fmt.Errorf("google.timezone: %w", err)
	}
	toolLog := &toolLoggerAdapter{log}

	return registry.Tools{
		Calendar: calendar.NewHandler(&calendar.Config{
			CalendarID: cfg.Google.CalendarID,
			Location:   loc,
		}, extractor, calendarConnector(a), toolLog),
		Tasks: tasks.NewHandler(&tasks.Config{
			TaskListID: cfg.Google.TaskListID,
		}, extractor, tasksConnector(a), toolLog),
		Mail: mail.NewHandler(&mail.Config{}, extractor, mailConnector(a), toolLog),
		WebSearch: websearch.NewHandler(&websearch.Config{
			SearchAPIBaseURL: cfg.APIs.WebSearch.BaseURL,
			SearchAPIKey:     cfg.APIs.WebSearch.APIKey,
			SearchEngineID:   cfg.APIs.WebSearch.EngineID,
			MaxResults:       cfg.APIs.WebSearch.MaxResults,
			Timeout:          config.GetDuration(cfg.APIs.WebSearch.Timeout),
		}, extractor, toolLog),
		Transactions: newTransactions(cfg, classifier, a, log),
	}, nil
}

func newTransactions(cfg *config.Config, classifier nlp.Classifier, a *auth.GoogleAuthorizer, log logger.Logger) *transactions.Handler {
	return transactions.NewHandler(&transactions.Config{
		InputFile:  cfg.Transactions.InputFile,
		OutputFile: cfg.Transactions.OutputFile,
		Categories: cfg.Transactions.Categories,
	}, classifier, newSheetsSync(cfg, a, log), &toolLoggerAdapter{log})
}

func newSheetsSync(cfg *config.Config, a *auth.GoogleAuthorizer, log logger.Logger) *sheetssync.Handler {
	return sheetssync.NewHandler(&sheetssync.Config{
		SpreadsheetID: cfg.Sheets.SpreadsheetID,
		SheetName:     cfg.Sheets.SheetName,
		LocalFile:     cfg.Sheets.LocalFile,
		DateColumn:    cfg.Sheets.DateColumn,
	}, sheetsConnector(a), &toolLoggerAdapter{log})
}
