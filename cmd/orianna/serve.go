package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	rcron "github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"orianna-agent/internal/common/config"
	"orianna-agent/internal/common/logger"
	"orianna-agent/internal/common/observability"
	"orianna-agent/internal/dispatch"
	"orianna-agent/internal/preferences"
	"orianna-agent/internal/server"
	"orianna-agent/internal/tools/registry"
	sheetssync "orianna-agent/internal/tools/sheets-sync"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg, zapLog, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer zapLog.Sync()

	zapLog.Info("Starting orianna agent...", zap.String("environment", cfg.App.Environment))

	obs := observability.New(observability.Options{
		ServiceName:    cfg.Observability.ServiceName,
		JaegerEndpoint: cfg.Observability.JaegerEndpoint,
		SampleRatio:    cfg.Observability.SampleRatio,
	}, log)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Preference store with retry ---
	var backend *preferences.Backend
	err = retryWithBackoff(ctx, func() error {
		var err error
		backend, err = preferences.Open(ctx, cfg, &preferencesLoggerAdapter{log})
		return err
	}, 10, 2*time.Second, zapLog, "Preference store connection")
	if err != nil {
		return err
	}
	defer backend.Close(context.Background())
	zapLog.Info("Preference store connected", zap.String("backend", backend.Name))

	// --- Classifier, extractor and tools ---
	extractor := newExtractor(cfg, log)
	classifier, err := newClassifier(cfg, extractor, log)
	if err != nil {
		return err
	}

	authorizer := newAuthorizer(cfg, log)
	tools, err := newTools(cfg, extractor, classifier, authorizer, log)
	if err != nil {
		return err
	}
	reg := registry.Default(cfg, tools)
	zapLog.Info("Tools registered", zap.Strings("tools", reg.Names()))

	dispatcher := dispatch.New(&dispatch.Config{
		Labels:           cfg.Classifier.Labels,
		DefaultThreshold: cfg.Dispatch.DefaultThreshold,
		Policy:           cfg.Dispatch.LowConfidencePolicy,
		DefaultUser:      cfg.Dispatch.DefaultUser,
	}, classifier, backend.Store, reg, &dispatchLoggerAdapter{log})

	// --- Scheduled spreadsheet sync ---
	if cfg.Sheets.Schedule != "" {
		scheduler, err := startSheetsSchedule(ctx, cfg, newSheetsSync(cfg, authorizer, log), log)
		if err != nil {
			return err
		}
		defer func() { <-scheduler.Stop().Done() }()
	}

	srv := server.New(&server.Config{
		Address:         cfg.Server.Address,
		ReadTimeout:     config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout:    config.GetDuration(cfg.Server.WriteTimeout),
		ShutdownTimeout: config.GetDuration(cfg.Server.ShutdownTimeout),
		AllowedOrigins:  cfg.Server.AllowedOrigins,
	}, dispatcher, backend.Store, obs, &serverLoggerAdapter{log})

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("http server: %w", err)
	}
	zapLog.Info("Orianna agent stopped")
	return nil
}

func startSheetsSchedule(ctx context.Context, cfg *config.Config, sync *sheetssync.Handler, log logger.Logger) (*rcron.Cron, error) {
	c := rcron.New(rcron.WithSeconds())
	_, err := c.AddFunc(cfg.Sheets.Schedule, func() {
		d := sync.Sync(ctx, "")
		log.Info("Scheduled spreadsheet sync finished", map[string]interface{}{
			"action":  d.Action,
			"message": d.Message,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("sheets.schedule %q: %w", cfg.Sheets.Schedule, err)
	}
	c.Start()
	log.Info("Spreadsheet sync scheduled", map[string]interface{}{"schedule": cfg.Sheets.Schedule})
	return c, nil
}
