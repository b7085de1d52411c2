package main

import (
	"orianna-agent/internal/common/logger"
	"orianna-agent/internal/dispatch"
	"orianna-agent/internal/llm"
	"orianna-agent/internal/nlp"
	"orianna-agent/internal/preferences"
	"orianna-agent/internal/server"
	"orianna-agent/internal/tools/toolkit"
)

type llmLoggerAdapter struct {
	logger.Logger
}

func (a *llmLoggerAdapter) With(fields map[string]interface{}) llm.Logger {
	return &llmLoggerAdapter{a.Logger.With(fields)}
}

type nlpLoggerAdapter struct {
	logger.Logger
}

func (a *nlpLoggerAdapter) With(fields map[string]interface{}) nlp.Logger {
	return &nlpLoggerAdapter{a.Logger.With(fields)}
}

type preferencesLoggerAdapter struct {
	logger.Logger
}

func (a *preferencesLoggerAdapter) With(fields map[string]interface{}) preferences.Logger {
	return &preferencesLoggerAdapter{a.Logger.With(fields)}
}

type toolLoggerAdapter struct {
	logger.Logger
}

func (a *toolLoggerAdapter) With(fields map[string]interface{}) toolkit.Logger {
	return &toolLoggerAdapter{a.Logger.With(fields)}
}

type dispatchLoggerAdapter struct {
	logger.Logger
}

func (a *dispatchLoggerAdapter) With(fields map[string]interface{}) dispatch.Logger {
	return &dispatchLoggerAdapter{a.Logger.With(fields)}
}

type serverLoggerAdapter struct {
	logger.Logger
}

func (a *serverLoggerAdapter) With(fields map[string]interface{}) server.Logger {
	return &serverLoggerAdapter{a.Logger.With(fields)}
}
