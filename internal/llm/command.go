package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// runFunc executes a process and returns its stdout.
type runFunc func(ctx context.Context, name string, args ...string) (stdout []byte, stderr []byte, err error)

func execRun(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CommandExtractor runs `<command> run <model> <prompt>` and parses stdout as JSON.
type CommandExtractor struct {
	config *Config
	run    runFunc
	logger Logger
}

func NewCommandExtractor(config *Config, log Logger) *CommandExtractor {
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	if config.Command == "" {
		config.Command = "ollama"
	}
	return &CommandExtractor{
		config: config,
		run:    execRun,
		logger: log.With(map[string]interface{}{
			"extractor": "command",
			"model":     config.Model,
		}),
	}
}

func (e *CommandExtractor) Extract(ctx context.Context, prompt string) Result {
	ctx, cancel := context.WithTimeout(ctx, e.config.Timeout)
	defer cancel()

	stdout, stderr, err := e.run(ctx, e.config.Command, "run", e.config.Model, prompt)
	if err != nil {
		msg := errorText(ctx, err)
		if msg != ReasonTimeout {
			if detail := strings.TrimSpace(string(stderr)); detail != "" {
				msg = fmt.Sprintf("%s: %s", msg, truncate(detail, 200))
			}
		}
		e.logger.Warn("llm command failed", map[string]interface{}{"error": msg})
		return Result{Err: msg}
	}
	return resultFromOutput(string(stdout))
}
