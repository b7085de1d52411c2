package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "orianna-agent/internal/common/errors"
	commonhttp "orianna-agent/internal/common/http"
	"orianna-agent/internal/models"
)

func newAskCmd() *cobra.Command {
	var (
		serverURL string
		userID    string
		timeout   time.Duration
		raw       bool
	)
	cmd := &cobra.Command{
		Use:   "ask <text>",
		Short: "Send an utterance to a running server and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			body := map[string]string{"text": text}
			if userID != "" {
				body["user_id"] = userID
			}

			var resp models.ProcessResponse
			url := strings.TrimRight(serverURL, "/") + "/process"
			if err := commonhttp.NewClient(timeout).PostJSON(ctx, url, body, &resp); err != nil {
				return askError(err)
			}

			out := cmd.OutOrStdout()
			if raw {
				fmt.Fprintf(out, "intent=%s confidence=%.2f tool=%s action=%s\n",
					resp.Parsed.Intent, resp.Parsed.Confidence, resp.Decision.Tool, resp.Decision.Action)
			}
			fmt.Fprintln(out, reply(resp.Decision))
			return nil
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "base URL of the running server")
	cmd.Flags().StringVarP(&userID, "user", "u", "", "user id sent with the request")
	cmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "request timeout")
	cmd.Flags().BoolVar(&raw, "verbose", false, "also print intent, confidence, tool and action")
	return cmd
}

// askError turns a failed call into a StandardError: the server's own error
// body when it sent one, otherwise a transport failure.
func askError(err error) error {
	var statusErr *commonhttp.StatusError
	if errors.As(err, &statusErr) {
		var body apperrors.ErrorResponse
		if json.Unmarshal([]byte(statusErr.Body), &body) == nil && body.Error != nil && body.Error.Code != "" {
			return body.Error
		}
	}
	return apperrors.NewExternalAPIError("orianna server", err)
}

// reply picks what a voice front end would speak: the summary when present,
// otherwise the message.
func reply(d models.Decision) string {
	if d.Summary != "" {
		return d.Summary
	}
	return d.Message
}
