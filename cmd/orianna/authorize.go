package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"orianna-agent/internal/common/auth"
)

func newAuthorizeCmd() *cobra.Command {
	names := make([]string, 0, len(auth.APIScopes))
	for name := range auth.APIScopes {
		names = append(names, name)
	}
	sort.Strings(names)

	return &cobra.Command{
		Use:       fmt.Sprintf("authorize <%s>", strings.Join(names, "|")),
		Short:     "Grant access to a Google API and store the token",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer zapLog.Sync()

			out := cmd.OutOrStdout()
			_, err = newAuthorizer(cfg, log).Authorize(cmd.Context(), args[0], func(authURL string) {
				fmt.Fprintf(out, "Open this URL in your browser to grant access:\n\n%s\n\n", authURL)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Token for %s saved to %s\n", args[0], cfg.Google.TokenDir)
			return nil
		},
	}
}
