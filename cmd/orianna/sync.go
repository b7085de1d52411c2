package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSyncSheetsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "sync-sheets",
		Short: "Append new local spreadsheet rows to the remote sheet once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer zapLog.Sync()

			out, err := newSheetsSync(cfg, newAuthorizer(cfg, log), log).Run(cmd.Context(), file)
			fmt.Fprintln(cmd.OutOrStdout(), out.Message)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "local .xlsx or .csv file (default sheets.local_file)")
	return cmd
}
