package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUpdateTransactionsCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "update-transactions",
		Short: "Categorize the bank statement export and sync it to the remote sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer zapLog.Sync()

			if input != "" {
				cfg.Transactions.InputFile = input
			}
			classifier, err := newClassifier(cfg, newExtractor(cfg, log), log)
			if err != nil {
				return err
			}
			d := newTransactions(cfg, classifier, newAuthorizer(cfg, log), log).Update(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), d.Message)
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "file", "f", "", "statement .xlsx or .csv file (default transactions.input_file)")
	return cmd
}
