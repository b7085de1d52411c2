package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"orianna-agent/internal/tools/registry"
	manifest "orianna-agent/pkg/registry"
)

func newToolsCmd() *cobra.Command {
	var (
		export   string
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Print or export the tool manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, zapLog, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer zapLog.Sync()

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
			m := registry.Default(cfg, tools).Manifest(time.Now().UTC(), newSheetsSync(cfg, authorizer, log))

			if validate {
				if err := m.Validate(); err != nil {
					return fmt.Errorf("manifest invalid: %w", err)
				}
			}
			if export != "" {
				if err := manifest.SaveManifest(m, export); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Manifest with %d tools written to %s\n", len(m.Tools), export)
				return nil
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m)
		},
	}
	cmd.Flags().StringVarP(&export, "export", "o", "", "write the manifest to this path")
	cmd.Flags().BoolVar(&validate, "validate", false, "fail when the manifest is inconsistent")
	return cmd
}
