package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/bankfeed-dev/bankfeed/internal/categorize"
	"github.com/bankfeed-dev/bankfeed/internal/config"
	"github.com/bankfeed-dev/bankfeed/internal/ingest"
	"github.com/bankfeed-dev/bankfeed/internal/logger"
	"github.com/bankfeed-dev/bankfeed/internal/metrics"
	"github.com/bankfeed-dev/bankfeed/internal/store"
)

func newImportCommand() *cobra.Command {
	var tenantID string
	var accountID string
	var currency string
	var configPath string
	var storePath string

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Ingest a bank CSV export into the transaction store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if storePath == "" {
				storePath = cfg.Store.Path
			}

			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading import file: %w", err)
			}

			table, err := categorize.NewTable(cfg.Categories)
			if err != nil {
				return fmt.Errorf("building category table: %w", err)
			}

			st, err := store.OpenCSV(storePath)
			if err != nil {
				return err
			}

			log := logger.New()
			svc := ingest.NewService(
				ingest.NewParser(table, cfg.Defaults.Currency),
				store.NewSink(st, log),
				log,
				metrics.NewCollector(),
			)

			summary, err := svc.Import(cmd.Context(), raw, tenantID, accountID, currency)
			if err != nil {
				return err
			}

			cmd.Printf("run %s: %d rows, %d inserted, %d duplicates\n",
				summary.RunID, summary.Rows, summary.Inserted, summary.Matched)
			for _, w := range summary.Warnings {
				cmd.Printf("warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&tenantID, "tenant", "", "tenant identifier (required)")
	_ = cmd.MarkFlagRequired("tenant")
	cmd.Flags().StringVar(&accountID, "account", "", "account identifier (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().StringVar(&currency, "currency", "", "currency code (defaults to config)")
	cmd.Flags().StringVar(&configPath, "config", "bankfeed.yaml", "path to bankfeed.yaml")
	cmd.Flags().StringVar(&storePath, "store", "", "transaction store path (defaults to config)")

	return cmd
}

// loadConfig reads the named config file, falling back to defaults when the
// file does not exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.Defaults.Currency == "" {
		cfg.Defaults.Currency = config.Default().Defaults.Currency
	}
	if cfg.Store.Path == "" {
		cfg.Store.Path = config.Default().Store.Path
	}
	if len(cfg.Categories) == 0 {
		cfg.Categories = categorize.DefaultEntries()
	}
	return cfg, nil
}
