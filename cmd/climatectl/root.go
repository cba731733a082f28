package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/climate-explorer/internal/application"
	"github.com/JonMunkholm/climate-explorer/internal/config"
	"github.com/JonMunkholm/climate-explorer/internal/logging"
)

// rootFlags override the environment configuration when set.
type rootFlags struct {
	spreadsheet string
	wideCSV     string
	longCSV     string
	sources     string
	logLevel    string
}

func newRootCmd(out io.Writer) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "climatectl",
		Short: "Load and query climate scenario datasets",
		Long: `climatectl reads the IPCC R6 spreadsheet, the SSP CMIP6 export and any
extra sources, merges them into one dataset and answers the same queries
as the HTTP API. Results are printed as JSON on stdout.

Configuration comes from the environment (and .env) like the server;
flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.spreadsheet, "spreadsheet", "", "IPCC R6 workbook (.xls or .xlsx)")
	pf.StringVar(&flags.wideCSV, "wide-csv", "", "SSP CMIP6 wide CSV")
	pf.StringVar(&flags.longCSV, "long-csv", "", "long-format CSV file or directory")
	pf.StringVar(&flags.sources, "sources", "", "YAML manifest of extra sources")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newLoadCmd(&flags),
		newQueryCmd(&flags),
		newListCmd(&flags),
	)
	return root
}

// openApp loads configuration, applies flag overrides and builds the
// service. Logs go to stderr so stdout carries only results.
func openApp(ctx context.Context, flags *rootFlags) (*application.App, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.spreadsheet != "" {
		cfg.Data.SpreadsheetPath = flags.spreadsheet
	}
	if flags.wideCSV != "" {
		cfg.Data.WideCSVPath = flags.wideCSV
	}
	if flags.longCSV != "" {
		cfg.Data.LongCSVPath = flags.longCSV
	}
	if flags.sources != "" {
		cfg.Data.SourcesFile = flags.sources
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}

	logger := logging.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	return application.Build(ctx, cfg, nil, logger)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
