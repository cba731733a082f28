package main

import (
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/climate-explorer/internal/core"
	"github.com/JonMunkholm/climate-explorer/internal/schema"
)

func newLoadCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Load every source and print the load report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := openApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Service.Report(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
}

func newQueryCmd(flags *rootFlags) *cobra.Command {
	var (
		f         core.Filter
		startYear string
		endYear   string
		provider  bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print observations matching the filters, ordered by year",
		Long: `Print observations matching the filters, ordered by year.

Examples:
  climatectl query --variable "Emissions|CO2" --region World
  climatectl query --provider IPCC-R6 --start-year 2030 --end-year 2050
  climatectl query --provider AIM/CGE --by-provider --limit 100`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if f.StartYear, err = core.ParseYearParam("start_year", startYear); err != nil {
				return err
			}
			if f.EndYear, err = core.ParseYearParam("end_year", endYear); err != nil {
				return err
			}
			if f.Limit < 0 {
				return core.ValidationError{Field: "limit", Message: "must be at least 1"}
			}

			app, err := openApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			var rows []schema.Observation
			if provider {
				rows, err = app.Service.ProviderObservations(cmd.Context(), f.Provider, f.Limit)
			} else {
				rows, err = app.Service.Query(cmd.Context(), f)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, rows)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.Provider, "provider", "", "exact provider")
	fl.StringVar(&f.Region, "region", "", "exact region")
	fl.StringVar(&f.Variable, "variable", "", "exact variable")
	fl.StringVar(&f.Scenario, "scenario", "", "exact scenario")
	fl.StringVar(&startYear, "start-year", "", "earliest year, inclusive")
	fl.StringVar(&endYear, "end-year", "", "latest year, inclusive")
	fl.IntVar(&f.Limit, "limit", 0, "maximum rows (default from QUERY_DEFAULT_LIMIT)")
	fl.BoolVar(&provider, "by-provider", false, "order by variable, region and year; requires --provider")
	return cmd
}

func newListCmd(flags *rootFlags) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:       "list <provider|variable|region|scenario>",
		Short:     "Print the distinct values of a field",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{schema.FieldProvider, schema.FieldVariable, schema.FieldRegion, schema.FieldScenario},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer app.Close()

			values, err := app.Service.Values(cmd.Context(), args[0], provider)
			if err != nil {
				return err
			}
			return printJSON(cmd, values)
		},
	}
	cmd.Flags().StringVar(&provider, "provider", "", "restrict to one provider")
	return cmd
}
