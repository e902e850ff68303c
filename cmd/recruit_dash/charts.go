package main

import (
	"fmt"
	"strings"

	"github.com/jonathan/recruit-tracker/internal/charts"
	"github.com/jonathan/recruit-tracker/internal/observability"
	"github.com/jonathan/recruit-tracker/internal/query"
	"github.com/spf13/cobra"
)

var (
	chartsFilter query.CandidateFilter
	chartsJSON   bool
)

var chartsCmd = &cobra.Command{
	Use:   "charts [chart...]",
	Short: "Print dashboard charts as text",
	Long: "Prints the named charts, or all of them when none are named. Available charts: " +
		strings.Join(charts.Names, ", ") + ". Candidate filters apply to every chart except the interview timeline.",
	RunE: runCharts,
}

func init() {
	chartsCmd.Flags().StringVar(&chartsFilter.Client, "client", "", "Only candidates for this client")
	chartsCmd.Flags().StringVar(&chartsFilter.Status, "status", "", "Only candidates with this status")
	chartsCmd.Flags().StringVar(&chartsFilter.Position, "position", "", "Only candidates for this position")
	chartsCmd.Flags().StringVar(&chartsFilter.Search, "search", "", "Case-insensitive match on name or position")
	chartsCmd.Flags().BoolVar(&chartsJSON, "json", false, "Print JSON instead of text")
	rootCmd.AddCommand(chartsCmd)
}

func runCharts(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = charts.Names
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printer := observability.NewPrinter(out)
	prepared := make(map[string]any, len(names))
	for _, name := range names {
		series, ok, known := sess.Chart(name, chartsFilter)
		if !known {
			return fmt.Errorf("unknown chart %q (available: %s)", name, strings.Join(charts.Names, ", "))
		}
		if !ok {
			series = nil
		}
		if chartsJSON {
			prepared[name] = series
			continue
		}
		printer.PrintChart(name, series)
	}

	if chartsJSON {
		return writeJSON(out, prepared)
	}
	return nil
}
