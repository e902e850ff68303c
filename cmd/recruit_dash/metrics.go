package main

import (
	"github.com/jonathan/recruit-tracker/internal/dashboard"
	"github.com/jonathan/recruit-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var metricsJSON bool

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print the dashboard KPIs",
	Long:  "Computes total and recent candidates, open positions, active interviews and the success rate from the current tables.",
	RunE:  runMetrics,
}

var (
	followUpsJSON bool
)

var followUpsCmd = &cobra.Command{
	Use:   "follow-ups",
	Short: "List candidates due for a follow-up in the next 7 days",
	RunE:  runFollowUps,
}

func init() {
	metricsCmd.Flags().BoolVar(&metricsJSON, "json", false, "Print JSON instead of a text box")
	followUpsCmd.Flags().BoolVar(&followUpsJSON, "json", false, "Print JSON instead of a text box")
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(followUpsCmd)
}

func runMetrics(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	kpis := sess.Metrics()
	if metricsJSON {
		return writeJSON(cmd.OutOrStdout(), kpis)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintKPIs(kpis, dashboard.Notifications(kpis))
	return nil
}

func runFollowUps(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	followUps := sess.FollowUps()
	if followUpsJSON {
		return writeJSON(cmd.OutOrStdout(), followUps)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintFollowUps(followUps)
	return nil
}
