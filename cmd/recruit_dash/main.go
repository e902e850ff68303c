// Package main provides the recruit_dash command line and HTTP server for
// the recruitment dashboard.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recruit_dash",
	Short: "Recruitment dashboard data tools and HTTP API",
	Long: "recruit_dash keeps candidates, interviews and clients in spreadsheet files " +
		"and serves KPIs, charts and follow-up reminders over HTTP or on the command line.",
	SilenceUsage: true,
}

var (
	configPath string
	dataDir    string
	dataFormat string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML or JSON config file")
	rootCmd.PersistentFlags().StringVarP(&dataDir, "data-dir", "d", "", "Directory holding the table files (overrides config)")
	rootCmd.PersistentFlags().StringVar(&dataFormat, "store-format", "", "Table file format: xlsx or csv (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
