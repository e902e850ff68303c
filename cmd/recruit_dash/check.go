package main

import (
	"fmt"

	"github.com/jonathan/recruit-tracker/internal/observability"
	"github.com/spf13/cobra"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report duplicate ids, missing ids and dangling references",
	Long: `Inspects the tables for data-integrity problems. Nothing is repaired.
Exits with status 1 when duplicate or missing ids are found, since those break
editing by id. Dangling references are reported but do not fail the check.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print JSON instead of a text box")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}

	warnings := sess.Integrity()
	if checkJSON {
		if err := writeJSON(cmd.OutOrStdout(), warnings); err != nil {
			return err
		}
	} else {
		observability.NewPrinter(cmd.OutOrStdout()).PrintIntegrity(warnings)
	}

	blocking := 0
	for _, w := range warnings {
		if w.Blocking() {
			blocking++
		}
	}
	if blocking > 0 {
		return fmt.Errorf("found %d blocking integrity issues", blocking)
	}
	return nil
}
