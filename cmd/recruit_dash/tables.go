package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jonathan/recruit-tracker/internal/observability"
	"github.com/jonathan/recruit-tracker/internal/store"
	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace a table with the contents of a file",
	Long: `Replaces a whole table with an .xlsx, .csv or .json file. The file is
checked before anything is written, so a rejected file leaves the table as it
was. Duplicate ids are kept and reported.`,
	RunE: runImport,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a table as xlsx, csv or json",
	RunE:  runExport,
}

var (
	importTable  string
	importFile   string
	exportTable  string
	exportFormat string
	exportOutput string
)

func init() {
	importCmd.Flags().StringVarP(&importTable, "table", "t", "", "Table to replace: candidates, interviews or clients (required)")
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Path to the .xlsx, .csv or .json file (required)")
	for _, name := range []string{"table", "file"} {
		if err := importCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", name, err))
		}
	}

	exportCmd.Flags().StringVarP(&exportTable, "table", "t", "", "Table to export: candidates, interviews or clients (required)")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "F", "", "Output format: xlsx, csv or json (default: the output extension, then the store format)")
	exportCmd.Flags().StringVarP(&exportOutput, "out", "o", "", "Output path (default: stdout)")
	if err := exportCmd.MarkFlagRequired("table"); err != nil {
		panic(fmt.Sprintf("failed to mark table flag as required: %v", err))
	}

	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
}

func runImport(cmd *cobra.Command, _ []string) error {
	table, err := store.ParseTable(importTable)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	_, st, err := openStore(ctx, newLogger())
	if err != nil {
		return err
	}

	f, err := os.Open(importFile)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", importFile, err)
	}
	defer f.Close()

	result, err := st.Replace(ctx, table, filepath.Base(importFile), f)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintImportResult(result)
	return nil
}

// exportFormatFor picks the explicit format, then the output extension, then
// the store's own format.
func exportFormatFor(explicit, output string, fallback store.Format) (store.Format, error) {
	if explicit != "" {
		return store.ParseFormat(explicit)
	}
	if ext := filepath.Ext(output); ext != "" {
		return store.ParseFormat(ext)
	}
	return fallback, nil
}

func runExport(cmd *cobra.Command, _ []string) (err error) {
	table, err := store.ParseTable(exportTable)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	_, st, err := openStore(ctx, newLogger())
	if err != nil {
		return err
	}

	format, err := exportFormatFor(exportFormat, exportOutput, st.Format())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOutput != "" && exportOutput != "-" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", exportOutput, err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close %s: %w", exportOutput, cerr)
			}
		}()
		w = f
	}

	return st.Export(ctx, table, format, w)
}
