package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var (
	importDryRun bool
	importFormat string
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import students from a CSV file",
	Long: `Import students from a CSV file into the students collection.

The header must contain name, email, phone and program; team, coach and
enrollDate are optional. Rows with problems are skipped and listed.
Use "-" to read from standard input. --format json|yaml prints the full
report instead of the text summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "validate only, do not save")
	importCmd.Flags().StringVar(&importFormat, "format", formatText, "output format: text, json or yaml")
}

func runImport(cmd *cobra.Command, args []string) error {
	if !validFormat(importFormat) {
		return fmt.Errorf("unknown --format %q", importFormat)
	}

	text, err := readInput(cmd.InOrStdin(), args[0])
	if err != nil {
		return err
	}

	a, err := loadApp()
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.roster.Import(text, importDryRun)
	if werr := writeReport(cmd.OutOrStdout(), importFormat, report); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

func readInput(stdin io.Reader, path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(b), nil
}
