package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/eduadmin/internal/csvimport"
)

var templateOut string

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write the student CSV template",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if templateOut == "" {
			return csvimport.WriteTemplate(cmd.OutOrStdout())
		}

		f, err := os.Create(templateOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", templateOut, err)
		}
		defer f.Close()

		if err := csvimport.WriteTemplate(f); err != nil {
			return fmt.Errorf("write %s: %w", templateOut, err)
		}
		return f.Close()
	},
}

func init() {
	templateCmd.Flags().StringVarP(&templateOut, "output", "o", "", "output file (default stdout)")
}
