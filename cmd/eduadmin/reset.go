package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var resetConfirmed bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove every stored collection",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if !resetConfirmed {
			return errors.New("refusing to clear all collections without --yes")
		}

		a, err := loadApp()
		if err != nil {
			return err
		}
		defer a.Close()

		if !a.store.ClearAll() {
			return errors.New("some collections could not be removed, see log")
		}

		fmt.Fprintln(cmd.OutOrStdout(), "all collections cleared")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm removal of all collections")
}
