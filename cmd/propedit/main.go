// Command propedit serves a prop editing panel for a documented component, or
// edits the props interactively in the terminal.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "propedit",
		Short:        "Edit component props from their docgen description",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCommand())
	rootCmd.AddCommand(newEditCommand())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
