package main

import "github.com/spf13/cobra"

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Pick shapes interactively",
	Long: `Open the shape picker. Tab opens the scoreboard; after a run, M returns
here so another shape can be tried.`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runInteractive(nil)
	},
}

func init() {
	menuCmd.Flags().BoolVar(&flagWatch, "watch", false, "Reload --config on change; applies from the next level")
}
