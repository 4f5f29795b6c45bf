package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var errNoStore = errors.New("no store configured (set --store-driver and --store-dsn)")

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Print the stored evaluation transcript",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.store == nil {
			return errNoStore
		}
		entries, err := app.store.Transcript(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "%5d  %s  %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Input)
			for _, line := range strings.Split(e.Output, "\n") {
				if line != "" {
					fmt.Fprintf(out, "       => %s\n", line)
				}
			}
		}
		return nil
	},
}

var defsClear bool

var defsCmd = &cobra.Command{
	Use:   "defs",
	Short: "Print the stored definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if app.store == nil {
			return errNoStore
		}
		if defsClear {
			return app.store.DeleteDefinitions(cmd.Context())
		}
		defs, err := app.store.Definitions(cmd.Context())
		if err != nil {
			return err
		}
		for _, d := range defs {
			fmt.Fprintln(cmd.OutOrStdout(), d.Code)
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "spirit version 'v%s' %s %s\n",
			app.config.Version, app.config.BuildDate, app.config.Commit)
	},
}

func init() {
	rootCmd.AddCommand(historyCmd, defsCmd, versionCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of most recent entries to show (0 for all)")
	defsCmd.Flags().BoolVar(&defsClear, "clear", false, "Delete every stored definition")
}
