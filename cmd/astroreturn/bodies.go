package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var bodiesCmd = &cobra.Command{
	Use:   "bodies",
	Short: "List the bodies in the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := loadEnv()
		if err != nil {
			return err
		}
		bodies := e.catalog.Bodies()

		if jsonOutput(cmd) {
			return writeJSON(cmd.OutOrStdout(), bodies)
		}

		header := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, header.Render(fmt.Sprintf("%-10s %-14s %12s %10s  %s", "ID", "NAME", "PERIOD (d)", "STEP (d)", "RETROGRADE")))
		for _, b := range bodies {
			retro := labelStyle.Render("no")
			if b.CanRetrograde {
				retro = retroStyle.Render("yes")
			}
			fmt.Fprintf(w, "%-10s %-14s %12.4f %10.4f  %s\n", b.ID, b.String(), b.CoarsePeriodDays, b.Step(), retro)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bodiesCmd)
}
