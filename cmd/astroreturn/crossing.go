package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astroreturn"
)

var crossingCmd = &cobra.Command{
	Use:   "crossing <body> <longitude>",
	Short: "Find the next (or previous) time a body reaches a longitude",
	Example: `  astroreturn crossing sun 0 --start 2025-03-01
  astroreturn crossing moon 123.5 --backward --json`,
	Args: cobra.ExactArgs(2),
	RunE: runCrossing,
}

func init() {
	crossingCmd.Flags().String("start", "", "search start time (RFC3339, YYYY-MM-DD[THH:MM] in --tz, or a Julian Day; default now)")
	crossingCmd.Flags().Bool("backward", false, "search backward in time")
	rootCmd.AddCommand(crossingCmd)
}

func runCrossing(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	loc, err := tzFlag(cmd)
	if err != nil {
		return err
	}
	body, err := e.body(args[0])
	if err != nil {
		return err
	}
	target, err := parseTarget(args[1])
	if err != nil {
		return err
	}
	startS, _ := cmd.Flags().GetString("start")
	start, err := parseInstant(startS, loc)
	if err != nil {
		return err
	}

	dir := astroreturn.Forward
	if back, _ := cmd.Flags().GetBool("backward"); back {
		dir = astroreturn.Backward
	}

	res, err := e.solver.Crossing(astroreturn.CrossingQuery{
		Body:      body,
		Target:    target,
		Start:     start,
		Direction: dir,
		Tolerance: e.cfg.Options().Tolerance,
	})
	if err != nil {
		return err
	}

	out := newEventJSON(body, target, res)
	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	printEvent(cmd.OutOrStdout(), fmt.Sprintf("%s at %.4f° (%s)", body, target, dir), out, loc, e.cfg.Verbose)
	return nil
}
