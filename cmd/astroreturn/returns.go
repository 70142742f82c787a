package main

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astroreturn"
	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

var returnCmd = &cobra.Command{
	Use:   "return <body> <longitude|anchor>",
	Short: "Find the Nth return of a body to a longitude after an anchor",
	Long: `Find the Nth return of a body to a longitude after an anchor time.

For planets that can retrograde, a return is counted once per season: the
crossing where the planet passes the longitude for good, moving direct.

Pass "anchor" as the longitude to use the body's own longitude at the
anchor time (a solar return, for example).`,
	Example: `  astroreturn return sun anchor --anchor "1990-07-14 08:30" --tz Europe/Paris -n 35
  astroreturn return sun 280.46 --anchor 1990-01-01 -n 35
  astroreturn return mercury 0 --anchor 2025-02-01 --list -n 3`,
	Args: cobra.ExactArgs(2),
	RunE: runReturn,
}

var nearestCmd = &cobra.Command{
	Use:   "nearest <body> <longitude>",
	Short: "Find the crossing closest in time to an anchor, before or after it",
	Args:  cobra.ExactArgs(2),
	RunE:  runNearest,
}

func init() {
	returnCmd.Flags().String("anchor", "", "anchor time (default now)")
	returnCmd.Flags().IntP("n", "n", 1, "which return to find (1 = first after the anchor)")
	returnCmd.Flags().Bool("list", false, "list every return from 1 to n")
	nearestCmd.Flags().String("anchor", "", "anchor time (default now)")
	rootCmd.AddCommand(returnCmd, nearestCmd)
}

func runReturn(cmd *cobra.Command, args []string) error {
	e, body, target, anchor, err := returnArgs(cmd, args)
	if err != nil {
		return err
	}
	loc, _ := tzFlag(cmd)
	n, _ := cmd.Flags().GetInt("n")
	list, _ := cmd.Flags().GetBool("list")

	var events []eventJSON
	if list {
		all, err := e.solver.Returns(body, target, anchor, n)
		if err != nil {
			return err
		}
		for k, res := range all {
			ev := newEventJSON(body, target, res)
			ev.N = k + 1
			events = append(events, ev)
		}
	} else {
		res, err := e.solver.Return(astroreturn.ReturnQuery{
			Body:   body,
			Target: target,
			Anchor: anchor,
			Mode:   astroreturn.NthFromAnchor,
			N:      n,
		})
		if err != nil {
			return err
		}
		ev := newEventJSON(body, target, res)
		ev.N = n
		events = append(events, ev)
	}

	if jsonOutput(cmd) {
		if list {
			return writeJSON(cmd.OutOrStdout(), events)
		}
		return writeJSON(cmd.OutOrStdout(), events[0])
	}
	for _, ev := range events {
		printEvent(cmd.OutOrStdout(), fmt.Sprintf("%s return #%d to %.4f°", body, ev.N, target), ev, loc, e.cfg.Verbose)
	}
	return nil
}

func runNearest(cmd *cobra.Command, args []string) error {
	e, body, target, anchor, err := returnArgs(cmd, args)
	if err != nil {
		return err
	}
	loc, _ := tzFlag(cmd)

	res, err := e.solver.Return(astroreturn.ReturnQuery{
		Body:   body,
		Target: target,
		Anchor: anchor,
		Mode:   astroreturn.NearestToAnchor,
	})
	if err != nil {
		return err
	}

	out := newEventJSON(body, target, res)
	at := anchor.Time()
	out.Anchor = &at
	if jsonOutput(cmd) {
		return writeJSON(cmd.OutOrStdout(), out)
	}

	when := "after"
	if res.Instant < anchor {
		when = "before"
	}
	offset := timeutil.DaysToDuration(math.Abs(res.Instant.Sub(anchor))).Round(time.Minute)
	title := fmt.Sprintf("%s nearest %.4f° (%v %s anchor)", body, target, offset, when)
	printEvent(cmd.OutOrStdout(), title, out, loc, e.cfg.Verbose)
	return nil
}

func returnArgs(cmd *cobra.Command, args []string) (*env, astroreturn.Body, float64, astroreturn.Instant, error) {
	e, err := loadEnv()
	if err != nil {
		return nil, astroreturn.Body{}, 0, 0, err
	}
	loc, err := tzFlag(cmd)
	if err != nil {
		return nil, astroreturn.Body{}, 0, 0, err
	}
	body, err := e.body(args[0])
	if err != nil {
		return nil, astroreturn.Body{}, 0, 0, err
	}
	anchorS, _ := cmd.Flags().GetString("anchor")
	anchor, err := parseInstant(anchorS, loc)
	if err != nil {
		return nil, astroreturn.Body{}, 0, 0, err
	}

	var target float64
	if strings.EqualFold(args[1], "anchor") {
		target, err = e.solver.LongitudeAt(body, anchor)
	} else {
		target, err = parseTarget(args[1])
	}
	if err != nil {
		return nil, astroreturn.Body{}, 0, 0, err
	}
	return e, body, target, anchor, nil
}
