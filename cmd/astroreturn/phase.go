package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astroreturn"
)

var phaseCmd = &cobra.Command{
	Use:   "phase [new|first|full|last]",
	Short: "Moon phase now, or the next time the Moon reaches a phase",
	Long: `With no argument, print the Moon's illumination at --time and the next
four principal phases. With a phase name, print when that phase next occurs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPhase,
}

func init() {
	phaseCmd.Flags().String("time", "", "time to evaluate from (default now)")
	rootCmd.AddCommand(phaseCmd)
}

type phaseEventJSON struct {
	Phase string    `json:"phase"`
	Time  time.Time `json:"time"`
	JD    float64   `json:"jd"`
}

func runPhase(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	loc, err := tzFlag(cmd)
	if err != nil {
		return err
	}
	timeS, _ := cmd.Flags().GetString("time")
	at, err := parseInstant(timeS, loc)
	if err != nil {
		return err
	}

	kinds := []astroreturn.PhaseKind{
		astroreturn.NewMoon, astroreturn.FirstQuarter, astroreturn.FullMoon, astroreturn.LastQuarter,
	}
	if len(args) == 1 {
		k, err := astroreturn.ParsePhaseKind(args[0])
		if err != nil {
			return err
		}
		kinds = []astroreturn.PhaseKind{k}
	}

	var events []phaseEventJSON
	for _, k := range kinds {
		next, err := e.solver.NextPhase(k, at)
		if err != nil {
			return fmt.Errorf("%v: %w", k, err)
		}
		events = append(events, phaseEventJSON{Phase: k.String(), Time: next.Time(), JD: float64(next)})
	}
	sort.Slice(events, func(i, j int) bool { return events[i].JD < events[j].JD })

	w := cmd.OutOrStdout()
	if len(args) == 1 {
		if jsonOutput(cmd) {
			return writeJSON(w, events[0])
		}
		fmt.Fprintf(w, "%s %s\n", titleStyle.Render(events[0].Phase), valueStyle.Render(events[0].Time.In(loc).Format(time.RFC3339)))
		return nil
	}

	phase := astroreturn.MoonPhaseAt(at.Time().In(loc))
	if jsonOutput(cmd) {
		return writeJSON(w, struct {
			Current astroreturn.MoonPhase `json:"current"`
			Next    []phaseEventJSON      `json:"next"`
		}{phase, events})
	}

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("Moon phase at %s (%s)", phase.Time.Format(time.RFC3339), loc)))
	fmt.Fprintf(w, "  %s %s\n", label("Name"), valueStyle.Render(phase.Name))
	fmt.Fprintf(w, "  %s %.3f (%.1f%% illuminated)\n", label("Fraction"), phase.Fraction, phase.Fraction*100)
	fmt.Fprintf(w, "  %s %.2f°\n", label("Elongation"), phase.Elongation)
	if phase.Waxing {
		fmt.Fprintf(w, "  %s Waxing (illumination increasing)\n", label("Trend"))
	} else {
		fmt.Fprintf(w, "  %s Waning (illumination decreasing)\n", label("Trend"))
	}
	fmt.Fprintln(w)
	for _, ev := range events {
		fmt.Fprintf(w, "  %s %s\n", label(ev.Phase), ev.Time.In(loc).Format(time.RFC3339))
	}
	return nil
}
