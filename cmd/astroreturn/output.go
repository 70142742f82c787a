package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/thurmanmarka/astroreturn"
)

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9D4EDD")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	retroStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E84A27"))
	directStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
)

type eventJSON struct {
	Body       string     `json:"body"`
	Target     float64    `json:"target"`
	N          int        `json:"n,omitempty"`
	Time       time.Time  `json:"time"`
	JD         float64    `json:"jd"`
	Sense      string     `json:"sense,omitempty"`
	Iterations int        `json:"iterations,omitempty"`
	Anchor     *time.Time `json:"anchor,omitempty"`
}

func newEventJSON(body astroreturn.Body, target float64, res astroreturn.CrossingResult) eventJSON {
	return eventJSON{
		Body:       body.ID,
		Target:     target,
		Time:       res.Instant.Time(),
		JD:         float64(res.Instant),
		Sense:      res.Sense.String(),
		Iterations: res.Iterations,
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

func label(s string) string {
	return labelStyle.Render(fmt.Sprintf("%-11s:", s))
}

func senseText(s astroreturn.Sense) string {
	if s == astroreturn.Retrograde {
		return retroStyle.Render(s.String())
	}
	return directStyle.Render(s.String())
}

// printEvent writes one resolved crossing in human form, with times shown
// in loc.
func printEvent(w io.Writer, title string, e eventJSON, loc *time.Location, verbose bool) {
	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintf(w, "  %s %s\n", label("Time"), valueStyle.Render(e.Time.In(loc).Format(time.RFC3339)))
	fmt.Fprintf(w, "  %s %.6f\n", label("Julian Day"), e.JD)
	fmt.Fprintf(w, "  %s %.4f°\n", label("Longitude"), e.Target)
	if e.Sense != "" {
		sense := astroreturn.Direct
		if e.Sense == astroreturn.Retrograde.String() {
			sense = astroreturn.Retrograde
		}
		fmt.Fprintf(w, "  %s %s\n", label("Motion"), senseText(sense))
	}
	if verbose {
		fmt.Fprintf(w, "  %s %d\n", label("Iterations"), e.Iterations)
	}
}
