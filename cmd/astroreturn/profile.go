package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thurmanmarka/astroreturn"
)

var profileCmd = &cobra.Command{
	Use:   "profile <refcsv>",
	Short: "Compare computed crossings against a reference table",
	Long: `Compare computed crossings against reference times, e.g. equinoxes,
ingresses or lunar phases taken from a published almanac.

CSV format:

  body,target,start,expected
  sun,0,2025-03-01,2025-03-20T09:01:00Z
  mercury,0,2025-02-01,2025-04-16T07:24:00Z

- start and expected accept the same formats as --start, in --tz
- with --mode crossing the first crossing after start is compared,
  with --mode return the first return (retrograde loops skipped)`,
	Args: cobra.ExactArgs(1),
	RunE: runProfile,
}

func init() {
	profileCmd.Flags().String("mode", "crossing", "what to compute per row: crossing or return")
	profileCmd.Flags().String("outcsv", "", "optional path to write per-row error CSV")
	rootCmd.AddCommand(profileCmd)
}

type stats struct {
	count int
	sum   float64
	min   float64
	max   float64
}

func (s *stats) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	if s.count == 0 {
		s.min, s.max = v, v
	} else {
		if v < s.min {
			s.min = v
		}
		if v > s.max {
			s.max = v
		}
	}
	s.sum += v
	s.count++
}

func (s *stats) mean() float64 {
	if s.count == 0 {
		return math.NaN()
	}
	return s.sum / float64(s.count)
}

func (s *stats) print(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", labelStyle.Render(title))
	fmt.Fprintf(w, "  count: %d\n", s.count)
	fmt.Fprintf(w, "  min:   %.3f\n", s.min)
	fmt.Fprintf(w, "  max:   %.3f\n", s.max)
	fmt.Fprintf(w, "  avg:   %.3f\n", s.mean())
}

func diffMinutesSigned(a, b astroreturn.Instant) float64 {
	return a.Sub(b) / astroreturn.Minute // our - ref
}

func runProfile(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	loc, err := tzFlag(cmd)
	if err != nil {
		return err
	}
	mode, _ := cmd.Flags().GetString("mode")
	mode = strings.ToLower(mode)
	if mode != "crossing" && mode != "return" {
		return fmt.Errorf("unknown mode %q (use crossing or return)", mode)
	}
	outCSV, _ := cmd.Flags().GetString("outcsv")

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open refcsv %q: %w", args[0], err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // allow variable, we validate
	r.Comment = '#'

	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("empty CSV file")
	}

	var outWriter *csv.Writer
	if outCSV != "" {
		outFile, err := os.Create(outCSV)
		if err != nil {
			return fmt.Errorf("failed to create outcsv %q: %w", outCSV, err)
		}
		defer outFile.Close()

		outWriter = csv.NewWriter(outFile)
		defer outWriter.Flush()

		// Header row
		if err := outWriter.Write([]string{"body", "target", "start", "expected", "got", "err_min", "signed_min", "sense", "iterations"}); err != nil {
			return fmt.Errorf("failed to write outcsv header: %w", err)
		}
	}

	// If first row looks like a header, skip it.
	startIdx := 0
	if len(records[0]) >= 1 && strings.EqualFold(strings.TrimSpace(records[0][0]), "body") {
		startIdx = 1
	}

	var (
		absStats    stats
		signedStats stats
		skipped     int
		totalRows   int
	)

	w := cmd.OutOrStdout()
	for i := startIdx; i < len(records); i++ {
		row := records[i]
		totalRows++

		if len(row) < 4 {
			log.Printf("row %d: expected 4 columns (body,target,start,expected), got %d, skipping", i+1, len(row))
			skipped++
			continue
		}

		body, err := e.body(strings.TrimSpace(row[0]))
		if err != nil {
			log.Printf("row %d: %v, skipping", i+1, err)
			skipped++
			continue
		}
		target, err := parseTarget(row[1])
		if err != nil {
			log.Printf("row %d: %v, skipping", i+1, err)
			skipped++
			continue
		}
		start, err := parseInstant(row[2], loc)
		if err != nil {
			log.Printf("row %d: invalid start: %v, skipping", i+1, err)
			skipped++
			continue
		}
		expected, err := parseInstant(row[3], loc)
		if err != nil {
			log.Printf("row %d: invalid expected time: %v, skipping", i+1, err)
			skipped++
			continue
		}

		var res astroreturn.CrossingResult
		if mode == "return" {
			res, err = e.solver.Return(astroreturn.ReturnQuery{Body: body, Target: target, Anchor: start, N: 1})
		} else {
			res, err = e.solver.Crossing(astroreturn.CrossingQuery{
				Body:      body,
				Target:    target,
				Start:     start,
				Direction: astroreturn.Forward,
				Tolerance: e.cfg.Options().Tolerance,
			})
		}
		if err != nil {
			log.Printf("row %d: astroreturn error: %v, skipping", i+1, err)
			skipped++
			continue
		}

		signed := diffMinutesSigned(res.Instant, expected)
		absStats.add(math.Abs(signed))
		signedStats.add(signed)

		if e.cfg.Verbose {
			fmt.Fprintf(w, "%s %.4f°: err=%.2f min (got=%s ref=%s) %s\n",
				body.ID, target, signed,
				res.Instant.Time().In(loc).Format(time.RFC3339),
				expected.Time().In(loc).Format(time.RFC3339),
				res.Sense)
		}

		if outWriter != nil {
			rec := []string{
				body.ID,
				fmt.Sprintf("%.6f", target),
				start.Time().Format(time.RFC3339),
				expected.Time().Format(time.RFC3339),
				res.Instant.Time().Format(time.RFC3339Nano),
				fmt.Sprintf("%.6f", math.Abs(signed)),
				fmt.Sprintf("%.6f", signed),
				res.Sense.String(),
				fmt.Sprintf("%d", res.Iterations),
			}
			if err := outWriter.Write(rec); err != nil {
				log.Printf("row %d: failed to write outcsv: %v", i+1, err)
			}
		}
	}

	fmt.Fprintln(w, titleStyle.Render("=== astroreturn profiler summary ==="))
	fmt.Fprintf(w, "Mode:   %s\n", mode)
	fmt.Fprintf(w, "TZ:     %s\n", loc.String())
	fmt.Fprintf(w, "Rows:   %d (processed), %d skipped\n", totalRows-skipped, skipped)

	if absStats.count == 0 {
		fmt.Fprintln(w, "No valid rows to compute stats.")
		return nil
	}

	absStats.print(w, "Error (minutes):")
	signedStats.print(w, "Signed error (minutes, our - ref):")
	return nil
}
