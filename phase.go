package astroreturn

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/thurmanmarka/astroreturn/internal/moon"
	"github.com/thurmanmarka/astroreturn/internal/sun"
	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// PhaseKind is one of the four principal lunar phases.
type PhaseKind int

const (
	NewMoon PhaseKind = iota
	FirstQuarter
	FullMoon
	LastQuarter
)

// Elongation returns the Moon-Sun ecliptic elongation that defines k.
func (k PhaseKind) Elongation() float64 {
	return float64(k) * 90
}

func (k PhaseKind) String() string {
	switch k {
	case NewMoon:
		return "New Moon"
	case FirstQuarter:
		return "First Quarter"
	case FullMoon:
		return "Full Moon"
	case LastQuarter:
		return "Last Quarter"
	default:
		return fmt.Sprintf("PhaseKind(%d)", int(k))
	}
}

// ParsePhaseKind accepts "new", "first", "full", "last" and the String
// forms, ignoring case.
func ParsePhaseKind(s string) (PhaseKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "new", "new moon", "new-moon":
		return NewMoon, nil
	case "first", "first quarter", "first-quarter":
		return FirstQuarter, nil
	case "full", "full moon", "full-moon":
		return FullMoon, nil
	case "last", "last quarter", "last-quarter", "third", "third quarter":
		return LastQuarter, nil
	default:
		return 0, fmt.Errorf("%w: unknown lunar phase %q", ErrInvalidInput, s)
	}
}

// NextPhase returns the first instant at or after `after` when the Moon
// reaches phase kind. The solver's provider must know LunarPhase.
func (s *Solver) NextPhase(kind PhaseKind, after Instant) (Instant, error) {
	if kind < NewMoon || kind > LastQuarter {
		return 0, fmt.Errorf("%w: phase %v", ErrInvalidInput, kind)
	}
	return s.FindCrossing(LunarPhase, kind.Elongation(), after, Forward, s.opts.Tolerance)
}

// MoonPhase describes the illuminated fraction and qualitative phase
// of the Moon at a given instant.
type MoonPhase struct {
	Time       time.Time // the instant this phase is evaluated at
	Fraction   float64   // illuminated fraction [0..1], 0=new, 1=full
	Elongation float64   // Moon minus Sun ecliptic longitude, degrees [0..360)
	Waxing     bool      // true if waxing (illumination increasing), false if waning
	Name       string    // e.g. "New Moon", "Waxing Crescent", "First Quarter", ...
}

// MoonPhaseAt computes the Moon's illuminated fraction and qualitative phase
// at the given time from the built-in ephemeris. Phase is a global property
// (independent of observer location); the returned Time is t unchanged.
func MoonPhaseAt(t time.Time) MoonPhase {
	jd := timeutil.JulianDay(t)
	elong := timeutil.Normalize360(moon.EclipticLongitude(jd) - sun.EclipticLongitude(jd))

	// Illuminated fraction from the phase angle, approximated by the
	// elongation: k = (1 - cos ψ) / 2
	fraction := 0.5 * (1 - timeutil.CosD(elong))
	waxing := elong < 180.0

	return MoonPhase{
		Time:       t,
		Fraction:   fraction,
		Elongation: elong,
		Waxing:     waxing,
		Name:       classifyMoonPhaseName(fraction, waxing),
	}
}

func classifyMoonPhaseName(f float64, waxing bool) string {
	const (
		eps        = 0.01 // near 0 or 1
		quarterTol = 0.05 // fraction window around 0.5
	)

	switch {
	case f < eps:
		return "New Moon"
	case f > 1-eps:
		return "Full Moon"
	case math.Abs(f-0.5) < quarterTol:
		if waxing {
			return "First Quarter"
		}
		return "Last Quarter"
	case f < 0.5:
		if waxing {
			return "Waxing Crescent"
		}
		return "Waning Crescent"
	default: // f > 0.5 but not near 1
		if waxing {
			return "Waxing Gibbous"
		}
		return "Waning Gibbous"
	}
}
