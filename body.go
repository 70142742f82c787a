package astroreturn

import (
	"fmt"
	"math"

	"github.com/thurmanmarka/astroreturn/internal/moon"
	"github.com/thurmanmarka/astroreturn/internal/solver"
	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// Body describes what the solver needs to know about a moving point: how
// to ask the provider for it and how fast it cycles. Search code never
// branches on ID.
type Body struct {
	ID   string `toml:"id" json:"id"`
	Name string `toml:"name" json:"name"`

	// CoarsePeriodDays is the typical time for the longitude to come back
	// around, used to size search steps. For planets this is the synodic
	// period, which is also the spacing of retrograde loops.
	CoarsePeriodDays float64 `toml:"period_days" json:"period_days"`

	// StepDays overrides the derived search step when positive.
	StepDays float64 `toml:"step_days,omitempty" json:"step_days,omitempty"`

	// CanRetrograde marks bodies whose apparent motion reverses.
	CanRetrograde bool `toml:"retrograde" json:"retrograde"`
}

// Step returns the bracket search step in days.
func (b Body) Step() float64 {
	return solver.EstimateStep(b.CoarsePeriodDays, b.StepDays)
}

// guardSamples is the number of samples taken across one guard window.
const guardSamples = 96

// GuardWindow returns how far past a direct crossing to look for the next
// crossing of the same target, in days. A retrograde loop brings a planet
// back across a longitude within one synodic period of its first direct
// pass, so the window is one coarse period.
func (b Body) GuardWindow() float64 {
	period := b.CoarsePeriodDays
	if period <= 0 {
		period = solver.DefaultPeriodDays
	}
	return period
}

func (b Body) guardStep() float64 {
	return math.Min(b.Step(), b.GuardWindow()/guardSamples)
}

// Validate checks that b can drive a search.
func (b Body) Validate() error {
	if b.ID == "" {
		return fmt.Errorf("%w: body has no id", ErrInvalidInput)
	}
	if !timeutil.IsFinite(b.CoarsePeriodDays) || b.CoarsePeriodDays < 0 {
		return fmt.Errorf("%w: body %q period %v days", ErrInvalidInput, b.ID, b.CoarsePeriodDays)
	}
	if !timeutil.IsFinite(b.StepDays) || b.StepDays < 0 {
		return fmt.Errorf("%w: body %q step %v days", ErrInvalidInput, b.ID, b.StepDays)
	}
	return nil
}

func (b Body) String() string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

// Built-in bodies. Periods are tropical for the Sun and Moon, synodic for
// the planets, and the synodic month for the lunar phase angle.
var (
	Sun = Body{ID: "sun", Name: "Sun", CoarsePeriodDays: 365.2422}

	// A twelfth of a month would be fine; two days keeps per-step motion
	// under 31° even at perigee.
	Moon = Body{ID: "moon", Name: "Moon", CoarsePeriodDays: moon.SiderealMonth, StepDays: 2}

	Mercury = Body{ID: "mercury", Name: "Mercury", CoarsePeriodDays: 115.88, CanRetrograde: true}

	// Venus and Mars spend well under a twelfth of their synodic period
	// retrograde; the finer step keeps several samples inside each loop.
	Venus = Body{ID: "venus", Name: "Venus", CoarsePeriodDays: 583.92, StepDays: 8, CanRetrograde: true}
	Mars  = Body{ID: "mars", Name: "Mars", CoarsePeriodDays: 779.94, StepDays: 10, CanRetrograde: true}

	Jupiter = Body{ID: "jupiter", Name: "Jupiter", CoarsePeriodDays: 398.88, CanRetrograde: true}
	Saturn  = Body{ID: "saturn", Name: "Saturn", CoarsePeriodDays: 378.09, CanRetrograde: true}
	Uranus  = Body{ID: "uranus", Name: "Uranus", CoarsePeriodDays: 369.66, CanRetrograde: true}
	Neptune = Body{ID: "neptune", Name: "Neptune", CoarsePeriodDays: 367.49, CanRetrograde: true}
	Pluto   = Body{ID: "pluto", Name: "Pluto", CoarsePeriodDays: 366.73, CanRetrograde: true}

	// LunarPhase is the Moon's elongation east of the Sun: 0° new, 90°
	// first quarter, 180° full, 270° last quarter.
	LunarPhase = Body{ID: "phase", Name: "Lunar phase", CoarsePeriodDays: moon.SynodicMonth}
)
