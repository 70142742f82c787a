// Package astroreturn finds the instants at which a body reaches a given
// ecliptic longitude: single crossings searched forward or backward in
// time, the Nth return after an anchor instant, and the return nearest to
// an anchor.
//
// The solver does not compute positions itself. It consumes a
// LongitudeProvider; Ephemeris is a built-in approximate provider for the
// Sun, Moon, planets and lunar phase, good to minutes for the Sun and
// within the hour for the Moon.
//
// Instants are Julian Days (UT). Convert at the edges with InstantOf and
// Instant.Time.
package astroreturn

import (
	"fmt"
	"math"
	"time"

	"github.com/thurmanmarka/astroreturn/internal/solver"
	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// Instant is a Julian Day number (UT). It has no calendar semantics of its
// own.
type Instant float64

// Durations expressed in days, the unit of Instant arithmetic.
const (
	Day    = 1.0
	Hour   = Day / 24
	Minute = Hour / 60
	Second = Minute / 60
)

// InstantOf converts t to an Instant.
func InstantOf(t time.Time) Instant {
	return Instant(timeutil.JulianDay(t))
}

// Time converts i to a UTC time, rounded to the millisecond.
func (i Instant) Time() time.Time {
	return timeutil.FromJulianDay(float64(i))
}

// Add returns i shifted by days.
func (i Instant) Add(days float64) Instant {
	return i + Instant(days)
}

// Sub returns i - j in days.
func (i Instant) Sub(j Instant) float64 {
	return float64(i - j)
}

func (i Instant) String() string {
	return fmt.Sprintf("JD %.6f", float64(i))
}

// Direction is the direction of travel through time for a search.
type Direction = solver.Direction

const (
	Forward  = solver.Forward
	Backward = solver.Backward
)

// Sense tells whether a crossing happened with the longitude increasing
// (Direct) or decreasing (Retrograde).
type Sense = solver.Sense

const (
	Direct     = solver.Direct
	Retrograde = solver.Retrograde
)

// AngularDelta returns the signed shortest arc from one longitude to
// another, in (-180, 180]. Use it instead of subtraction whenever
// longitudes are compared: it treats 359.9° → 0.1° as +0.2°.
func AngularDelta(from, to float64) float64 {
	return solver.Delta(from, to)
}

// NormalizeLongitude maps a finite angle into [0, 360). NaN and infinities
// are rejected with ErrInvalidInput.
func NormalizeLongitude(deg float64) (float64, error) {
	if !timeutil.IsFinite(deg) {
		return 0, fmt.Errorf("%w: longitude %v is not finite", ErrInvalidInput, deg)
	}
	return timeutil.Normalize360(deg), nil
}

// LongitudeProvider looks up a body's geocentric ecliptic longitude in
// degrees. Implementations must be deterministic and safe for concurrent
// use; values outside [0, 360) are normalized, non-finite values are
// reported as ErrProvider.
type LongitudeProvider interface {
	Longitude(bodyID string, at Instant) (float64, error)
}

// ProviderFunc adapts a function to LongitudeProvider.
type ProviderFunc func(bodyID string, at Instant) (float64, error)

// Longitude implements LongitudeProvider.
func (f ProviderFunc) Longitude(bodyID string, at Instant) (float64, error) {
	return f(bodyID, at)
}

// CrossingQuery asks for the first crossing of Target from Start in
// Direction, resolved to Tolerance days.
type CrossingQuery struct {
	Body      Body
	Target    float64
	Start     Instant
	Direction Direction
	Tolerance float64
}

// CrossingResult is a resolved crossing.
type CrossingResult struct {
	Instant    Instant
	Iterations int // bracket steps plus bisection steps
	Sense      Sense
}

// ReturnMode selects how a ReturnQuery is resolved.
type ReturnMode int

const (
	// NthFromAnchor resolves the Nth forward return after the anchor.
	NthFromAnchor ReturnMode = iota
	// NearestToAnchor resolves the return closest in time to the anchor,
	// before or after it.
	NearestToAnchor
)

func (m ReturnMode) String() string {
	switch m {
	case NthFromAnchor:
		return "nth"
	case NearestToAnchor:
		return "nearest"
	default:
		return fmt.Sprintf("ReturnMode(%d)", int(m))
	}
}

// ReturnQuery asks for a return of Body to Target relative to Anchor.
// N is only used by NthFromAnchor and must be at least 1.
type ReturnQuery struct {
	Body   Body
	Target float64
	Anchor Instant
	Mode   ReturnMode
	N      int
}

// Options tune a Solver. Zero fields take the defaults.
type Options struct {
	// Tolerance is the time resolution in days for returns and phases.
	Tolerance float64
	// MaxIterations bounds each bracket walk and each bisection.
	MaxIterations int
	// ReturnEpsilon is how far past a found return the next search
	// starts, in days. Must exceed Tolerance.
	ReturnEpsilon float64
}

// DefaultOptions resolve to one second with a 1000-step horizon.
func DefaultOptions() Options {
	return Options{
		Tolerance:     Second,
		MaxIterations: solver.DefaultMaxIterations,
		ReturnEpsilon: Minute,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Tolerance == 0 {
		o.Tolerance = def.Tolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = def.MaxIterations
	}
	if o.ReturnEpsilon == 0 {
		o.ReturnEpsilon = math.Max(def.ReturnEpsilon, 2*o.Tolerance)
	}
	return o
}

func (o Options) validate() error {
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0) {
		return fmt.Errorf("%w: tolerance %v days", ErrInvalidInput, o.Tolerance)
	}
	if o.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations %d", ErrInvalidInput, o.MaxIterations)
	}
	if !(o.ReturnEpsilon > o.Tolerance) || math.IsInf(o.ReturnEpsilon, 0) {
		return fmt.Errorf("%w: return epsilon %v days must exceed tolerance %v days",
			ErrInvalidInput, o.ReturnEpsilon, o.Tolerance)
	}
	return nil
}

// Solver resolves crossings and returns against a LongitudeProvider.
//
// A Solver holds no mutable state; all search state lives in the call. It
// is safe for concurrent use as long as its provider is.
type Solver struct {
	provider LongitudeProvider
	opts     Options
}

// NewSolver returns a solver over p. Zero-valued option fields take their
// defaults.
func NewSolver(p LongitudeProvider, opts Options) (*Solver, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil longitude provider", ErrInvalidInput)
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &Solver{provider: p, opts: opts}, nil
}

// Options returns the solver's effective options.
func (s *Solver) Options() Options { return s.opts }

// FindCrossing returns the first instant from start, searching in dir,
// at which body's longitude equals target, to within tolerance days.
func (s *Solver) FindCrossing(body Body, target float64, start Instant, dir Direction, tolerance float64) (Instant, error) {
	res, err := s.Crossing(CrossingQuery{
		Body:      body,
		Target:    target,
		Start:     start,
		Direction: dir,
		Tolerance: tolerance,
	})
	return res.Instant, err
}

// Crossing resolves q.
func (s *Solver) Crossing(q CrossingQuery) (CrossingResult, error) {
	target, err := validateQuery(q.Body, q.Target, q.Start)
	if err != nil {
		return CrossingResult{}, err
	}
	if !q.Direction.Valid() {
		return CrossingResult{}, fmt.Errorf("%w: direction %v", ErrInvalidInput, q.Direction)
	}
	if !(q.Tolerance > 0) || math.IsInf(q.Tolerance, 0) {
		return CrossingResult{}, fmt.Errorf("%w: tolerance %v days", ErrInvalidInput, q.Tolerance)
	}
	return s.crossing(q.Body, target, float64(q.Start), q.Direction, q.Tolerance)
}

// crossing runs one bracket search and refinement over a fresh sampler.
// Inputs are already validated.
func (s *Solver) crossing(body Body, target, start float64, dir Direction, tol float64) (CrossingResult, error) {
	smp := solver.NewSampler(s.lookup(body), target)

	br, err := solver.FindBracket(smp, start, dir, body.Step(), s.opts.MaxIterations)
	if err != nil {
		return CrossingResult{}, fmt.Errorf("%s crossing %.4f°: %w", body.ID, target, err)
	}

	res, err := solver.Refine(smp, br, tol, s.opts.MaxIterations)
	if err != nil {
		return CrossingResult{}, fmt.Errorf("%s crossing %.4f°: %w", body.ID, target, err)
	}

	return CrossingResult{
		Instant:    Instant(res.Instant),
		Iterations: br.Steps + res.Iterations,
		Sense:      res.Sense,
	}, nil
}

// LongitudeAt returns body's normalized longitude at the given instant. A
// return in the strict sense is a crossing of the longitude a body had at
// the anchor; this is how to get that target.
func (s *Solver) LongitudeAt(body Body, at Instant) (float64, error) {
	if _, err := validateQuery(body, 0, at); err != nil {
		return 0, err
	}
	return solver.NewSampler(s.lookup(body), 0).Longitude(float64(at))
}

func (s *Solver) lookup(body Body) solver.LongitudeFunc {
	id := body.ID
	return func(jd float64) (float64, error) {
		return s.provider.Longitude(id, Instant(jd))
	}
}

func validateQuery(body Body, target float64, at Instant) (float64, error) {
	if err := body.Validate(); err != nil {
		return 0, err
	}
	if !timeutil.IsFinite(float64(at)) {
		return 0, fmt.Errorf("%w: instant %v is not finite", ErrInvalidInput, float64(at))
	}
	return NormalizeLongitude(target)
}
