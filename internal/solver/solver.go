// Package solver finds the instants at which a body's ecliptic longitude
// passes through a target value. It works on plain Julian Day numbers and
// degrees; callers supply the longitude lookup.
//
// The strategy is the classic bracket-then-bisect: step through time until
// the target changes sides between two samples, then halve that interval
// until it is narrower than the requested tolerance.
package solver

import (
	"errors"
	"fmt"
)

// DefaultMaxIterations bounds both the bracket walk and the bisection.
const DefaultMaxIterations = 1000

var (
	// ErrInvalid is returned for malformed search parameters.
	ErrInvalid = errors.New("invalid input")

	// ErrNotFound is returned when no crossing was found within the
	// iteration bound, or a bracket turned out not to contain one.
	ErrNotFound = errors.New("crossing not found")

	// ErrLookup wraps failures (and non-finite values) from the longitude
	// lookup.
	ErrLookup = errors.New("longitude provider error")
)

// LongitudeFunc returns a longitude in degrees at Julian Day jd.
type LongitudeFunc func(jd float64) (float64, error)

// Direction is the direction of travel through time.
type Direction int

const (
	// Forward searches toward later instants.
	Forward Direction = 1
	// Backward searches toward earlier instants.
	Backward Direction = -1
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Valid reports whether d is Forward or Backward.
func (d Direction) Valid() bool {
	return d == Forward || d == Backward
}

// Sense describes which way the longitude moved through the target, in
// calendar order.
type Sense int

const (
	// Direct means the longitude was increasing through the target.
	Direct Sense = iota
	// Retrograde means the longitude was decreasing through the target.
	Retrograde
)

func (s Sense) String() string {
	if s == Retrograde {
		return "retrograde"
	}
	return "direct"
}
