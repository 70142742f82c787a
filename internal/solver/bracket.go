package solver

import (
	"fmt"
	"math"
)

// Bracket is a time interval known to contain one crossing.
//
// From is the endpoint at which the target had not yet been crossed and To
// the endpoint at which it had, in search order: for a backward search From
// is the later of the two.
type Bracket struct {
	From  float64
	To    float64
	Sense Sense
	Steps int // samples taken to find the bracket
}

// Lo returns the earlier endpoint.
func (b Bracket) Lo() float64 { return math.Min(b.From, b.To) }

// Hi returns the later endpoint.
func (b Bracket) Hi() float64 { return math.Max(b.From, b.To) }

// Width returns the bracket length in days.
func (b Bracket) Width() float64 { return math.Abs(b.To - b.From) }

// FindBracket walks from start in direction dir, step days at a time, and
// returns the first pair of consecutive samples between which the target
// changes sides. It gives up with ErrNotFound after maxIter steps
// (DefaultMaxIterations when maxIter <= 0).
//
// A start exactly on the target is not a crossing in either direction: the
// walk takes its first side from the next sample. Like Scan, the walk looks
// between samples for a crossing pair hidden by a turning point.
func FindBracket(s *Sampler, start float64, dir Direction, step float64, maxIter int) (Bracket, error) {
	if !dir.Valid() {
		return Bracket{}, fmt.Errorf("%w: direction %v", ErrInvalid, dir)
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return Bracket{}, fmt.Errorf("%w: step %v days", ErrInvalid, step)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	prevT := start
	prevD, err := s.Delta(prevT)
	if err != nil {
		return Bracket{}, err
	}

	var (
		backT, backD float64
		haveBack     bool
	)
	signed := step * float64(dir)
	for i := 1; i <= maxIter; i++ {
		// Multiply rather than accumulate so long walks don't drift.
		t := start + float64(i)*signed
		d, err := s.Delta(t)
		if err != nil {
			return Bracket{}, err
		}

		if i == 1 && prevD == 0 {
			prevT, prevD = t, d
			continue
		}

		if crossed(prevD, d) {
			b := Bracket{From: prevT, To: t, Steps: i}
			if dir == Forward {
				b.Sense = senseOf(prevD, d)
			} else {
				b.Sense = senseOf(d, prevD)
			}
			return b, nil
		}

		if haveBack {
			hb, ok, err := hiddenCrossing(s, dir, backT, backD, prevD, t, d)
			if err != nil {
				return Bracket{}, err
			}
			if ok {
				hb.Steps = i
				return hb, nil
			}
		}

		backT, backD, haveBack = prevT, prevD, true
		prevT, prevD = t, d
	}

	return Bracket{}, fmt.Errorf("%w: target %.4f° not reached within %d steps of %.4g days %s from JD %.6f",
		ErrNotFound, s.target, maxIter, step, dir, start)
}
