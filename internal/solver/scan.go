package solver

import (
	"fmt"
	"math"
)

const (
	// extremumIterations and extremumResolution bound the search for a
	// turning point between samples.
	extremumIterations = 100
	extremumResolution = 1e-7 // days
)

// Scan samples the closed window [start, end] every step days and returns
// the bracket of the first crossing, of either sense. The last sample is
// taken exactly at end. A start sample exactly on the target does not count
// as a crossing.
//
// Near a station the body can dip across the target and back between two
// samples. When three samples on one side show the delta turning back
// within reach of the target, Scan searches between them for the turning
// point and, if it lies across the target, brackets the first of the two
// crossings.
//
// Running off the end of the window is not an error: found is simply
// false. A window needing more than maxIter samples (DefaultMaxIterations
// when maxIter <= 0) is ErrNotFound.
func Scan(s *Sampler, start, end, step float64, maxIter int) (b Bracket, found bool, err error) {
	if !(end > start) {
		return Bracket{}, false, nil
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return Bracket{}, false, fmt.Errorf("%w: step %v days", ErrInvalid, step)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	steps := int(math.Ceil((end - start) / step))
	if steps > maxIter {
		return Bracket{}, false, fmt.Errorf("%w: window of %.4g days needs %d samples, limit is %d",
			ErrNotFound, end-start, steps, maxIter)
	}

	prevT := start
	prevD, err := s.Delta(prevT)
	if err != nil {
		return Bracket{}, false, err
	}

	var (
		backT, backD float64
		haveBack     bool
	)
	for i := 1; i <= steps; i++ {
		t := start + float64(i)*step
		if i == steps || t > end {
			t = end
		}
		d, err := s.Delta(t)
		if err != nil {
			return Bracket{}, false, err
		}

		if i == 1 && prevD == 0 {
			prevT, prevD = t, d
			continue
		}

		if crossed(prevD, d) {
			return Bracket{From: prevT, To: t, Sense: senseOf(prevD, d), Steps: i}, true, nil
		}

		if haveBack {
			hb, ok, err := hiddenCrossing(s, Forward, backT, backD, prevD, t, d)
			if err != nil {
				return Bracket{}, false, err
			}
			if ok {
				hb.Steps = i
				return hb, true, nil
			}
		}

		backT, backD, haveBack = prevT, prevD, true
		prevT, prevD = t, d
	}

	return Bracket{}, false, nil
}

// hiddenCrossing looks between t0 and t2 for a pair of crossings the
// samples missed. d0, d1 and d2 are the deltas at t0, the sample between,
// and t2, in search order. It returns a bracket of the first crossing met
// walking from t0 in direction dir.
func hiddenCrossing(s *Sampler, dir Direction, t0, d0, d1, t2, d2 float64) (Bracket, bool, error) {
	side := ahead(d1)
	if ahead(d0) != side || ahead(d2) != side {
		return Bracket{}, false, nil
	}

	// nearness grows toward the target from side.
	nearness := func(d float64) float64 {
		if side {
			return -d
		}
		return d
	}
	if !(nearness(d1) > nearness(d0) && nearness(d1) >= nearness(d2)) {
		return Bracket{}, false, nil
	}
	// The turning point overshoots the middle sample by less than the
	// larger change between neighbouring samples.
	reach := math.Max(math.Abs(d1-d0), math.Abs(d2-d1))
	if math.Abs(d1) > reach || math.Abs(d1) > 90 {
		return Bracket{}, false, nil
	}

	found := func(m, e float64) Bracket {
		b := Bracket{From: t0, To: m}
		if dir == Forward {
			b.Sense = senseOf(d0, e)
		} else {
			b.Sense = senseOf(e, d0)
		}
		return b
	}

	// lo is nearer t0; in a backward walk it is the later instant.
	lo, hi := t0, t2
	for i := 0; i < extremumIterations && math.Abs(hi-lo) > extremumResolution; i++ {
		m1 := lo + (hi-lo)/3
		m2 := hi - (hi-lo)/3

		e1, err := s.Delta(m1)
		if err != nil {
			return Bracket{}, false, err
		}
		if ahead(e1) != side {
			return found(m1, e1), true, nil
		}
		e2, err := s.Delta(m2)
		if err != nil {
			return Bracket{}, false, err
		}
		if ahead(e2) != side {
			return found(m2, e2), true, nil
		}

		if nearness(e1) < nearness(e2) {
			lo = m1
		} else {
			hi = m2
		}
	}
	return Bracket{}, false, nil
}
