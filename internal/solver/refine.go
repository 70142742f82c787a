package solver

import (
	"fmt"
	"math"
)

// Result is a resolved crossing.
type Result struct {
	Instant    float64 // Julian Day
	Iterations int     // bisection steps taken
	Sense      Sense
}

// Refine bisects b until it is narrower than tol days and returns the
// midpoint of the final interval. Throughout, b.From stays on the
// not-yet-crossed side and b.To on the crossed side.
//
// Bisection also stops once the interval can no longer be split in
// float64, which only matters for tolerances near the resolution of a
// Julian Day (tens of microseconds).
func Refine(s *Sampler, b Bracket, tol float64, maxIter int) (Result, error) {
	if !(tol > 0) || math.IsInf(tol, 0) {
		return Result{}, fmt.Errorf("%w: tolerance %v days", ErrInvalid, tol)
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}

	from, to := b.From, b.To
	dFrom, err := s.Delta(from)
	if err != nil {
		return Result{}, err
	}
	dTo, err := s.Delta(to)
	if err != nil {
		return Result{}, err
	}

	// Simple safety check
	if !crossed(dFrom, dTo) {
		return Result{}, fmt.Errorf("%w: bracket [%.6f, %.6f] does not contain a crossing of %.4f°",
			ErrNotFound, b.Lo(), b.Hi(), s.target)
	}

	iters := 0
	for math.Abs(to-from) >= tol {
		if iters >= maxIter {
			return Result{}, fmt.Errorf("%w: bisection did not converge to %.3g days in %d iterations",
				ErrNotFound, tol, maxIter)
		}

		mid := from + (to-from)/2
		if mid == from || mid == to {
			break
		}
		iters++

		dMid, err := s.Delta(mid)
		if err != nil {
			return Result{}, err
		}

		if crossed(dFrom, dMid) {
			to = mid
		} else {
			from, dFrom = mid, dMid
		}
	}

	return Result{
		Instant:    from + (to-from)/2,
		Iterations: iters,
		Sense:      b.Sense,
	}, nil
}
