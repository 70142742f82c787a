package astroreturn

import (
	"fmt"
	"math"

	"github.com/thurmanmarka/astroreturn/internal/solver"
)

// maxSkippedLoops bounds how many retrograde loops may be passed over
// while looking for one return. Overlapping loops of the slowest planets
// can put a few in a row on one target.
const maxSkippedLoops = 8

// FindNthReturn returns the nth (n >= 1) return of body to target after
// anchor, resolved to the solver's tolerance.
//
// For bodies that can retrograde, crossings are counted once per return
// season: a crossing counts only if the longitude is increasing through
// the target and does not come back across it (retrograde) within the
// body's guard window before it next passes it direct. Re-crossings
// produced by a retrograde loop are skipped rather than counted as extra
// returns.
func (s *Solver) FindNthReturn(body Body, target float64, anchor Instant, n int) (Instant, error) {
	res, err := s.Return(ReturnQuery{
		Body:   body,
		Target: target,
		Anchor: anchor,
		Mode:   NthFromAnchor,
		N:      n,
	})
	return res.Instant, err
}

// FindNearestReturn returns the crossing of target closest in time to
// anchor, looking both forward and backward. Ties, to within the solver's
// tolerance, go to the later one.
func (s *Solver) FindNearestReturn(body Body, target float64, anchor Instant) (Instant, error) {
	res, err := s.Return(ReturnQuery{
		Body:   body,
		Target: target,
		Anchor: anchor,
		Mode:   NearestToAnchor,
	})
	return res.Instant, err
}

// Returns lists the first n returns of body to target after anchor, in
// calendar order. Each result's Iterations covers that return only.
func (s *Solver) Returns(body Body, target float64, anchor Instant, n int) ([]CrossingResult, error) {
	t, err := validateQuery(body, target, anchor)
	if err != nil {
		return nil, err
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: occurrence %d, want >= 1", ErrInvalidInput, n)
	}
	return s.returns(body, t, float64(anchor), n)
}

// Return resolves q.
func (s *Solver) Return(q ReturnQuery) (CrossingResult, error) {
	target, err := validateQuery(q.Body, q.Target, q.Anchor)
	if err != nil {
		return CrossingResult{}, err
	}

	switch q.Mode {
	case NthFromAnchor:
		if q.N < 1 {
			return CrossingResult{}, fmt.Errorf("%w: occurrence %d, want >= 1", ErrInvalidInput, q.N)
		}
		return s.nthReturn(q.Body, target, float64(q.Anchor), q.N)
	case NearestToAnchor:
		return s.nearestReturn(q.Body, target, float64(q.Anchor))
	default:
		return CrossingResult{}, fmt.Errorf("%w: return mode %v", ErrInvalidInput, q.Mode)
	}
}

func (s *Solver) nthReturn(body Body, target, anchor float64, n int) (CrossingResult, error) {
	all, err := s.returns(body, target, anchor, n)
	if err != nil {
		return CrossingResult{}, err
	}

	last := all[len(all)-1]
	last.Iterations = 0
	for _, r := range all {
		last.Iterations += r.Iterations
	}
	return last, nil
}

// returns chains n forward searches, each starting one epsilon past the
// previous return.
func (s *Solver) returns(body Body, target, anchor float64, n int) ([]CrossingResult, error) {
	out := make([]CrossingResult, 0, n)
	start := anchor

	for k := 1; k <= n; k++ {
		res, err := s.nextReturn(body, target, start)
		if err != nil {
			return nil, &OccurrenceError{Body: body.ID, Occurrence: k, Err: err}
		}
		out = append(out, res)
		start = float64(res.Instant) + s.opts.ReturnEpsilon
	}
	return out, nil
}

// nextReturn finds the first crossing after start that counts as a return.
// Iterations include those spent on crossings it passed over.
func (s *Solver) nextReturn(body Body, target, start float64) (CrossingResult, error) {
	c, err := s.crossing(body, target, start, Forward, s.opts.Tolerance)
	if err != nil {
		return CrossingResult{}, err
	}
	if !body.CanRetrograde {
		return c, nil
	}

	used := c.Iterations
	smp := solver.NewSampler(s.lookup(body), target)
	sense, from := c.Sense, float64(c.Instant)+s.opts.ReturnEpsilon

	for scans := 0; scans < 2*maxSkippedLoops+1; scans++ {
		b, found, err := s.nextCrossing(body, smp, from)
		if err != nil {
			return CrossingResult{}, err
		}
		used += b.Steps

		if sense == Direct {
			// After a direct pass the next crossing is either the
			// retrograde leg of a loop or, a full turn later, the next
			// direct pass.
			if !found || b.Sense == Direct {
				c.Iterations = used
				return c, nil
			}
		} else if !found {
			return CrossingResult{}, fmt.Errorf("%w: %s did not pass %.4f° direct within %.4g days of JD %.6f",
				ErrCrossingNotFound, body.ID, target, body.GuardWindow(), from)
		}

		// Resume from inside the bracket so a close pair is not straddled.
		sense, from = b.Sense, b.To
		if b.Sense != Direct {
			continue
		}

		r, err := solver.Refine(smp, b, s.opts.Tolerance, s.opts.MaxIterations)
		if err != nil {
			return CrossingResult{}, fmt.Errorf("%s crossing %.4f°: %w", body.ID, target, err)
		}
		used += r.Iterations
		c = CrossingResult{Instant: Instant(r.Instant), Sense: Direct}
	}

	return CrossingResult{}, fmt.Errorf("%w: %s passed %.4f° in more than %d retrograde loops without settling",
		ErrCrossingNotFound, body.ID, target, maxSkippedLoops)
}

// nextCrossing scans one guard window after from for the first crossing of
// either sense.
func (s *Solver) nextCrossing(body Body, smp *solver.Sampler, from float64) (solver.Bracket, bool, error) {
	b, found, err := solver.Scan(smp, from, from+body.GuardWindow(), body.guardStep(), s.opts.MaxIterations)
	if err != nil {
		return solver.Bracket{}, false, fmt.Errorf("%s retrograde guard at %.4f°: %w", body.ID, smp.Target(), err)
	}
	return b, found, nil
}

func (s *Solver) nearestReturn(body Body, target, anchor float64) (CrossingResult, error) {
	fwd, err := s.crossing(body, target, anchor, Forward, s.opts.Tolerance)
	if err != nil {
		return CrossingResult{}, fmt.Errorf("forward: %w", err)
	}
	bwd, err := s.crossing(body, target, anchor, Backward, s.opts.Tolerance)
	if err != nil {
		return CrossingResult{}, fmt.Errorf("backward: %w", err)
	}

	// Distances within tolerance of each other are a tie.
	best := fwd
	if math.Abs(float64(bwd.Instant)-anchor) < math.Abs(float64(fwd.Instant)-anchor)-s.opts.Tolerance {
		best = bwd
	}
	best.Iterations = fwd.Iterations + bwd.Iterations
	return best, nil
}
