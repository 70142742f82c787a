package solver

import (
	"fmt"

	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// Sampler evaluates the body-to-target delta and memoizes it by instant.
//
// A Sampler belongs to a single search call. It must not be shared between
// queries: its memo is keyed by instant only and is only valid for the
// body and target it was created with.
type Sampler struct {
	f      LongitudeFunc
	target float64
	memo   map[float64]float64

	lookups int
}

// NewSampler returns a sampler measuring arcs from f's longitude to target.
func NewSampler(f LongitudeFunc, target float64) *Sampler {
	return &Sampler{
		f:      f,
		target: timeutil.Normalize360(target),
		memo:   make(map[float64]float64),
	}
}

// Target returns the normalized target longitude.
func (s *Sampler) Target() float64 { return s.target }

// Lookups returns how many times the underlying function was called.
func (s *Sampler) Lookups() int { return s.lookups }

// Longitude looks up the normalized longitude at jd, bypassing the memo.
func (s *Sampler) Longitude(jd float64) (float64, error) {
	lon, err := s.f(jd)
	s.lookups++
	if err != nil {
		return 0, fmt.Errorf("%w: at JD %.6f: %w", ErrLookup, jd, err)
	}
	if !timeutil.IsFinite(lon) {
		return 0, fmt.Errorf("%w: non-finite longitude %v at JD %.6f", ErrLookup, lon, jd)
	}
	return timeutil.Normalize360(lon), nil
}

// Delta returns Delta(longitude(jd), target).
func (s *Sampler) Delta(jd float64) (float64, error) {
	if d, ok := s.memo[jd]; ok {
		return d, nil
	}

	lon, err := s.Longitude(jd)
	if err != nil {
		return 0, err
	}

	d := Delta(lon, s.target)
	s.memo[jd] = d
	return d, nil
}
