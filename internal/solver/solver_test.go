package solver

import (
	"errors"
	"math"
	"testing"
)

// linear returns a body moving at rate deg/day that sits at lon0 at jd 0.
func linear(lon0, rate float64) LongitudeFunc {
	return func(jd float64) (float64, error) {
		return math.Mod(lon0+rate*jd, 360), nil
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		from, to, want float64
	}{
		{10, 20, 10},
		{20, 10, -10},
		{359.9, 0.1, 0.2},
		{0.1, 359.9, -0.2},
		{0, 180, 180},
		{180, 0, 180},
		{90, 270, 180},
		{0, 179.5, 179.5},
		{0, 180.5, -179.5},
		{-10, 10, 20},
		{720, 1, 1},
	}

	for _, tt := range tests {
		got := Delta(tt.from, tt.to)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Delta(%v, %v) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
		if got <= -180 || got > 180 {
			t.Errorf("Delta(%v, %v) = %v, outside (-180, 180]", tt.from, tt.to, got)
		}
	}
}

func TestCrossedIgnoresOppositionSeam(t *testing.T) {
	// Body passing the point opposite the target: delta jumps 180 -> -180.
	if crossed(179, -179) {
		t.Errorf("crossed(179, -179) = true, want false")
	}
	if !crossed(1, -1) {
		t.Errorf("crossed(1, -1) = false, want true")
	}
	if !crossed(-1, 1) {
		t.Errorf("crossed(-1, 1) = false, want true (retrograde)")
	}
	if !crossed(0.5, 0) {
		t.Errorf("landing exactly on the target should count as crossed")
	}
}

func TestEstimateStep(t *testing.T) {
	tests := []struct {
		name             string
		period, override float64
		want             float64
	}{
		{"year", 365.25, 0, 365.25 / 12},
		{"override wins", 27.32, 2, 2},
		{"unknown defaults to a year", 0, 0, DefaultPeriodDays / 12},
		{"negative override ignored", 120, -1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EstimateStep(tt.period, tt.override); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("EstimateStep(%v, %v) = %v, want %v", tt.period, tt.override, got, tt.want)
			}
		})
	}
}

func TestFindBracket_Forward(t *testing.T) {
	s := NewSampler(linear(0, 1), 100)

	b, err := FindBracket(s, 0, Forward, 30, 0)
	if err != nil {
		t.Fatalf("FindBracket: %v", err)
	}
	if b.From != 90 || b.To != 120 {
		t.Errorf("bracket = [%v, %v], want [90, 120]", b.From, b.To)
	}
	if b.Sense != Direct {
		t.Errorf("sense = %v, want direct", b.Sense)
	}
	if b.Steps != 4 {
		t.Errorf("steps = %d, want 4", b.Steps)
	}
}

func TestFindBracket_Backward(t *testing.T) {
	s := NewSampler(linear(0, 1), 100)

	b, err := FindBracket(s, 200, Backward, 30, 0)
	if err != nil {
		t.Fatalf("FindBracket: %v", err)
	}
	// Walking back from 200: 170, 140, 110, 80.
	if b.From != 110 || b.To != 80 {
		t.Errorf("bracket = from %v to %v, want from 110 to 80", b.From, b.To)
	}
	if b.Lo() != 80 || b.Hi() != 110 {
		t.Errorf("Lo/Hi = %v/%v, want 80/110", b.Lo(), b.Hi())
	}
	if b.Sense != Direct {
		t.Errorf("sense = %v, want direct (longitude increases in calendar order)", b.Sense)
	}
}

func TestFindBracket_Wraparound(t *testing.T) {
	// Fast body, ~13.2°/day, starting at 220°, target 0°. The seam is
	// crossed at ~10.6 days, well within half of its 27.3-day period.
	const period = 27.3
	s := NewSampler(linear(220, 13.2), 0)

	b, err := FindBracket(s, 0, Forward, 2, 0)
	if err != nil {
		t.Fatalf("FindBracket: %v", err)
	}
	if b.Hi() > period/2 {
		t.Errorf("bracket ends at %v days, want within half period (%v)", b.Hi(), period/2)
	}
	if want := 140.0 / 13.2; want < b.Lo() || want > b.Hi() {
		t.Errorf("bracket [%v, %v] does not contain %v", b.Lo(), b.Hi(), want)
	}
}

func TestFindBracket_NotFound(t *testing.T) {
	// Oscillates between 0° and 90°: never reaches 200°.
	osc := func(jd float64) (float64, error) {
		return 45 + 45*math.Sin(jd/10), nil
	}
	s := NewSampler(osc, 200)

	_, err := FindBracket(s, 0, Forward, 1, 50)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if s.Lookups() != 51 {
		t.Errorf("lookups = %d, want 51 (start + 50 steps)", s.Lookups())
	}
}

func TestFindBracket_InvalidStep(t *testing.T) {
	s := NewSampler(linear(0, 1), 10)
	for _, step := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := FindBracket(s, 0, Forward, step, 0); !errors.Is(err, ErrInvalid) {
			t.Errorf("step %v: err = %v, want ErrInvalid", step, err)
		}
	}
	if _, err := FindBracket(s, 0, Direction(0), 1, 0); !errors.Is(err, ErrInvalid) {
		t.Errorf("zero direction: err = %v, want ErrInvalid", err)
	}
}

func TestSampler_LookupErrors(t *testing.T) {
	boom := errors.New("boom")
	s := NewSampler(func(float64) (float64, error) { return 0, boom }, 10)
	if _, err := s.Delta(0); !errors.Is(err, ErrLookup) || !errors.Is(err, boom) {
		t.Errorf("err = %v, want ErrLookup wrapping boom", err)
	}

	s = NewSampler(func(float64) (float64, error) { return math.NaN(), nil }, 10)
	if _, err := s.Delta(0); !errors.Is(err, ErrLookup) {
		t.Errorf("NaN longitude: err = %v, want ErrLookup", err)
	}
}

func TestSampler_Memoizes(t *testing.T) {
	calls := 0
	f := func(jd float64) (float64, error) {
		calls++
		return jd, nil
	}
	s := NewSampler(f, 50)
	for i := 0; i < 3; i++ {
		if _, err := s.Delta(10); err != nil {
			t.Fatal(err)
		}
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRefine(t *testing.T) {
	const tol = 1.0 / 86400 // one second
	s := NewSampler(linear(0, 1), 100.25)

	b, err := FindBracket(s, 0, Forward, 30, 0)
	if err != nil {
		t.Fatalf("FindBracket: %v", err)
	}
	r, err := Refine(s, b, tol, 0)
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if math.Abs(r.Instant-100.25) > tol {
		t.Errorf("instant = %.9f, want 100.25 ± %g", r.Instant, tol)
	}
	// log2(30 / tol) ≈ 21.3
	if r.Iterations < 21 || r.Iterations > 23 {
		t.Errorf("iterations = %d, want ~22", r.Iterations)
	}
}

func TestRefine_BackwardBracket(t *testing.T) {
	const tol = 1e-6
	s := NewSampler(linear(0, 1), 100.25)

	b, err := FindBracket(s, 400, Backward, 7, 0)
	if err != nil {
		t.Fatalf("FindBracket: %v", err)
	}
	r, err := Refine(s, b, tol, 0)
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if math.Abs(r.Instant-100.25) > tol {
		t.Errorf("instant = %.9f, want 100.25", r.Instant)
	}
}

func TestRefine_Seam(t *testing.T) {
	const tol = 1e-6
	// 350° at jd 0, 1°/day: hits 0° at jd 10.
	s := NewSampler(linear(350, 1), 0)

	b, err := FindBracket(s, 0, Forward, 3, 0)
	if err != nil {
		t.Fatalf("FindBracket: %v", err)
	}
	r, err := Refine(s, b, tol, 0)
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if math.Abs(r.Instant-10) > tol {
		t.Errorf("instant = %.9f, want 10", r.Instant)
	}
}

func TestRefine_MalformedBracket(t *testing.T) {
	s := NewSampler(linear(0, 1), 100)
	_, err := Refine(s, Bracket{From: 0, To: 10}, 1e-3, 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRefine_IterationCeiling(t *testing.T) {
	s := NewSampler(linear(0, 1), 100)
	_, err := Refine(s, Bracket{From: 90, To: 120}, 1e-9, 5)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after 5 iterations", err)
	}
}

func TestRefine_InvalidTolerance(t *testing.T) {
	s := NewSampler(linear(0, 1), 100)
	for _, tol := range []float64{0, -1, math.NaN()} {
		if _, err := Refine(s, Bracket{From: 90, To: 120}, tol, 0); !errors.Is(err, ErrInvalid) {
			t.Errorf("tol %v: err = %v, want ErrInvalid", tol, err)
		}
	}
}

// retro is a body that advances 0.9°/day on average with a 100-day
// oscillation strong enough to run backwards for about a third of it.
func retro(jd float64) (float64, error) {
	return 0.9*jd + 30*math.Sin(2*math.Pi*jd/100), nil
}

func TestScan_FindsRetrogradeCrossing(t *testing.T) {
	// lon(50) = 45 exactly, in the middle of the backward run.
	s := NewSampler(retro, 45)

	b, found, err := Scan(s, 30, 70, 0.5, 0)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !found {
		t.Fatalf("Scan found no retrograde crossing")
	}
	if b.Lo() > 50 || b.Hi() < 50 {
		t.Errorf("bracket [%v, %v] does not contain 50", b.Lo(), b.Hi())
	}

	r, err := Refine(s, b, 1e-6, 0)
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if math.Abs(r.Instant-50) > 1e-5 {
		t.Errorf("instant = %v, want 50", r.Instant)
	}
	if r.Sense != Retrograde {
		t.Errorf("sense = %v, want retrograde", r.Sense)
	}
}

func TestScan_FirstCrossingOfEitherSense(t *testing.T) {
	s := NewSampler(linear(0, 1), 20)
	b, found, err := Scan(s, 0, 40, 1, 0)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !found || b.Sense != Direct {
		t.Fatalf("Scan = %+v, %v; want a direct crossing", b, found)
	}
	if b.Lo() > 20 || b.Hi() < 20 {
		t.Errorf("bracket [%v, %v] does not contain 20", b.Lo(), b.Hi())
	}
}

func TestScan_EmptyWindow(t *testing.T) {
	s := NewSampler(linear(0, 1), 20)
	if _, found, err := Scan(s, 10, 10, 1, 0); found || err != nil {
		t.Errorf("Scan on empty window = %v, %v; want false, nil", found, err)
	}
}

func TestScan_SampleCeiling(t *testing.T) {
	s := NewSampler(linear(0, 1), 200)
	if _, _, err := Scan(s, 0, 100, 1, 50); !errors.Is(err, ErrNotFound) {
		t.Errorf("100 samples with a ceiling of 50: err = %v, want ErrNotFound", err)
	}
	if _, found, err := Scan(s, 0, 100, 1, 100); found || err != nil {
		t.Errorf("100 samples with a ceiling of 100 = %v, %v; want false, nil", found, err)
	}
}

// dip dives just below 45° around jd 20 and climbs back: it crosses 45°
// retrograde at 20-sqrt(10) and direct at 20+sqrt(10).
func dip(jd float64) (float64, error) {
	return 44.9 + 0.01*(jd-20)*(jd-20), nil
}

func TestScan_PairBetweenSamples(t *testing.T) {
	s := NewSampler(dip, 45)

	// Samples at 5, 15, 25, 35 all sit above 45°.
	b, found, err := Scan(s, 5, 45, 10, 0)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !found {
		t.Fatal("Scan missed the crossing pair between samples")
	}
	if b.Sense != Retrograde {
		t.Errorf("sense = %v, want the retrograde leg first", b.Sense)
	}

	r, err := Refine(s, b, 1e-6, 0)
	if err != nil {
		t.Fatalf("Refine: %v", err)
	}
	if want := 20 - math.Sqrt(10); math.Abs(r.Instant-want) > 1e-5 {
		t.Errorf("instant = %v, want %v", r.Instant, want)
	}
}

func TestScan_TurningPointShortOfTarget(t *testing.T) {
	// Bottoms out at 45.1°: no crossing at all.
	s := NewSampler(func(jd float64) (float64, error) {
		return 45.1 + 0.01*(jd-20)*(jd-20), nil
	}, 45)
	if _, found, err := Scan(s, 5, 45, 10, 0); found || err != nil {
		t.Errorf("Scan = %v, %v; want false, nil", found, err)
	}
}

func TestFindBracket_StartOnTarget(t *testing.T) {
	// linear(0, 1) is at 100° on jd 100, 460 and -260.
	tests := []struct {
		dir  Direction
		want float64
	}{
		{Forward, 460},
		{Backward, -260},
	}

	for _, tt := range tests {
		t.Run(tt.dir.String(), func(t *testing.T) {
			s := NewSampler(linear(0, 1), 100)
			b, err := FindBracket(s, 100, tt.dir, 30, 0)
			if err != nil {
				t.Fatalf("FindBracket: %v", err)
			}
			if b.Lo() > tt.want || b.Hi() < tt.want {
				t.Errorf("bracket [%v, %v], want the crossing at %v, not the start", b.Lo(), b.Hi(), tt.want)
			}
		})
	}
}

func TestScan_StartOnTarget(t *testing.T) {
	s := NewSampler(linear(0, 1), 100)
	if b, found, err := Scan(s, 100, 200, 1, 0); found || err != nil {
		t.Errorf("Scan from the target = %+v, %v, %v; want nothing found", b, found, err)
	}
}
