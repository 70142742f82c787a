package timeutil

import (
	"math"
	"testing"
	"time"
)

func TestJulianDay_J2000(t *testing.T) {
	epoch := time.Date(2000, time.January, 1, 12, 0, 0, 0, time.UTC)
	if got := JulianDay(epoch); got != J2000 {
		t.Errorf("JulianDay(J2000) = %v, want %v", got, J2000)
	}
	if got := DaysSinceJ2000(JulianDay(epoch.Add(36 * time.Hour))); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("DaysSinceJ2000 = %v, want 1.5", got)
	}
}

func TestJulianDay_UnixEpoch(t *testing.T) {
	if got := JulianDay(time.Unix(0, 0)); got != unixEpochJD {
		t.Errorf("JulianDay(unix 0) = %v, want %v", got, unixEpochJD)
	}
}

func TestFromJulianDay_RoundTrip(t *testing.T) {
	cases := []time.Time{
		time.Date(2025, time.January, 5, 14, 37, 12, 0, time.UTC),
		time.Date(1987, time.July, 19, 3, 2, 1, 500_000_000, time.UTC),
		time.Date(2049, time.December, 31, 23, 59, 59, 0, time.UTC),
	}

	for _, want := range cases {
		got := FromJulianDay(JulianDay(want))
		if d := got.Sub(want); d < -time.Millisecond || d > time.Millisecond {
			t.Errorf("round trip of %v = %v (off by %v)", want, got, d)
		}
		if got.Location() != time.UTC {
			t.Errorf("FromJulianDay returned location %v, want UTC", got.Location())
		}
	}
}

func TestJulianDay_IgnoresZone(t *testing.T) {
	loc := time.FixedZone("UTC-7", -7*3600)
	local := time.Date(2025, time.March, 1, 5, 0, 0, 0, loc)
	utc := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	if JulianDay(local) != JulianDay(utc) {
		t.Errorf("JulianDay depends on zone: %v vs %v", JulianDay(local), JulianDay(utc))
	}
}

func TestNormalize360(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{359.5, 359.5},
		{360, 0},
		{725, 5},
		{-10, 350},
		{-360, 0},
		{-1e-15, 0},
	}

	for _, tt := range tests {
		got := Normalize360(tt.in)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize360(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got >= 360 {
			t.Errorf("Normalize360(%v) = %v, outside [0, 360)", tt.in, got)
		}
	}
}

func TestDayDurations(t *testing.T) {
	if got := SecondsToDays(12 * time.Hour); got != 0.5 {
		t.Errorf("SecondsToDays(12h) = %v, want 0.5", got)
	}
	if got := DaysToDuration(1.5); got != 36*time.Hour {
		t.Errorf("DaysToDuration(1.5) = %v, want 36h", got)
	}
}

func TestIsFinite(t *testing.T) {
	if !IsFinite(1) || IsFinite(math.NaN()) || IsFinite(math.Inf(-1)) {
		t.Errorf("IsFinite misclassifies values")
	}
}
