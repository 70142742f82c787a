package timeutil

import (
	"math"
	"time"
)

// -----------------------------
// Time relative to J2000
// -----------------------------

// J2000 is the Julian Day of the J2000.0 epoch: 2000-01-01 12:00:00 UTC.
const J2000 = 2451545.0

// unixEpochJD is the Julian Day of 1970-01-01 00:00:00 UTC.
const unixEpochJD = 2440587.5

const secondsPerDay = 86400.0

// JulianDay returns the (UTC) Julian Day for t using the Meeus calendar
// formula. It agrees with FromJulianDay to well under a millisecond.
func JulianDay(t time.Time) float64 {
	u := t.UTC()
	year, month, day := u.Date()
	hour := float64(u.Hour()) +
		float64(u.Minute())/60.0 +
		float64(u.Second())/3600.0 +
		float64(u.Nanosecond())/(3600.0*1e9)

	y := year
	m := int(month)

	if m <= 2 {
		y -= 1
		m += 12
	}

	A := y / 100
	B := 2 - A + A/4

	jd := math.Floor(365.25*float64(y+4716)) +
		math.Floor(30.6001*float64(m+1)) +
		float64(day) + float64(B) - 1524.5 +
		hour/24.0

	return jd
}

// FromJulianDay converts a Julian Day back into a UTC time, rounded to the
// nearest millisecond to keep float noise out of printed results.
func FromJulianDay(jd float64) time.Time {
	seconds := (jd - unixEpochJD) * secondsPerDay
	whole := math.Floor(seconds)
	nanos := math.Round((seconds-whole)*1e3) * 1e6
	return time.Unix(int64(whole), int64(nanos)).UTC()
}

// DaysSinceJ2000 converts a Julian Day into days since the J2000.0 epoch.
func DaysSinceJ2000(jd float64) float64 {
	return jd - J2000
}

// JulianCenturies returns centuries since J2000.0.
func JulianCenturies(jd float64) float64 {
	return (jd - J2000) / 36525.0
}

// SecondsToDays converts a duration into fractional days.
func SecondsToDays(d time.Duration) float64 {
	return d.Seconds() / secondsPerDay
}

// DaysToDuration converts fractional days into a duration, rounded to the
// nearest millisecond.
func DaysToDuration(days float64) time.Duration {
	ms := math.Round(days * secondsPerDay * 1e3)
	return time.Duration(ms) * time.Millisecond
}

// -----------------------------
// Basic degree/radian helpers and trig with degree inputs.
// -----------------------------

func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180.0
}

func Rad2Deg(r float64) float64 {
	return r * 180.0 / math.Pi
}

func SinD(deg float64) float64 {
	return math.Sin(Deg2Rad(deg))
}

func CosD(deg float64) float64 {
	return math.Cos(Deg2Rad(deg))
}

// Normalize360 maps any finite angle into [0, 360).
func Normalize360(d float64) float64 {
	d = math.Mod(d, 360.0)
	if d < 0 {
		d += 360.0
	}
	// math.Mod(-1e-15, 360) + 360 rounds to exactly 360.
	if d >= 360.0 {
		d = 0
	}
	return d
}

// IsFinite reports whether v is neither NaN nor ±Inf.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
