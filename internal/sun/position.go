package sun

import "github.com/thurmanmarka/astroreturn/internal/timeutil"

// MeanMotion is the Sun's average geocentric motion in degrees per day.
const MeanMotion = 0.98564736

// EclipticLongitude returns the Sun's approximate geocentric ecliptic
// longitude (degrees, mean equinox of date) at Julian Day jd.
//
// This is a standard low/medium-precision solar position model, good to
// about 0.01° over a few centuries around J2000.
//
// Based on a simplified NOAA / Meeus-style algorithm:
//
//	g  = mean anomaly of the Sun
//	q  = mean longitude of the Sun
//	L  = q + equation of center
func EclipticLongitude(jd float64) float64 {
	d := timeutil.DaysSinceJ2000(jd)

	// Mean anomaly of the Sun (deg)
	g := 357.529 + 0.98560028*d

	// Mean longitude of the Sun (deg)
	q := 280.459 + MeanMotion*d

	// Ecliptic longitude with equation of center
	L := q +
		1.915*timeutil.SinD(g) +
		0.020*timeutil.SinD(2*g)

	return timeutil.Normalize360(L)
}
