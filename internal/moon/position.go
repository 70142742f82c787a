package moon

import (
	"math"

	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// SiderealMonth is the Moon's mean period around the ecliptic, in days.
const SiderealMonth = 27.321661

// SynodicMonth is the mean interval between identical lunar phases, in days.
const SynodicMonth = 29.530588853

// Ecliptic holds geocentric ecliptic coordinates in degrees.
type Ecliptic struct {
	Lon float64 // longitude, [0, 360)
	Lat float64 // latitude, [-90, 90]
}

// EclipticApprox returns the Moon's approximate geocentric ecliptic
// position (mean equinox of date) at Julian Day jd.
//
// This is a medium-precision model using a small set of dominant periodic terms
// in ecliptic longitude and latitude. It's good to a few tenths of a degree,
// which puts lunar events within the hour.
//
// Roughly based on truncated Meeus-style series:
//
//	L'  = mean longitude of the Moon
//	M   = mean anomaly of the Sun
//	Mm  = mean anomaly of the Moon
//	D   = mean elongation of the Moon from the Sun
//	F   = argument of latitude of the Moon
func EclipticApprox(jd float64) Ecliptic {
	d := timeutil.DaysSinceJ2000(jd)

	// All linear coefficients here are in deg/day.
	Lprime := 218.3164477 + 13.17639648*d // mean longitude of the Moon
	M := 357.5291092 + 0.98560028*d       // mean anomaly of the Sun
	Mm := 134.9633964 + 13.06499295*d     // mean anomaly of the Moon
	D := 297.8501921 + 12.19074912*d      // mean elongation from the Sun
	F := 93.2720950 + 13.22935024*d       // argument of latitude

	Mr := timeutil.Deg2Rad(timeutil.Normalize360(M))
	Mmr := timeutil.Deg2Rad(timeutil.Normalize360(Mm))
	Dr := timeutil.Deg2Rad(timeutil.Normalize360(D))
	Fr := timeutil.Deg2Rad(timeutil.Normalize360(F))

	// λ ≈ L' + 6.289 sin(Mm) + 1.274 sin(2D − Mm)
	//      + 0.658 sin(2D) + 0.214 sin(2Mm) − 0.186 sin(M)
	//      − 0.114 sin(2F)
	lon := Lprime +
		6.289*math.Sin(Mmr) +
		1.274*math.Sin(2*Dr-Mmr) +
		0.658*math.Sin(2*Dr) +
		0.214*math.Sin(2*Mmr) -
		0.186*math.Sin(Mr) -
		0.114*math.Sin(2*Fr)

	// β ≈ 5.128 sin(F) + 0.280 sin(Mm + F)
	//      + 0.277 sin(Mm − F) + 0.173 sin(2D − F)
	lat := 5.128*math.Sin(Fr) +
		0.280*math.Sin(Mmr+Fr) +
		0.277*math.Sin(Mmr-Fr) +
		0.173*math.Sin(2*Dr-Fr)

	return Ecliptic{
		Lon: timeutil.Normalize360(lon),
		Lat: lat,
	}
}

// EclipticLongitude is EclipticApprox(jd).Lon.
func EclipticLongitude(jd float64) float64 {
	return EclipticApprox(jd).Lon
}
