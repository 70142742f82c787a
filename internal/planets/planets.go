// Package planets computes approximate geocentric ecliptic longitudes of
// the major planets from mean Keplerian elements.
//
// Elements and rates are the J2000 ecliptic values from JPL's
// "Approximate Positions of the Planets" (Standish), valid 1800–2050 AD.
// Accuracy is a few arcminutes for the inner planets and rarely worse than
// a quarter degree for the outer ones: plenty to place retrograde stations
// within a day or two, not an ephemeris.
package planets

import (
	"math"
	"strings"

	"github.com/thurmanmarka/astroreturn/internal/timeutil"
)

// precessionPerCentury converts J2000 longitudes to the mean equinox of
// date, so they share a frame with the solar and lunar models.
const precessionPerCentury = 1.396971

// Elements are Keplerian elements at J2000 with their rates per Julian
// century. Angles in degrees, a in AU.
type Elements struct {
	A, ADot       float64 // semi-major axis
	E, EDot       float64 // eccentricity
	I, IDot       float64 // inclination
	L, LDot       float64 // mean longitude
	Peri, PeriDot float64 // longitude of perihelion
	Node, NodeDot float64 // longitude of ascending node
}

// Planet names a body in the table.
type Planet struct {
	Name string
	el   Elements
}

var (
	Mercury = Planet{"mercury", Elements{
		0.38709927, 0.00000037, 0.20563593, 0.00001906, 7.00497902, -0.00594749,
		252.25032350, 149472.67411175, 77.45779628, 0.16047689, 48.33076593, -0.12534081}}
	Venus = Planet{"venus", Elements{
		0.72333566, 0.00000390, 0.00677672, -0.00004107, 3.39467605, -0.00078890,
		181.97909950, 58517.81538729, 131.60246718, 0.00268329, 76.67984255, -0.27769418}}
	EarthMoonBary = Planet{"earth", Elements{
		1.00000261, 0.00000562, 0.01671123, -0.00004392, -0.00001531, -0.01294668,
		100.46457166, 35999.37244981, 102.93768193, 0.32327364, 0.0, 0.0}}
	Mars = Planet{"mars", Elements{
		1.52371034, 0.00001847, 0.09339410, 0.00007882, 1.84969142, -0.00813131,
		-4.55343205, 19140.30268499, -23.94362959, 0.44441088, 49.55953891, -0.29257343}}
	Jupiter = Planet{"jupiter", Elements{
		5.20288700, -0.00011607, 0.04838624, -0.00013253, 1.30439695, -0.00183714,
		34.39644051, 3034.74612775, 14.72847983, 0.21252668, 100.47390909, 0.20469106}}
	Saturn = Planet{"saturn", Elements{
		9.53667594, -0.00125060, 0.05386179, -0.00050991, 2.48599187, 0.00193609,
		49.95424423, 1222.49362201, 92.59887831, -0.41897216, 113.66242448, -0.28867794}}
	Uranus = Planet{"uranus", Elements{
		19.18916464, -0.00196176, 0.04725744, -0.00004397, 0.77263783, -0.00242939,
		313.23810451, 428.48202785, 170.95427630, 0.40805281, 74.01692503, 0.04240589}}
	Neptune = Planet{"neptune", Elements{
		30.06992276, 0.00026291, 0.00859048, 0.00005105, 1.77004347, 0.00035372,
		-55.12002969, 218.45945325, 44.96476227, -0.32241464, 131.78422574, -0.00508664}}
	Pluto = Planet{"pluto", Elements{
		39.48211675, -0.00031596, 0.24882730, 0.00005170, 17.14001206, 0.00004818,
		238.92903833, 145.20780515, 224.06891629, -0.04062942, 110.30393684, -0.01183482}}
)

var byName = map[string]Planet{
	Mercury.Name: Mercury,
	Venus.Name:   Venus,
	Mars.Name:    Mars,
	Jupiter.Name: Jupiter,
	Saturn.Name:  Saturn,
	Uranus.Name:  Uranus,
	Neptune.Name: Neptune,
	Pluto.Name:   Pluto,
}

// Lookup finds a planet by case-insensitive name. Earth is not a
// geocentric target and is not listed.
func Lookup(name string) (Planet, bool) {
	p, ok := byName[strings.ToLower(name)]
	return p, ok
}

// Vec3 is a heliocentric ecliptic position in AU.
type Vec3 struct {
	X, Y, Z float64
}

// Heliocentric returns p's heliocentric position in the J2000 ecliptic
// frame at Julian Day jd.
func Heliocentric(p Planet, jd float64) Vec3 {
	T := timeutil.JulianCenturies(jd)
	el := p.el

	a := el.A + el.ADot*T
	e := el.E + el.EDot*T
	I := timeutil.Deg2Rad(el.I + el.IDot*T)
	L := el.L + el.LDot*T
	peri := el.Peri + el.PeriDot*T
	node := el.Node + el.NodeDot*T

	omega := timeutil.Deg2Rad(peri - node) // argument of perihelion
	Omega := timeutil.Deg2Rad(node)

	// Mean anomaly in (-180, 180].
	M := timeutil.Normalize360(L - peri)
	if M > 180 {
		M -= 360
	}
	E := solveKepler(timeutil.Deg2Rad(M), e)

	// Position in the orbital plane, x' toward perihelion.
	xp := a * (math.Cos(E) - e)
	yp := a * math.Sqrt(1-e*e) * math.Sin(E)

	cw, sw := math.Cos(omega), math.Sin(omega)
	cO, sO := math.Cos(Omega), math.Sin(Omega)
	cI, sI := math.Cos(I), math.Sin(I)

	return Vec3{
		X: (cw*cO-sw*sO*cI)*xp + (-sw*cO-cw*sO*cI)*yp,
		Y: (cw*sO+sw*cO*cI)*xp + (-sw*sO+cw*cO*cI)*yp,
		Z: (sw*sI)*xp + (cw*sI)*yp,
	}
}

// GeocentricLongitude returns p's geocentric ecliptic longitude in degrees
// (mean equinox of date) at Julian Day jd. Light time is ignored.
func GeocentricLongitude(p Planet, jd float64) float64 {
	pl := Heliocentric(p, jd)
	earth := Heliocentric(EarthMoonBary, jd)

	lon := timeutil.Rad2Deg(math.Atan2(pl.Y-earth.Y, pl.X-earth.X))
	lon += precessionPerCentury * timeutil.JulianCenturies(jd)
	return timeutil.Normalize360(lon)
}

// solveKepler solves M = E - e sin E for E (radians) by Newton iteration.
func solveKepler(M, e float64) float64 {
	const (
		tol     = 1e-12
		maxIter = 50
	)

	E := M + e*math.Sin(M)
	for i := 0; i < maxIter; i++ {
		dE := (E - e*math.Sin(E) - M) / (1 - e*math.Cos(E))
		E -= dE
		if math.Abs(dE) < tol {
			break
		}
	}
	return E
}
